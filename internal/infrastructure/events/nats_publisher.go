// Package events provides EventPublisher implementations: NATS for
// production and an in-memory recorder for tests and broker-less runs.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/playforge/gamewallet/internal/application/ports"
	domainEvents "github.com/playforge/gamewallet/internal/domain/events"
)

// Compile-time check.
var _ ports.EventPublisher = (*NATSPublisher)(nil)

// NATSPublisher publishes domain events as JSON messages whose subject is the
// event type under a configurable prefix, e.g. "gamewallet.wallet.tx.completed".
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
}

// NewNATSPublisher connects to the broker. The connection reconnects
// automatically; a publish during an outage is buffered by the client up to
// its pending limits.
func NewNATSPublisher(url, prefix string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("gamewallet"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	return &NATSPublisher{conn: conn, prefix: prefix}, nil
}

// Publish implements ports.EventPublisher.
func (p *NATSPublisher) Publish(_ context.Context, event domainEvents.DomainEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", event.EventType(), err)
	}

	subject := event.EventType()
	if p.prefix != "" {
		subject = p.prefix + "." + subject
	}
	if err := p.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("failed to publish %s: %w", subject, err)
	}
	return nil
}

// Close drains the connection.
func (p *NATSPublisher) Close() {
	if p.conn != nil {
		_ = p.conn.Drain()
	}
}
