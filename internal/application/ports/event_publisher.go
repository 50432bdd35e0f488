package ports

import (
	"context"

	"github.com/playforge/gamewallet/internal/domain/events"
)

// EventPublisher publishes domain events to interested consumers.
//
// Implementations:
// - NATS (production)
// - In-memory (tests, no-broker deployments)
//
// Delivery is at-least-once; consumers must be idempotent. Publishing is
// best-effort from the engine's perspective: a failed publish is logged, it
// never rolls back a completed transfer.
type EventPublisher interface {
	// Publish emits one event.
	Publish(ctx context.Context, event events.DomainEvent) error
}
