package events

import (
	"context"
	"sync"

	"github.com/playforge/gamewallet/internal/application/ports"
	domainEvents "github.com/playforge/gamewallet/internal/domain/events"
)

// Compile-time check.
var _ ports.EventPublisher = (*MemoryPublisher)(nil)

// MemoryPublisher records published events in memory. Used by tests and by
// deployments without a broker.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []domainEvents.DomainEvent
}

// NewMemoryPublisher creates an empty recorder.
func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

// Publish implements ports.EventPublisher.
func (p *MemoryPublisher) Publish(_ context.Context, event domainEvents.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

// Events returns a snapshot of everything published so far.
func (p *MemoryPublisher) Events() []domainEvents.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domainEvents.DomainEvent(nil), p.events...)
}
