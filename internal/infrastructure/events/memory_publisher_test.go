package events

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainEvents "github.com/playforge/gamewallet/internal/domain/events"
)

func TestMemoryPublisherRecordsEvents(t *testing.T) {
	p := NewMemoryPublisher()
	ctx := context.Background()

	completed := domainEvents.NewTransferCompleted(
		uuid.New(), "key-12345678", "GOLD", uuid.New(), uuid.New(), "100", "topup",
	)
	failed := domainEvents.NewTransferFailed(
		uuid.New(), "key-87654321", "GOLD", "insufficient balance", "spend",
	)

	require.NoError(t, p.Publish(ctx, completed))
	require.NoError(t, p.Publish(ctx, failed))

	events := p.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "wallet.tx.completed", events[0].EventType())
	assert.Equal(t, "wallet.tx.failed", events[1].EventType())

	// The snapshot is a copy.
	events[0] = nil
	assert.NotNil(t, p.Events()[0])
}
