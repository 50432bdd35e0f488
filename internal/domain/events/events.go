// Package events defines the domain events the transfer engine emits.
// Events are published after the owning transaction reaches a terminal state;
// delivery is at-least-once, so consumers must be idempotent.
package events

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the contract every event implements.
type DomainEvent interface {
	// EventType is the routing key, e.g. "wallet.tx.completed".
	EventType() string
	// OccurredAt is when the event was produced.
	OccurredAt() time.Time
}

// baseEvent carries the fields shared by all events.
type baseEvent struct {
	At time.Time `json:"occurredAt"`
}

func (e baseEvent) OccurredAt() time.Time { return e.At }

// TransferCompleted is emitted when a transfer reaches completed.
type TransferCompleted struct {
	baseEvent
	TransactionID  uuid.UUID `json:"transactionId"`
	IdempotencyKey string    `json:"idempotencyKey"`
	AssetCode      string    `json:"assetCode"`
	FromAccountID  uuid.UUID `json:"fromAccountId"`
	ToAccountID    uuid.UUID `json:"toAccountId"`
	Amount         string    `json:"amount"`
	Type           string    `json:"type"`
}

// EventType implements DomainEvent.
func (TransferCompleted) EventType() string { return "wallet.tx.completed" }

// NewTransferCompleted creates a TransferCompleted event.
func NewTransferCompleted(txID uuid.UUID, key, assetCode string, from, to uuid.UUID, amount, txType string) TransferCompleted {
	return TransferCompleted{
		baseEvent:      baseEvent{At: time.Now()},
		TransactionID:  txID,
		IdempotencyKey: key,
		AssetCode:      assetCode,
		FromAccountID:  from,
		ToAccountID:    to,
		Amount:         amount,
		Type:           txType,
	}
}

// TransferFailed is emitted when a transfer reaches failed.
type TransferFailed struct {
	baseEvent
	TransactionID  uuid.UUID `json:"transactionId"`
	IdempotencyKey string    `json:"idempotencyKey"`
	AssetCode      string    `json:"assetCode"`
	Reason         string    `json:"reason"`
	Type           string    `json:"type"`
}

// EventType implements DomainEvent.
func (TransferFailed) EventType() string { return "wallet.tx.failed" }

// NewTransferFailed creates a TransferFailed event.
func NewTransferFailed(txID uuid.UUID, key, assetCode, reason, txType string) TransferFailed {
	return TransferFailed{
		baseEvent:      baseEvent{At: time.Now()},
		TransactionID:  txID,
		IdempotencyKey: key,
		AssetCode:      assetCode,
		Reason:         reason,
		Type:           txType,
	}
}
