package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/playforge/gamewallet/internal/domain/errors"
	"github.com/playforge/gamewallet/internal/domain/valueobjects"
)

// TransactionType classifies a money-movement event.
type TransactionType string

const (
	TransactionTypeTopup      TransactionType = "topup"
	TransactionTypeBonus      TransactionType = "bonus"
	TransactionTypeSpend      TransactionType = "spend"
	TransactionTypeAdjustment TransactionType = "adjustment"
)

// IsValid checks if the transaction type is valid.
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeTopup, TransactionTypeBonus, TransactionTypeSpend, TransactionTypeAdjustment:
		return true
	default:
		return false
	}
}

// TransactionStatus is the state of a transaction in its lifecycle.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// IsValid checks if the transaction status is valid.
func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusCompleted, TransactionStatusFailed:
		return true
	default:
		return false
	}
}

// IsFinal returns true for terminal states. No transition ever leaves
// completed or failed.
func (s TransactionStatus) IsFinal() bool {
	return s == TransactionStatusCompleted || s == TransactionStatusFailed
}

// MinIdempotencyKeyLength is the minimum key length after trimming.
const MinIdempotencyKeyLength = 8

// Transaction records one money-movement event.
//
// State machine:
//
//	           create                debit + credit + 2 ledger entries
//	  ∅ ────────────────> pending ───────────────────────────────────> completed
//	                        │
//	                        │  any error after creation
//	                        └─────────────────────────────────────────> failed
//
// A pending Transaction is the at-most-once lock for its
// (idempotencyKey, assetType) pair: the worker that created it either
// completes or fails it.
type Transaction struct {
	id             uuid.UUID
	idempotencyKey string
	assetTypeID    uuid.UUID
	fromAccountID  uuid.UUID
	toAccountID    uuid.UUID
	amount         valueobjects.Amount
	txType         TransactionType
	status         TransactionStatus
	description    string
	metadata       map[string]any
	failureReason  string
	ledgerEntryIDs []uuid.UUID // two entries after completion
	createdAt      time.Time
	updatedAt      time.Time
	completedAt    *time.Time
}

// NewTransaction creates a pending transaction.
//
// Validation here covers structural rules only; balance and activity checks
// happen in the engine against the store.
func NewTransaction(
	idempotencyKey string,
	assetTypeID, fromAccountID, toAccountID uuid.UUID,
	amount valueobjects.Amount,
	txType TransactionType,
	description string,
	metadata map[string]any,
) (*Transaction, error) {
	if len(idempotencyKey) < MinIdempotencyKeyLength {
		return nil, errors.ValidationError{
			Field:   "idempotencyKey",
			Message: "idempotency key must be at least 8 characters",
		}
	}
	if !txType.IsValid() {
		return nil, errors.ValidationError{Field: "type", Message: "invalid transaction type"}
	}
	if !amount.IsPositive() {
		return nil, errors.ValidationError{Field: "amount", Message: "amount must be positive"}
	}
	if fromAccountID == toAccountID {
		return nil, errors.ErrInvalidTransfer
	}
	if metadata == nil {
		metadata = make(map[string]any)
	}

	now := time.Now()
	return &Transaction{
		id:             uuid.New(),
		idempotencyKey: idempotencyKey,
		assetTypeID:    assetTypeID,
		fromAccountID:  fromAccountID,
		toAccountID:    toAccountID,
		amount:         amount,
		txType:         txType,
		status:         TransactionStatusPending,
		description:    description,
		metadata:       metadata,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// ReconstructTransaction hydrates a Transaction from stored data.
func ReconstructTransaction(
	id uuid.UUID,
	idempotencyKey string,
	assetTypeID, fromAccountID, toAccountID uuid.UUID,
	amount valueobjects.Amount,
	txType TransactionType,
	status TransactionStatus,
	description string,
	metadata map[string]any,
	failureReason string,
	ledgerEntryIDs []uuid.UUID,
	createdAt, updatedAt time.Time,
	completedAt *time.Time,
) *Transaction {
	if metadata == nil {
		metadata = make(map[string]any)
	}
	return &Transaction{
		id:             id,
		idempotencyKey: idempotencyKey,
		assetTypeID:    assetTypeID,
		fromAccountID:  fromAccountID,
		toAccountID:    toAccountID,
		amount:         amount,
		txType:         txType,
		status:         status,
		description:    description,
		metadata:       metadata,
		failureReason:  failureReason,
		ledgerEntryIDs: ledgerEntryIDs,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
		completedAt:    completedAt,
	}
}

func (t *Transaction) ID() uuid.UUID                 { return t.id }
func (t *Transaction) IdempotencyKey() string        { return t.idempotencyKey }
func (t *Transaction) AssetTypeID() uuid.UUID        { return t.assetTypeID }
func (t *Transaction) FromAccountID() uuid.UUID      { return t.fromAccountID }
func (t *Transaction) ToAccountID() uuid.UUID        { return t.toAccountID }
func (t *Transaction) Amount() valueobjects.Amount   { return t.amount }
func (t *Transaction) Type() TransactionType         { return t.txType }
func (t *Transaction) Status() TransactionStatus     { return t.status }
func (t *Transaction) Description() string           { return t.description }
func (t *Transaction) Metadata() map[string]any      { return t.metadata }
func (t *Transaction) FailureReason() string         { return t.failureReason }
func (t *Transaction) LedgerEntryIDs() []uuid.UUID   { return t.ledgerEntryIDs }
func (t *Transaction) CreatedAt() time.Time          { return t.createdAt }
func (t *Transaction) UpdatedAt() time.Time          { return t.updatedAt }
func (t *Transaction) CompletedAt() *time.Time       { return t.completedAt }
func (t *Transaction) IsPending() bool               { return t.status == TransactionStatusPending }
func (t *Transaction) IsCompleted() bool             { return t.status == TransactionStatusCompleted }
func (t *Transaction) IsFailed() bool                { return t.status == TransactionStatusFailed }
func (t *Transaction) IsFinal() bool                 { return t.status.IsFinal() }

// MarkCompleted transitions pending -> completed, attaching the two ledger
// entry ids.
func (t *Transaction) MarkCompleted(debitEntryID, creditEntryID uuid.UUID) error {
	if !t.IsPending() {
		return errors.NewDomainError(
			"TRANSACTION_NOT_PENDING",
			"only pending transactions can be completed",
			nil,
		)
	}
	now := time.Now()
	t.status = TransactionStatusCompleted
	t.ledgerEntryIDs = []uuid.UUID{debitEntryID, creditEntryID}
	t.completedAt = &now
	t.updatedAt = now
	return nil
}

// MarkFailed transitions pending -> failed with a reason.
func (t *Transaction) MarkFailed(reason string) error {
	if t.IsFinal() {
		return errors.NewDomainError(
			"TRANSACTION_ALREADY_FINAL",
			"transaction already reached a terminal state",
			nil,
		)
	}
	now := time.Now()
	t.status = TransactionStatusFailed
	t.failureReason = reason
	t.completedAt = &now
	t.updatedAt = now
	return nil
}
