package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/playforge/gamewallet/internal/domain/errors"
	"github.com/playforge/gamewallet/internal/domain/valueobjects"
)

// EntryType is the direction of a ledger entry.
type EntryType string

const (
	EntryTypeCredit EntryType = "credit" // balance increases
	EntryTypeDebit  EntryType = "debit"  // balance decreases
)

// IsValid checks if the entry type is valid.
func (t EntryType) IsValid() bool {
	return t == EntryTypeCredit || t == EntryTypeDebit
}

// LedgerEntry is one immutable half of a double-entry record.
//
// Entries are append-only: never updated, never deleted. A completed
// Transaction owns exactly two — one debit on the source account, one credit
// on the destination, both for the Transaction's amount. BalanceAfter is the
// per-entry snapshot of the account balance returned by the atomic update, an
// ordering consistent with some serial schedule of those updates rather than
// with insertion order.
type LedgerEntry struct {
	id            uuid.UUID
	transactionID uuid.UUID
	accountID     uuid.UUID
	assetTypeID   uuid.UUID
	entryType     EntryType
	amount        valueobjects.Amount // > 0
	balanceAfter  valueobjects.Amount
	createdAt     time.Time
}

// NewLedgerEntry creates a ledger entry.
func NewLedgerEntry(
	transactionID, accountID, assetTypeID uuid.UUID,
	entryType EntryType,
	amount, balanceAfter valueobjects.Amount,
) (*LedgerEntry, error) {
	if !entryType.IsValid() {
		return nil, errors.ValidationError{Field: "entryType", Message: "entry type must be credit or debit"}
	}
	if !amount.IsPositive() {
		return nil, errors.ValidationError{Field: "amount", Message: "amount must be positive"}
	}
	return &LedgerEntry{
		id:            uuid.New(),
		transactionID: transactionID,
		accountID:     accountID,
		assetTypeID:   assetTypeID,
		entryType:     entryType,
		amount:        amount,
		balanceAfter:  balanceAfter,
		createdAt:     time.Now(),
	}, nil
}

// ReconstructLedgerEntry hydrates a LedgerEntry from stored data.
func ReconstructLedgerEntry(
	id, transactionID, accountID, assetTypeID uuid.UUID,
	entryType EntryType,
	amount, balanceAfter valueobjects.Amount,
	createdAt time.Time,
) *LedgerEntry {
	return &LedgerEntry{
		id:            id,
		transactionID: transactionID,
		accountID:     accountID,
		assetTypeID:   assetTypeID,
		entryType:     entryType,
		amount:        amount,
		balanceAfter:  balanceAfter,
		createdAt:     createdAt,
	}
}

func (e *LedgerEntry) ID() uuid.UUID                     { return e.id }
func (e *LedgerEntry) TransactionID() uuid.UUID          { return e.transactionID }
func (e *LedgerEntry) AccountID() uuid.UUID              { return e.accountID }
func (e *LedgerEntry) AssetTypeID() uuid.UUID            { return e.assetTypeID }
func (e *LedgerEntry) EntryType() EntryType              { return e.entryType }
func (e *LedgerEntry) Amount() valueobjects.Amount       { return e.amount }
func (e *LedgerEntry) BalanceAfter() valueobjects.Amount { return e.balanceAfter }
func (e *LedgerEntry) CreatedAt() time.Time              { return e.createdAt }
