// Package ports defines the interfaces the application layer depends on.
// Implementations live in the infrastructure layer.
//
// Pattern: Repository Pattern + Ports & Adapters (Hexagonal Architecture)
package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/playforge/gamewallet/internal/domain/entities"
	"github.com/playforge/gamewallet/internal/domain/valueobjects"
)

// The Store contract deliberately avoids cross-document transactions. The
// transfer engine relies on exactly two storage guarantees:
//
//  1. per-document atomicity (conditional/unconditional account updates), and
//  2. a unique-key constraint (the idempotency lock and the one-wallet-per-
//     user-per-asset rule).
//
// Any backend that offers both can implement these interfaces.

// AssetTypeRepository stores currency definitions.
type AssetTypeRepository interface {
	// Create inserts a new asset type. Returns errors.ErrAlreadyExists when
	// the code is taken.
	Create(ctx context.Context, at *entities.AssetType) error

	// FindByID loads an asset type. Returns errors.ErrNotFound if absent.
	FindByID(ctx context.Context, id uuid.UUID) (*entities.AssetType, error)

	// FindByCode loads an asset type by its normalized uppercase code.
	// Returns errors.ErrNotFound if absent.
	FindByCode(ctx context.Context, code string) (*entities.AssetType, error)

	// List returns all asset types ordered by code.
	List(ctx context.Context) ([]*entities.AssetType, error)
}

// AccountRepository stores wallets and provides the atomic balance
// primitives the transfer engine is built on.
type AccountRepository interface {
	// Create inserts a new account. Returns errors.ErrAlreadyExists when a
	// wallet for (userId, assetType) already exists.
	Create(ctx context.Context, a *entities.Account) error

	// FindByID loads an account. Returns errors.ErrNotFound if absent.
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Account, error)

	// FindByUserAndAsset loads the wallet for (userId, assetType).
	// Returns errors.ErrNotFound if absent.
	FindByUserAndAsset(ctx context.Context, userID string, assetTypeID uuid.UUID) (*entities.Account, error)

	// DebitIfSufficient atomically applies balance <- balance - amount under
	// the predicate `balance >= amount AND isActive`. It returns the balance
	// after the update, or errors.ErrInsufficientBalance when the predicate
	// did not match. The check and the mutation are a single atomic step with
	// respect to concurrent updates of the same account.
	DebitIfSufficient(ctx context.Context, id uuid.UUID, amount valueobjects.Amount) (valueobjects.Amount, error)

	// Credit atomically applies balance <- balance + amount under the
	// predicate `isActive`. It returns the balance after the update, or
	// errors.ErrWalletInactive when the account is missing or inactive.
	Credit(ctx context.Context, id uuid.UUID, amount valueobjects.Amount) (valueobjects.Amount, error)

	// List returns accounts matching the filter, newest first.
	List(ctx context.Context, filter AccountFilter, offset, limit int) ([]*entities.Account, error)
}

// AccountFilter narrows account listings.
type AccountFilter struct {
	UserID      *string
	AccountType *entities.AccountType
	AssetTypeID *uuid.UUID
}

// TransactionRepository stores money-movement records. The unique index on
// (idempotencyKey, assetType) is the engine's at-most-once lock.
type TransactionRepository interface {
	// Insert persists a new transaction. Returns errors.ErrDuplicateKey when
	// a transaction with the same (idempotencyKey, assetType) exists.
	Insert(ctx context.Context, tx *entities.Transaction) error

	// FindByID loads a transaction. Returns errors.ErrNotFound if absent.
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Transaction, error)

	// FindByIdempotencyKey loads the transaction for
	// (idempotencyKey, assetType). Returns errors.ErrNotFound if absent.
	FindByIdempotencyKey(ctx context.Context, key string, assetTypeID uuid.UUID) (*entities.Transaction, error)

	// FindByIDs loads a batch of transactions keyed by id. Missing ids are
	// simply absent from the result.
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entities.Transaction, error)

	// Update persists status, failure reason and ledger entry references of
	// an existing transaction.
	Update(ctx context.Context, tx *entities.Transaction) error

	// List returns transactions matching the filter, newest first.
	List(ctx context.Context, filter TransactionFilter, offset, limit int) ([]*entities.Transaction, error)
}

// TransactionFilter narrows transaction listings.
type TransactionFilter struct {
	AccountID   *uuid.UUID // matches either side of the transfer
	AssetTypeID *uuid.UUID
	Type        *entities.TransactionType
	Status      *entities.TransactionStatus
}

// LedgerEntryRepository stores the append-only double-entry records.
type LedgerEntryRepository interface {
	// Insert appends a ledger entry. Entries are never updated or deleted.
	Insert(ctx context.Context, e *entities.LedgerEntry) error

	// ListByAccount returns entries for an account, most recent first.
	ListByAccount(ctx context.Context, accountID uuid.UUID, offset, limit int) ([]*entities.LedgerEntry, error)

	// CountByAccount returns the total number of entries for an account.
	CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error)

	// FindByTransaction returns the entries belonging to one transaction.
	FindByTransaction(ctx context.Context, transactionID uuid.UUID) ([]*entities.LedgerEntry, error)

	// SumByAccount computes total credits and total debits over every entry
	// of the account. Used by ledger integrity verification.
	SumByAccount(ctx context.Context, accountID uuid.UUID) (credits, debits valueobjects.Amount, err error)
}

// Store bundles the four repositories a backend provides.
type Store interface {
	AssetTypes() AssetTypeRepository
	Accounts() AccountRepository
	Transactions() TransactionRepository
	LedgerEntries() LedgerEntryRepository
}
