// Package engine implements the transactional heart of the wallet service:
// the idempotency guard and the atomic debit/credit transfer protocol that
// keeps the cached account balances and the double-entry ledger consistent
// under concurrent, possibly-retried requests.
//
// The engine is stateless; all state lives behind the injected Store. Any
// number of replicas across any number of processes is safe, because the
// serialization point is the store's unique index, not an in-process mutex.
package engine

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/playforge/gamewallet/internal/application/ports"
	"github.com/playforge/gamewallet/internal/domain/entities"
	"github.com/playforge/gamewallet/internal/domain/valueobjects"
)

// Config tunes the engine's retry and limit behavior.
type Config struct {
	// MaxTransactionAmount rejects transfers above this amount with
	// ErrAmountExceedsLimit. Zero means unbounded.
	MaxTransactionAmount valueobjects.Amount

	// ConflictRetryAttempts bounds the re-read loop after losing a
	// duplicate-key race.
	ConflictRetryAttempts int

	// ConflictRetryBaseDelay is the first backoff step; it doubles per
	// attempt. The defaults keep the whole loop under 500ms.
	ConflictRetryBaseDelay time.Duration

	// LedgerWriteRetries bounds retries of a failing ledger-entry insert.
	LedgerWriteRetries int
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		MaxTransactionAmount:   valueobjects.ZeroAmount(), // unbounded
		ConflictRetryAttempts:  5,
		ConflictRetryBaseDelay: 15 * time.Millisecond,
		LedgerWriteRetries:     3,
	}
}

// Engine executes transfers against a Store.
type Engine struct {
	store     ports.Store
	publisher ports.EventPublisher
	logger    *slog.Logger
	cfg       Config
}

// New creates an Engine. publisher may be nil when no event sink is
// configured.
func New(store ports.Store, publisher ports.EventPublisher, logger *slog.Logger, cfg Config) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ConflictRetryAttempts <= 0 {
		cfg.ConflictRetryAttempts = 5
	}
	if cfg.ConflictRetryBaseDelay <= 0 {
		cfg.ConflictRetryBaseDelay = 15 * time.Millisecond
	}
	if cfg.LedgerWriteRetries <= 0 {
		cfg.LedgerWriteRetries = 3
	}
	return &Engine{store: store, publisher: publisher, logger: logger, cfg: cfg}
}

// TransferParams are the inputs of ExecuteTransfer. Accounts are expected to
// be pre-resolved; the engine re-validates existence, activity and asset
// consistency against the store.
type TransferParams struct {
	IdempotencyKey string
	AssetType      *entities.AssetType
	FromAccountID  uuid.UUID
	ToAccountID    uuid.UUID
	Amount         valueobjects.Amount
	Type           entities.TransactionType
	Description    string
	Metadata       map[string]any
}

// TransferResult is the outcome of ExecuteTransfer. On a replay, Transaction
// is the originally persisted outcome, returned verbatim.
type TransferResult struct {
	Transaction *entities.Transaction
	IsReplay    bool
}
