package engine

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/playforge/gamewallet/internal/domain/entities"
	"github.com/playforge/gamewallet/internal/domain/errors"
)

// The idempotency guard guarantees that each (idempotencyKey, assetType)
// pair produces exactly one persisted outcome, and that retries observe that
// outcome. The store's unique index on the pair is the authoritative lock.
//
// A replayed transaction may still be pending when another worker holds the
// lock; it is returned as-is, never retried here. Operators reconcile stuck
// pending transactions through the verification surface.

// normalizeIdempotencyKey trims the key and validates its minimum length.
func normalizeIdempotencyKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if len(key) < entities.MinIdempotencyKeyLength {
		return "", errors.ValidationError{
			Field:   "idempotencyKey",
			Message: "idempotency key must be at least 8 characters after trimming",
		}
	}
	return key, nil
}

// lookupReplay returns the previously persisted transaction for the key, or
// nil when this is a first execution.
func (e *Engine) lookupReplay(ctx context.Context, key string, assetTypeID uuid.UUID) (*entities.Transaction, error) {
	tx, err := e.store.Transactions().FindByIdempotencyKey(ctx, key, assetTypeID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.NewStoreError("transaction.findByIdempotencyKey", err)
	}
	return tx, nil
}

// awaitConcurrentWinner handles the duplicate-key race: a concurrent worker
// inserted the pending transaction first. Re-read in a short bounded loop
// with exponential backoff until the winner's row becomes visible; surface
// ErrTransactionConflict when it never does, so the caller may retry.
func (e *Engine) awaitConcurrentWinner(ctx context.Context, key string, assetTypeID uuid.UUID) (*entities.Transaction, error) {
	delay := e.cfg.ConflictRetryBaseDelay
	for attempt := 0; attempt < e.cfg.ConflictRetryAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2

		tx, err := e.lookupReplay(ctx, key, assetTypeID)
		if err != nil {
			return nil, err
		}
		if tx != nil {
			return tx, nil
		}
	}

	e.logger.Warn("duplicate-key winner never became visible",
		"idempotency_key", key,
		"asset_type_id", assetTypeID,
		"attempts", e.cfg.ConflictRetryAttempts,
	)
	return nil, errors.ErrTransactionConflict
}
