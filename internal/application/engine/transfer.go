package engine

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/playforge/gamewallet/internal/domain/entities"
	"github.com/playforge/gamewallet/internal/domain/errors"
	"github.com/playforge/gamewallet/internal/domain/events"
	"github.com/playforge/gamewallet/internal/domain/valueobjects"
)

// ExecuteTransfer moves Amount from FromAccountID to ToAccountID.
//
// Algorithm (first execution):
//
//  1. Idempotency lookup; on hit return the prior outcome as a replay.
//  2. Validate amount (normalized to the asset's precision), accounts and
//     asset consistency. Nothing is persisted before this point.
//  3. Insert a pending Transaction. A duplicate key means a concurrent
//     worker won the race: re-read with bounded backoff and return its
//     outcome as a replay.
//  4. Apply the two balance updates in sorted account-id order: conditional
//     debit on the source, unconditional credit on the destination. A
//     failure after the first update landed is compensated by reversing it
//     (best effort).
//  5. Persist the paired ledger entries with the balances returned by the
//     atomic updates, then mark the Transaction completed.
//
// Any error after step 3 flips the Transaction to failed before the
// classified error propagates.
func (e *Engine) ExecuteTransfer(ctx context.Context, params TransferParams) (*TransferResult, error) {
	key, err := normalizeIdempotencyKey(params.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	if params.AssetType == nil {
		return nil, errors.ValidationError{Field: "assetType", Message: "asset type is required"}
	}
	assetTypeID := params.AssetType.ID()

	// 1. Idempotency check. A pending replay is surfaced as-is, never
	// retried here.
	if prior, err := e.lookupReplay(ctx, key, assetTypeID); err != nil {
		return nil, err
	} else if prior != nil {
		return &TransferResult{Transaction: prior, IsReplay: true}, nil
	}

	// 2. Validation, all before any store mutation.
	amount, err := e.validateTransfer(ctx, params)
	if err != nil {
		return nil, err
	}

	// 3. Insert the pending transaction; the unique index is the lock.
	tx, err := entities.NewTransaction(
		key, assetTypeID,
		params.FromAccountID, params.ToAccountID,
		amount, params.Type, params.Description, params.Metadata,
	)
	if err != nil {
		return nil, err
	}

	if err := e.store.Transactions().Insert(ctx, tx); err != nil {
		if errors.IsConflict(err) {
			winner, werr := e.awaitConcurrentWinner(ctx, key, assetTypeID)
			if werr != nil {
				return nil, werr
			}
			return &TransferResult{Transaction: winner, IsReplay: true}, nil
		}
		return nil, errors.NewStoreError("transaction.insert", err)
	}

	// 4-5. Everything past this point must finalize the transaction.
	if err := e.settle(ctx, tx, params.AssetType); err != nil {
		e.fail(ctx, tx, err)
		e.publish(ctx, events.NewTransferFailed(
			tx.ID(), key, params.AssetType.Code(), tx.FailureReason(), string(tx.Type()),
		))
		return &TransferResult{Transaction: tx}, err
	}

	e.publish(ctx, events.NewTransferCompleted(
		tx.ID(), key, params.AssetType.Code(),
		tx.FromAccountID(), tx.ToAccountID(),
		tx.Amount().String(), string(tx.Type()),
	))
	return &TransferResult{Transaction: tx}, nil
}

// validateTransfer performs the pre-insert checks and returns the amount
// normalized to the asset's precision.
func (e *Engine) validateTransfer(ctx context.Context, params TransferParams) (valueobjects.Amount, error) {
	zero := valueobjects.ZeroAmount()

	if params.FromAccountID == params.ToAccountID {
		return zero, fmt.Errorf("%w: source and destination are the same account", errors.ErrInvalidTransfer)
	}
	if !params.Type.IsValid() {
		return zero, errors.ValidationError{Field: "type", Message: "invalid transaction type"}
	}

	// Round half-even to the asset's precision; the rounded value is the one
	// used everywhere downstream and must remain positive.
	amount := params.AssetType.Normalize(params.Amount)
	if !amount.IsPositive() {
		return zero, fmt.Errorf("%w: amount must be positive at %d decimal places",
			errors.ErrInvalidTransfer, params.AssetType.DecimalPlaces())
	}
	if max := e.cfg.MaxTransactionAmount; max.IsPositive() && amount.Cmp(max) > 0 {
		return zero, fmt.Errorf("%w: %s > %s", errors.ErrAmountExceedsLimit, amount, max)
	}

	for _, id := range []uuid.UUID{params.FromAccountID, params.ToAccountID} {
		acc, err := e.store.Accounts().FindByID(ctx, id)
		if err != nil {
			if errors.IsNotFound(err) {
				return zero, fmt.Errorf("%w: account %s", errors.ErrWalletNotFound, id)
			}
			return zero, errors.NewStoreError("account.findByID", err)
		}
		if !acc.IsActive() {
			return zero, fmt.Errorf("%w: account %s", errors.ErrWalletInactive, id)
		}
		if acc.AssetTypeID() != params.AssetType.ID() {
			return zero, fmt.Errorf("%w: account %s holds a different asset", errors.ErrAssetMismatch, id)
		}
	}

	return amount, nil
}

// settle applies the balance updates, writes the ledger pair and completes
// the transaction.
func (e *Engine) settle(ctx context.Context, tx *entities.Transaction, asset *entities.AssetType) error {
	amount := tx.Amount()
	from, to := tx.FromAccountID(), tx.ToAccountID()

	// Deterministic lock order: the updates run in ascending account-id
	// order. The baseline store only needs per-document atomicity, but a
	// global order keeps reversed concurrent transfers deadlock-free on
	// backends that take row locks.
	debitRunsFirst := from.String() < to.String()

	var fromBalance, toBalance valueobjects.Amount
	debit := func() error {
		b, err := e.store.Accounts().DebitIfSufficient(ctx, from, amount)
		if err != nil {
			if stderrors.Is(err, errors.ErrInsufficientBalance) || errors.IsNotFound(err) {
				return fmt.Errorf("%w: account %s", errors.ErrInsufficientBalance, from)
			}
			return errors.NewStoreError("account.debit", err)
		}
		fromBalance = b
		return nil
	}
	credit := func() error {
		b, err := e.store.Accounts().Credit(ctx, to, amount)
		if err != nil {
			return errors.NewStoreError("account.credit", err)
		}
		toBalance = b
		return nil
	}

	if debitRunsFirst {
		if err := debit(); err != nil {
			return err
		}
		if err := credit(); err != nil {
			// The debit already landed; re-add the deducted amount to the
			// source. Best effort.
			e.compensate(ctx, tx, "credit", func() error {
				_, cerr := e.store.Accounts().Credit(ctx, from, amount)
				return cerr
			})
			return err
		}
	} else {
		if err := credit(); err != nil {
			return err
		}
		if err := debit(); err != nil {
			// The credit already landed; pull the amount back off the
			// destination. Best effort.
			e.compensate(ctx, tx, "debit", func() error {
				_, cerr := e.store.Accounts().DebitIfSufficient(ctx, to, amount)
				return cerr
			})
			return err
		}
	}

	debitEntry, creditEntry, err := e.writeLedgerEntries(ctx, tx, asset, fromBalance, toBalance)
	if err != nil {
		// Balance updates stay in place; the verification endpoint detects
		// the gap and operators reconcile.
		return err
	}

	if err := tx.MarkCompleted(debitEntry.ID(), creditEntry.ID()); err != nil {
		return err
	}
	if err := e.store.Transactions().Update(ctx, tx); err != nil {
		return errors.NewStoreError("transaction.update", err)
	}
	return nil
}

// compensate reverses the half of a transfer that landed before the other
// half failed. When the compensation itself fails, the double fault is
// recorded on the transaction for out-of-band audit.
func (e *Engine) compensate(ctx context.Context, tx *entities.Transaction, failedStep string, undo func() error) {
	if err := undo(); err != nil {
		e.logger.Error("compensation failed; manual reconciliation required",
			"transaction_id", tx.ID(),
			"failed_step", failedStep,
			"amount", tx.Amount().String(),
			"error", err,
		)
		_ = tx.MarkFailed(fmt.Sprintf(
			"%s failed and compensation failed: %v; amount %s needs manual reconciliation",
			failedStep, err, tx.Amount(),
		))
	}
}

// writeLedgerEntries persists the debit/credit pair, retrying each failing
// side a bounded number of times.
func (e *Engine) writeLedgerEntries(
	ctx context.Context,
	tx *entities.Transaction,
	asset *entities.AssetType,
	fromBalance, toBalance valueobjects.Amount,
) (*entities.LedgerEntry, *entities.LedgerEntry, error) {
	debitEntry, err := entities.NewLedgerEntry(
		tx.ID(), tx.FromAccountID(), asset.ID(), entities.EntryTypeDebit, tx.Amount(), fromBalance,
	)
	if err != nil {
		return nil, nil, err
	}
	creditEntry, err := entities.NewLedgerEntry(
		tx.ID(), tx.ToAccountID(), asset.ID(), entities.EntryTypeCredit, tx.Amount(), toBalance,
	)
	if err != nil {
		return nil, nil, err
	}

	for _, entry := range []*entities.LedgerEntry{debitEntry, creditEntry} {
		if err := e.insertLedgerEntryWithRetry(ctx, entry); err != nil {
			return nil, nil, errors.NewStoreError("ledgerEntry.insert", err)
		}
	}
	return debitEntry, creditEntry, nil
}

// insertLedgerEntryWithRetry retries a failing insert up to the configured
// bound.
func (e *Engine) insertLedgerEntryWithRetry(ctx context.Context, entry *entities.LedgerEntry) error {
	var err error
	for attempt := 0; attempt < e.cfg.LedgerWriteRetries; attempt++ {
		if err = e.store.LedgerEntries().Insert(ctx, entry); err == nil {
			return nil
		}
		e.logger.Warn("ledger entry insert failed",
			"transaction_id", entry.TransactionID(),
			"entry_type", string(entry.EntryType()),
			"attempt", attempt+1,
			"error", err,
		)
	}
	return err
}

// fail flips the transaction to failed with the error as reason and persists
// it. A reason recorded by a double-fault compensation is kept.
func (e *Engine) fail(ctx context.Context, tx *entities.Transaction, cause error) {
	if !tx.IsFinal() {
		_ = tx.MarkFailed(cause.Error())
	}
	if err := e.store.Transactions().Update(ctx, tx); err != nil {
		e.logger.Error("failed to persist failed transaction",
			"transaction_id", tx.ID(),
			"error", err,
		)
	}
}

// publish emits an event, logging instead of failing the operation.
func (e *Engine) publish(ctx context.Context, event events.DomainEvent) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.Publish(ctx, event); err != nil {
		e.logger.Warn("event publish failed", "event", event.EventType(), "error", err)
	}
}
