package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/playforge/gamewallet/internal/application/ports"
	"github.com/playforge/gamewallet/internal/domain/entities"
	domainErrors "github.com/playforge/gamewallet/internal/domain/errors"
)

// Compile-time check.
var _ ports.TransactionRepository = (*TransactionRepository)(nil)

// TransactionRepository implements ports.TransactionRepository. The unique
// index on (idempotency_key, asset_type_id) is the engine's at-most-once
// lock; Insert surfaces it as ErrDuplicateKey.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates the repository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, idempotency_key, asset_type_id, from_account_id, to_account_id,
	amount::text, tx_type, status, description, metadata, failure_reason,
	ledger_entry_ids, created_at, updated_at, completed_at`

// Insert persists a new pending transaction.
func (r *TransactionRepository) Insert(ctx context.Context, tx *entities.Transaction) error {
	metadata, err := marshalMetadata(tx.Metadata())
	if err != nil {
		return fmt.Errorf("failed to marshal transaction metadata: %w", err)
	}

	query := `
		INSERT INTO transactions (
			id, idempotency_key, asset_type_id, from_account_id, to_account_id,
			amount, tx_type, status, description, metadata, failure_reason,
			ledger_entry_ids, created_at, updated_at, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err = r.pool.Exec(ctx, query,
		tx.ID(), tx.IdempotencyKey(), tx.AssetTypeID(),
		tx.FromAccountID(), tx.ToAccountID(),
		tx.Amount().String(), string(tx.Type()), string(tx.Status()),
		tx.Description(), metadata, tx.FailureReason(),
		uuidStrings(tx.LedgerEntryIDs()), tx.CreatedAt(), tx.UpdatedAt(), tx.CompletedAt(),
	)
	if err != nil {
		if isUniqueViolation(err, "transactions_idem_asset") {
			return fmt.Errorf("%w: idempotency key %s", domainErrors.ErrDuplicateKey, tx.IdempotencyKey())
		}
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// FindByID loads one transaction.
func (r *TransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	return r.scan(r.pool.QueryRow(ctx, query, id))
}

// FindByIdempotencyKey loads the transaction for (idempotencyKey, assetType).
func (r *TransactionRepository) FindByIdempotencyKey(ctx context.Context, key string, assetTypeID uuid.UUID) (*entities.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE idempotency_key = $1 AND asset_type_id = $2`
	return r.scan(r.pool.QueryRow(ctx, query, key, assetTypeID))
}

// FindByIDs loads a batch of transactions keyed by id.
func (r *TransactionRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entities.Transaction, error) {
	out := make(map[uuid.UUID]*entities.Transaction, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = ANY($1)`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		tx, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		out[tx.ID()] = tx
	}
	return out, rows.Err()
}

// Update persists the mutable tail of a transaction: status, failure reason,
// ledger entry references and timestamps. The immutable head never changes.
func (r *TransactionRepository) Update(ctx context.Context, tx *entities.Transaction) error {
	query := `
		UPDATE transactions
		SET status = $2, failure_reason = $3, ledger_entry_ids = $4, updated_at = $5, completed_at = $6
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		tx.ID(), string(tx.Status()), tx.FailureReason(),
		uuidStrings(tx.LedgerEntryIDs()), tx.UpdatedAt(), tx.CompletedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// List returns transactions matching the filter, newest first.
func (r *TransactionRepository) List(ctx context.Context, filter ports.TransactionFilter, offset, limit int) ([]*entities.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE 1=1`
	args := []any{}
	argNum := 1

	if filter.AccountID != nil {
		query += fmt.Sprintf(" AND (from_account_id = $%d OR to_account_id = $%d)", argNum, argNum)
		args = append(args, *filter.AccountID)
		argNum++
	}
	if filter.AssetTypeID != nil {
		query += fmt.Sprintf(" AND asset_type_id = $%d", argNum)
		args = append(args, *filter.AssetTypeID)
		argNum++
	}
	if filter.Type != nil {
		query += fmt.Sprintf(" AND tx_type = $%d", argNum)
		args = append(args, string(*filter.Type))
		argNum++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, string(*filter.Status))
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC, id OFFSET $%d LIMIT $%d", argNum, argNum+1)
	args = append(args, offset, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var out []*entities.Transaction
	for rows.Next() {
		tx, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

// scan hydrates one row into a Transaction.
func (r *TransactionRepository) scan(row pgx.Row) (*entities.Transaction, error) {
	var (
		id, assetTypeID, fromID, toID uuid.UUID
		idempotencyKey                string
		amountText                    string
		txType, status, description   string
		metadataRaw                   []byte
		failureReason                 string
		ledgerEntryIDs                []string
		createdAt, updatedAt          time.Time
		completedAt                   *time.Time
	)
	err := row.Scan(&id, &idempotencyKey, &assetTypeID, &fromID, &toID,
		&amountText, &txType, &status, &description, &metadataRaw, &failureReason,
		&ledgerEntryIDs, &createdAt, &updatedAt, &completedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}

	amount, err := scanAmount(amountText)
	if err != nil {
		return nil, fmt.Errorf("invalid amount in database: %w", err)
	}
	metadata, err := unmarshalMetadata(metadataRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction metadata in database: %w", err)
	}
	entryIDs, err := parseUUIDs(ledgerEntryIDs)
	if err != nil {
		return nil, fmt.Errorf("invalid ledger entry ids in database: %w", err)
	}

	return entities.ReconstructTransaction(
		id, idempotencyKey, assetTypeID, fromID, toID,
		amount, entities.TransactionType(txType), entities.TransactionStatus(status),
		description, metadata, failureReason, entryIDs,
		createdAt, updatedAt, completedAt,
	), nil
}

// uuidStrings converts ids for the text[] column.
func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

// parseUUIDs converts a text[] column back to ids.
func parseUUIDs(in []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(in))
	for _, s := range in {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
