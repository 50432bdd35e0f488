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
	"github.com/playforge/gamewallet/internal/domain/valueobjects"
)

// Compile-time check.
var _ ports.LedgerEntryRepository = (*LedgerEntryRepository)(nil)

// LedgerEntryRepository implements ports.LedgerEntryRepository.
// The table is append-only: there is no update or delete path.
type LedgerEntryRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerEntryRepository creates the repository.
func NewLedgerEntryRepository(pool *pgxpool.Pool) *LedgerEntryRepository {
	return &LedgerEntryRepository{pool: pool}
}

const ledgerColumns = `id, transaction_id, account_id, asset_type_id, entry_type, amount::text, balance_after::text, created_at`

// Insert appends a ledger entry.
func (r *LedgerEntryRepository) Insert(ctx context.Context, e *entities.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (id, transaction_id, account_id, asset_type_id, entry_type, amount, balance_after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6::numeric, $7::numeric, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		e.ID(), e.TransactionID(), e.AccountID(), e.AssetTypeID(),
		string(e.EntryType()), e.Amount().String(), e.BalanceAfter().String(), e.CreatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: ledger entry %s", domainErrors.ErrAlreadyExists, e.ID())
		}
		return fmt.Errorf("failed to insert ledger entry: %w", err)
	}
	return nil
}

// ListByAccount returns entries for an account, most recent first.
func (r *LedgerEntryRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, offset, limit int) ([]*entities.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY created_at DESC, id
		OFFSET $2 LIMIT $3
	`
	rows, err := r.pool.Query(ctx, query, accountID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	var out []*entities.LedgerEntry
	for rows.Next() {
		e, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CountByAccount returns the number of entries for an account.
func (r *LedgerEntryRepository) CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM ledger_entries WHERE account_id = $1`, accountID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count ledger entries: %w", err)
	}
	return n, nil
}

// FindByTransaction returns the entries of one transaction.
func (r *LedgerEntryRepository) FindByTransaction(ctx context.Context, transactionID uuid.UUID) ([]*entities.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE transaction_id = $1 ORDER BY entry_type`
	rows, err := r.pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find ledger entries by transaction: %w", err)
	}
	defer rows.Close()

	var out []*entities.LedgerEntry
	for rows.Next() {
		e, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// SumByAccount computes total credits and total debits for an account. The
// sum happens in the database over the exact NUMERIC column.
func (r *LedgerEntryRepository) SumByAccount(ctx context.Context, accountID uuid.UUID) (valueobjects.Amount, valueobjects.Amount, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE entry_type = 'credit'), 0)::text,
			COALESCE(SUM(amount) FILTER (WHERE entry_type = 'debit'), 0)::text
		FROM ledger_entries
		WHERE account_id = $1
	`
	var creditsText, debitsText string
	if err := r.pool.QueryRow(ctx, query, accountID).Scan(&creditsText, &debitsText); err != nil {
		return valueobjects.ZeroAmount(), valueobjects.ZeroAmount(),
			fmt.Errorf("failed to sum ledger entries: %w", err)
	}

	credits, err := scanAmount(creditsText)
	if err != nil {
		return valueobjects.ZeroAmount(), valueobjects.ZeroAmount(), err
	}
	debits, err := scanAmount(debitsText)
	if err != nil {
		return valueobjects.ZeroAmount(), valueobjects.ZeroAmount(), err
	}
	return credits, debits, nil
}

// scan hydrates one row into a LedgerEntry.
func (r *LedgerEntryRepository) scan(row pgx.Row) (*entities.LedgerEntry, error) {
	var (
		id, transactionID, accountID, assetTypeID uuid.UUID
		entryType                                 string
		amountText, balanceAfterText              string
		createdAt                                 time.Time
	)
	err := row.Scan(&id, &transactionID, &accountID, &assetTypeID,
		&entryType, &amountText, &balanceAfterText, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
	}

	amount, err := scanAmount(amountText)
	if err != nil {
		return nil, fmt.Errorf("invalid amount in database: %w", err)
	}
	balanceAfter, err := scanAmount(balanceAfterText)
	if err != nil {
		return nil, fmt.Errorf("invalid balance_after in database: %w", err)
	}

	return entities.ReconstructLedgerEntry(
		id, transactionID, accountID, assetTypeID,
		entities.EntryType(entryType), amount, balanceAfter, createdAt,
	), nil
}
