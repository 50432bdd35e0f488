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
var _ ports.AccountRepository = (*AccountRepository)(nil)

// AccountRepository implements ports.AccountRepository.
//
// The two balance primitives are single-statement conditional UPDATEs; the
// row-level atomicity of Postgres makes the predicate check and the mutation
// one indivisible step, which is all the transfer engine needs.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates the repository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const accountColumns = `id, user_id, account_type, asset_type_id, balance::text, display_name, metadata, is_active, created_at, updated_at`

// Create inserts a new account; the unique index on (user_id, asset_type_id)
// yields ErrAlreadyExists.
func (r *AccountRepository) Create(ctx context.Context, a *entities.Account) error {
	metadata, err := marshalMetadata(a.Metadata())
	if err != nil {
		return fmt.Errorf("failed to marshal account metadata: %w", err)
	}

	query := `
		INSERT INTO accounts (id, user_id, account_type, asset_type_id, balance, display_name, metadata, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8, $9, $10)
	`
	_, err = r.pool.Exec(ctx, query,
		a.ID(), a.UserID(), string(a.AccountType()), a.AssetTypeID(),
		a.Balance().String(), a.DisplayName(), metadata, a.IsActive(),
		a.CreatedAt(), a.UpdatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err, "accounts_user_asset") {
			return fmt.Errorf("%w: wallet for user %s", domainErrors.ErrAlreadyExists, a.UserID())
		}
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

// FindByID loads one account.
func (r *AccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.scan(r.pool.QueryRow(ctx, query, id))
}

// FindByUserAndAsset loads the wallet for (userId, assetType).
func (r *AccountRepository) FindByUserAndAsset(ctx context.Context, userID string, assetTypeID uuid.UUID) (*entities.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 AND asset_type_id = $2`
	return r.scan(r.pool.QueryRow(ctx, query, userID, assetTypeID))
}

// DebitIfSufficient applies balance <- balance - amount only while
// balance >= amount and the account is active, atomically with respect to
// concurrent updates of the same row.
func (r *AccountRepository) DebitIfSufficient(ctx context.Context, id uuid.UUID, amount valueobjects.Amount) (valueobjects.Amount, error) {
	query := `
		UPDATE accounts
		SET balance = balance - $2::numeric, updated_at = now()
		WHERE id = $1 AND is_active AND balance >= $2::numeric
		RETURNING balance::text
	`
	var balanceText string
	err := r.pool.QueryRow(ctx, query, id, amount.String()).Scan(&balanceText)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// The predicate did not match: missing, inactive or short.
			return valueobjects.ZeroAmount(), domainErrors.ErrInsufficientBalance
		}
		return valueobjects.ZeroAmount(), fmt.Errorf("failed to debit account: %w", err)
	}
	return scanAmount(balanceText)
}

// Credit applies balance <- balance + amount for an active account.
func (r *AccountRepository) Credit(ctx context.Context, id uuid.UUID, amount valueobjects.Amount) (valueobjects.Amount, error) {
	query := `
		UPDATE accounts
		SET balance = balance + $2::numeric, updated_at = now()
		WHERE id = $1 AND is_active
		RETURNING balance::text
	`
	var balanceText string
	err := r.pool.QueryRow(ctx, query, id, amount.String()).Scan(&balanceText)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return valueobjects.ZeroAmount(), domainErrors.ErrWalletInactive
		}
		return valueobjects.ZeroAmount(), fmt.Errorf("failed to credit account: %w", err)
	}
	return scanAmount(balanceText)
}

// List returns accounts matching the filter, newest first.
func (r *AccountRepository) List(ctx context.Context, filter ports.AccountFilter, offset, limit int) ([]*entities.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE 1=1`
	args := []any{}
	argNum := 1

	if filter.UserID != nil {
		query += fmt.Sprintf(" AND user_id = $%d", argNum)
		args = append(args, *filter.UserID)
		argNum++
	}
	if filter.AccountType != nil {
		query += fmt.Sprintf(" AND account_type = $%d", argNum)
		args = append(args, string(*filter.AccountType))
		argNum++
	}
	if filter.AssetTypeID != nil {
		query += fmt.Sprintf(" AND asset_type_id = $%d", argNum)
		args = append(args, *filter.AssetTypeID)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC, id OFFSET $%d LIMIT $%d", argNum, argNum+1)
	args = append(args, offset, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var out []*entities.Account
	for rows.Next() {
		a, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// scan hydrates one row into an Account.
func (r *AccountRepository) scan(row pgx.Row) (*entities.Account, error) {
	var (
		id, assetTypeID      uuid.UUID
		userID, accountType  string
		balanceText          string
		displayName          string
		metadataRaw          []byte
		isActive             bool
		createdAt, updatedAt time.Time
	)
	err := row.Scan(&id, &userID, &accountType, &assetTypeID, &balanceText,
		&displayName, &metadataRaw, &isActive, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}

	balance, err := scanAmount(balanceText)
	if err != nil {
		return nil, fmt.Errorf("invalid balance in database: %w", err)
	}
	metadata, err := unmarshalMetadata(metadataRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid account metadata in database: %w", err)
	}

	return entities.ReconstructAccount(
		id, userID, entities.AccountType(accountType), assetTypeID,
		balance, displayName, metadata, isActive, createdAt, updatedAt,
	), nil
}
