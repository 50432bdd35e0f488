package postgres

import (
	"context"
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
var _ ports.AssetTypeRepository = (*AssetTypeRepository)(nil)

// AssetTypeRepository implements ports.AssetTypeRepository.
type AssetTypeRepository struct {
	pool *pgxpool.Pool
}

// NewAssetTypeRepository creates the repository.
func NewAssetTypeRepository(pool *pgxpool.Pool) *AssetTypeRepository {
	return &AssetTypeRepository{pool: pool}
}

const assetTypeColumns = `id, code, name, description, decimal_places, is_active, created_at, updated_at`

// Create inserts a new asset type; the unique index on code yields
// ErrAlreadyExists.
func (r *AssetTypeRepository) Create(ctx context.Context, at *entities.AssetType) error {
	query := `
		INSERT INTO asset_types (id, code, name, description, decimal_places, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		at.ID(), at.Code(), at.Name(), at.Description(),
		at.DecimalPlaces(), at.IsActive(), at.CreatedAt(), at.UpdatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err, "asset_types_code") {
			return fmt.Errorf("%w: asset code %s", domainErrors.ErrAlreadyExists, at.Code())
		}
		return fmt.Errorf("failed to insert asset type: %w", err)
	}
	return nil
}

// FindByID loads one asset type.
func (r *AssetTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.AssetType, error) {
	query := `SELECT ` + assetTypeColumns + ` FROM asset_types WHERE id = $1`
	return r.scan(r.pool.QueryRow(ctx, query, id))
}

// FindByCode loads one asset type by normalized code.
func (r *AssetTypeRepository) FindByCode(ctx context.Context, code string) (*entities.AssetType, error) {
	query := `SELECT ` + assetTypeColumns + ` FROM asset_types WHERE code = $1`
	return r.scan(r.pool.QueryRow(ctx, query, entities.NormalizeAssetCode(code)))
}

// List returns all asset types ordered by code.
func (r *AssetTypeRepository) List(ctx context.Context) ([]*entities.AssetType, error) {
	query := `SELECT ` + assetTypeColumns + ` FROM asset_types ORDER BY code ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list asset types: %w", err)
	}
	defer rows.Close()

	var out []*entities.AssetType
	for rows.Next() {
		at, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, at)
	}
	return out, rows.Err()
}

// scan hydrates one row into an AssetType.
func (r *AssetTypeRepository) scan(row pgx.Row) (*entities.AssetType, error) {
	var (
		id                      uuid.UUID
		code, name, description string
		decimalPlaces           int32
		isActive                bool
		createdAt, updatedAt    time.Time
	)
	err := row.Scan(&id, &code, &name, &description, &decimalPlaces, &isActive, &createdAt, &updatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domainErrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan asset type: %w", err)
	}
	return entities.ReconstructAssetType(id, code, name, description, decimalPlaces, isActive, createdAt, updatedAt), nil
}
