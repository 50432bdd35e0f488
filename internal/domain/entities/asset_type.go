// Package entities contains the wallet engine's domain entities: AssetType,
// Account, Transaction and LedgerEntry.
package entities

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/playforge/gamewallet/internal/domain/errors"
	"github.com/playforge/gamewallet/internal/domain/valueobjects"
)

// assetCodePattern: short uppercase symbol, e.g. "GOLD", "POINTS", "USDT".
var assetCodePattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]{1,15}$`)

// AssetType is a virtual currency definition.
//
// Lifecycle: created by the admin surface, never deleted, only deactivated.
// Inactive asset types may not be used in new transactions.
type AssetType struct {
	id            uuid.UUID
	code          string // globally unique, normalized uppercase
	name          string
	description   string
	decimalPlaces int32 // in [0, 8]; all amounts must be representable at this precision
	isActive      bool
	createdAt     time.Time
	updatedAt     time.Time
}

// NormalizeAssetCode uppercases and trims an asset code for case-insensitive
// comparison.
func NormalizeAssetCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NewAssetType creates a new active asset type.
func NewAssetType(code, name, description string, decimalPlaces int32) (*AssetType, error) {
	code = NormalizeAssetCode(code)
	if !assetCodePattern.MatchString(code) {
		return nil, errors.ValidationError{
			Field:   "code",
			Message: "asset code must be a short uppercase symbol",
		}
	}
	if name == "" {
		return nil, errors.ValidationError{Field: "name", Message: "name is required"}
	}
	if decimalPlaces < 0 || decimalPlaces > valueobjects.MaxDecimalPlaces {
		return nil, errors.ValidationError{
			Field:   "decimalPlaces",
			Message: "decimal places must be between 0 and 8",
		}
	}

	now := time.Now()
	return &AssetType{
		id:            uuid.New(),
		code:          code,
		name:          name,
		description:   description,
		decimalPlaces: decimalPlaces,
		isActive:      true,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructAssetType hydrates an AssetType from stored data.
func ReconstructAssetType(
	id uuid.UUID,
	code, name, description string,
	decimalPlaces int32,
	isActive bool,
	createdAt, updatedAt time.Time,
) *AssetType {
	return &AssetType{
		id:            id,
		code:          code,
		name:          name,
		description:   description,
		decimalPlaces: decimalPlaces,
		isActive:      isActive,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func (a *AssetType) ID() uuid.UUID        { return a.id }
func (a *AssetType) Code() string         { return a.code }
func (a *AssetType) Name() string         { return a.name }
func (a *AssetType) Description() string  { return a.description }
func (a *AssetType) DecimalPlaces() int32 { return a.decimalPlaces }
func (a *AssetType) IsActive() bool       { return a.isActive }
func (a *AssetType) CreatedAt() time.Time { return a.createdAt }
func (a *AssetType) UpdatedAt() time.Time { return a.updatedAt }

// Deactivate retires the asset type from new transactions. Existing balances
// and history remain readable.
func (a *AssetType) Deactivate() {
	a.isActive = false
	a.updatedAt = time.Now()
}

// Normalize rounds amt half-even to this asset's precision.
func (a *AssetType) Normalize(amt valueobjects.Amount) valueobjects.Amount {
	return amt.Round(a.decimalPlaces)
}
