// Package resolver maps symbolic inputs (asset codes, user ids, system
// account names) to concrete store records, validating activity along the
// way. Every engine flow starts here.
package resolver

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/playforge/gamewallet/internal/application/ports"
	"github.com/playforge/gamewallet/internal/domain/entities"
	"github.com/playforge/gamewallet/internal/domain/errors"
)

// Resolver resolves asset codes and account owners against the store.
type Resolver struct {
	assetTypes ports.AssetTypeRepository
	accounts   ports.AccountRepository
}

// New creates a Resolver.
func New(assetTypes ports.AssetTypeRepository, accounts ports.AccountRepository) *Resolver {
	return &Resolver{assetTypes: assetTypes, accounts: accounts}
}

// ResolveAssetType resolves a case-insensitive asset code to its active
// AssetType. Inactive or unknown codes fail with ErrAssetNotFound.
func (r *Resolver) ResolveAssetType(ctx context.Context, code string) (*entities.AssetType, error) {
	normalized := entities.NormalizeAssetCode(code)
	if normalized == "" {
		return nil, errors.ValidationError{Field: "assetCode", Message: "asset code is required"}
	}

	at, err := r.assetTypes.FindByCode(ctx, normalized)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", errors.ErrAssetNotFound, normalized)
		}
		return nil, errors.NewStoreError("assetType.findByCode", err)
	}
	if !at.IsActive() {
		return nil, fmt.Errorf("%w: %s", errors.ErrAssetNotFound, normalized)
	}
	return at, nil
}

// ResolveUserAccount resolves the wallet owned by userID for the given asset
// type. Fails with ErrWalletNotFound when absent and ErrWalletInactive when
// deactivated.
func (r *Resolver) ResolveUserAccount(ctx context.Context, userID string, assetTypeID uuid.UUID) (*entities.Account, error) {
	if userID == "" {
		return nil, errors.ValidationError{Field: "userId", Message: "user id is required"}
	}

	acc, err := r.accounts.FindByUserAndAsset(ctx, userID, assetTypeID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, fmt.Errorf("%w: user %s", errors.ErrWalletNotFound, userID)
		}
		return nil, errors.NewStoreError("account.findByUserAndAsset", err)
	}
	if !acc.IsActive() {
		return nil, fmt.Errorf("%w: user %s", errors.ErrWalletInactive, userID)
	}
	return acc, nil
}

// ResolveSystemAccount resolves one of the well-known system accounts
// (SYSTEM_TREASURY, SYSTEM_BONUS_POOL, SYSTEM_REVENUE) for the given asset
// type. Same contract as ResolveUserAccount, restricted to system accounts.
func (r *Resolver) ResolveSystemAccount(ctx context.Context, name string, assetTypeID uuid.UUID) (*entities.Account, error) {
	if !entities.IsSystemAccountName(name) {
		return nil, errors.ValidationError{
			Field:   "systemAccount",
			Message: fmt.Sprintf("unknown system account %q", name),
		}
	}

	acc, err := r.ResolveUserAccount(ctx, name, assetTypeID)
	if err != nil {
		return nil, err
	}
	if !acc.IsSystem() {
		return nil, fmt.Errorf("%w: %s is not a system account", errors.ErrWalletNotFound, name)
	}
	return acc, nil
}
