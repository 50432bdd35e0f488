package resolver

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playforge/gamewallet/internal/domain/entities"
	"github.com/playforge/gamewallet/internal/domain/errors"
	"github.com/playforge/gamewallet/internal/infrastructure/persistence/memory"
)

func setup(t *testing.T) (*Resolver, *memory.Store, *entities.AssetType) {
	t.Helper()
	ctx := context.Background()
	store := memory.New()

	asset, err := entities.NewAssetType("GOLD", "Gold Coins", "", 2)
	require.NoError(t, err)
	require.NoError(t, store.AssetTypes().Create(ctx, asset))

	return New(store.AssetTypes(), store.Accounts()), store, asset
}

func TestResolveAssetType(t *testing.T) {
	r, store, asset := setup(t)
	ctx := context.Background()

	t.Run("resolves case-insensitively", func(t *testing.T) {
		for _, code := range []string{"GOLD", "gold", " Gold "} {
			got, err := r.ResolveAssetType(ctx, code)
			require.NoError(t, err, "code %q", code)
			assert.Equal(t, asset.ID(), got.ID())
		}
	})

	t.Run("unknown code fails AssetNotFound", func(t *testing.T) {
		_, err := r.ResolveAssetType(ctx, "SILVER")
		assert.ErrorIs(t, err, errors.ErrAssetNotFound)
	})

	t.Run("inactive asset fails AssetNotFound", func(t *testing.T) {
		retired, err := entities.NewAssetType("RETIRED", "Old Coins", "", 0)
		require.NoError(t, err)
		retired.Deactivate()
		require.NoError(t, store.AssetTypes().Create(ctx, retired))

		_, err = r.ResolveAssetType(ctx, "RETIRED")
		assert.ErrorIs(t, err, errors.ErrAssetNotFound)
	})

	t.Run("empty code is a validation error", func(t *testing.T) {
		_, err := r.ResolveAssetType(ctx, "  ")
		assert.True(t, errors.IsValidation(err))
	})
}

func TestResolveUserAccount(t *testing.T) {
	r, store, asset := setup(t)
	ctx := context.Background()

	account, err := entities.NewAccount("user_alice", entities.AccountTypeUser, asset.ID(), "Alice", nil)
	require.NoError(t, err)
	require.NoError(t, store.Accounts().Create(ctx, account))

	t.Run("resolves an active wallet", func(t *testing.T) {
		got, err := r.ResolveUserAccount(ctx, "user_alice", asset.ID())
		require.NoError(t, err)
		assert.Equal(t, account.ID(), got.ID())
	})

	t.Run("missing wallet fails WalletNotFound", func(t *testing.T) {
		_, err := r.ResolveUserAccount(ctx, "user_nobody", asset.ID())
		assert.ErrorIs(t, err, errors.ErrWalletNotFound)
	})

	t.Run("inactive wallet fails WalletInactive", func(t *testing.T) {
		inactive, err := entities.NewAccount("user_frozen", entities.AccountTypeUser, asset.ID(), "", nil)
		require.NoError(t, err)
		inactive.Deactivate()
		require.NoError(t, store.Accounts().Create(ctx, inactive))

		_, err = r.ResolveUserAccount(ctx, "user_frozen", asset.ID())
		assert.ErrorIs(t, err, errors.ErrWalletInactive)
	})
}

func TestResolveSystemAccount(t *testing.T) {
	r, store, asset := setup(t)
	ctx := context.Background()

	treasury, err := entities.NewAccount(entities.SystemTreasury, entities.AccountTypeSystem, asset.ID(), "Treasury", nil)
	require.NoError(t, err)
	require.NoError(t, store.Accounts().Create(ctx, treasury))

	t.Run("resolves a system account", func(t *testing.T) {
		got, err := r.ResolveSystemAccount(ctx, entities.SystemTreasury, asset.ID())
		require.NoError(t, err)
		assert.Equal(t, treasury.ID(), got.ID())
		assert.True(t, got.IsSystem())
	})

	t.Run("unknown system name is a validation error", func(t *testing.T) {
		_, err := r.ResolveSystemAccount(ctx, "SYSTEM_SLUSH_FUND", asset.ID())
		assert.True(t, errors.IsValidation(err))
	})

	t.Run("missing system wallet fails WalletNotFound", func(t *testing.T) {
		_, err := r.ResolveSystemAccount(ctx, entities.SystemRevenue, asset.ID())
		assert.ErrorIs(t, err, errors.ErrWalletNotFound)
	})

	t.Run("a user squatting a system name is rejected", func(t *testing.T) {
		// Defensive: the account exists but is not accountType=system.
		squatter := entities.ReconstructAccount(
			uuid.New(), entities.SystemBonusPool, entities.AccountTypeUser, asset.ID(),
			treasury.Balance(), "", nil, true, treasury.CreatedAt(), treasury.UpdatedAt(),
		)
		require.NoError(t, store.Accounts().Create(ctx, squatter))

		_, err := r.ResolveSystemAccount(ctx, entities.SystemBonusPool, asset.ID())
		assert.ErrorIs(t, err, errors.ErrWalletNotFound)
	})
}
