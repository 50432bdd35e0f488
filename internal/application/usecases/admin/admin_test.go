package admin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playforge/gamewallet/internal/application/dtos"
	"github.com/playforge/gamewallet/internal/application/resolver"
	"github.com/playforge/gamewallet/internal/domain/entities"
	"github.com/playforge/gamewallet/internal/domain/errors"
	"github.com/playforge/gamewallet/internal/domain/valueobjects"
	"github.com/playforge/gamewallet/internal/infrastructure/persistence/memory"
)

func TestCreateAssetType(t *testing.T) {
	store := memory.New()
	uc := NewCreateAssetTypeUseCase(store.AssetTypes())
	ctx := context.Background()

	dto, err := uc.Execute(ctx, dtos.CreateAssetTypeCommand{
		Code: "gold", Name: "Gold Coins", DecimalPlaces: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "GOLD", dto.Code)
	assert.True(t, dto.IsActive)

	t.Run("duplicate code conflicts", func(t *testing.T) {
		_, err := uc.Execute(ctx, dtos.CreateAssetTypeCommand{
			Code: "GOLD", Name: "Gold Again", DecimalPlaces: 2,
		})
		assert.ErrorIs(t, err, errors.ErrAlreadyExists)
	})

	t.Run("invalid decimals rejected", func(t *testing.T) {
		_, err := uc.Execute(ctx, dtos.CreateAssetTypeCommand{
			Code: "SILVER", Name: "Silver", DecimalPlaces: 9,
		})
		assert.True(t, errors.IsValidation(err))
	})
}

func TestCreateAccount(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	asset, err := entities.NewAssetType("GOLD", "Gold", "", 2)
	require.NoError(t, err)
	require.NoError(t, store.AssetTypes().Create(ctx, asset))

	res := resolver.New(store.AssetTypes(), store.Accounts())
	uc := NewCreateAccountUseCase(res, store.Accounts())

	dto, err := uc.Execute(ctx, dtos.CreateAccountCommand{
		UserID: "user_alice", AssetCode: "GOLD", DisplayName: "Alice",
	})
	require.NoError(t, err)
	assert.Equal(t, "user", dto.AccountType)
	assert.Equal(t, "0", dto.Balance)

	t.Run("one wallet per user per asset", func(t *testing.T) {
		_, err := uc.Execute(ctx, dtos.CreateAccountCommand{
			UserID: "user_alice", AssetCode: "GOLD",
		})
		assert.ErrorIs(t, err, errors.ErrAlreadyExists)
	})

	t.Run("system account", func(t *testing.T) {
		dto, err := uc.Execute(ctx, dtos.CreateAccountCommand{
			UserID: entities.SystemTreasury, AccountType: "system", AssetCode: "GOLD",
		})
		require.NoError(t, err)
		assert.Equal(t, "system", dto.AccountType)
	})

	t.Run("unknown asset", func(t *testing.T) {
		_, err := uc.Execute(ctx, dtos.CreateAccountCommand{
			UserID: "user_bob", AssetCode: "SILVER",
		})
		assert.ErrorIs(t, err, errors.ErrAssetNotFound)
	})
}

func TestSystemBalances(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	asset, err := entities.NewAssetType("GOLD", "Gold", "", 2)
	require.NoError(t, err)
	require.NoError(t, store.AssetTypes().Create(ctx, asset))

	treasury, err := entities.NewAccount(entities.SystemTreasury, entities.AccountTypeSystem, asset.ID(), "Treasury", nil)
	require.NoError(t, err)
	require.NoError(t, store.Accounts().Create(ctx, treasury))
	_, err = store.Accounts().Credit(ctx, treasury.ID(), valueobjects.MustAmount("1000"))
	require.NoError(t, err)

	uc := NewSystemBalancesUseCase(store.AssetTypes(), store.Accounts())
	rows, err := uc.Execute(ctx)
	require.NoError(t, err)

	// Only provisioned system wallets show up.
	require.Len(t, rows, 1)
	assert.Equal(t, entities.SystemTreasury, rows[0].SystemAccount)
	assert.Equal(t, "GOLD", rows[0].AssetCode)
	assert.Equal(t, "1000.00", rows[0].Balance)
}

func TestListTransactionsFilters(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	asset, err := entities.NewAssetType("GOLD", "Gold", "", 2)
	require.NoError(t, err)
	require.NoError(t, store.AssetTypes().Create(ctx, asset))

	a, err := entities.NewAccount("user_a", entities.AccountTypeUser, asset.ID(), "", nil)
	require.NoError(t, err)
	require.NoError(t, store.Accounts().Create(ctx, a))
	b, err := entities.NewAccount("user_b", entities.AccountTypeUser, asset.ID(), "", nil)
	require.NoError(t, err)
	require.NoError(t, store.Accounts().Create(ctx, b))

	tx, err := entities.NewTransaction("list-key-0001", asset.ID(), a.ID(), b.ID(),
		valueobjects.MustAmount("5"), entities.TransactionTypeSpend, "", nil)
	require.NoError(t, err)
	require.NoError(t, store.Transactions().Insert(ctx, tx))

	res := resolver.New(store.AssetTypes(), store.Accounts())
	uc := NewListTransactionsUseCase(res, store.Transactions())

	t.Run("by account matches either side", func(t *testing.T) {
		rows, err := uc.Execute(ctx, dtos.ListTransactionsQuery{AccountID: b.ID().String()})
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("by status", func(t *testing.T) {
		rows, err := uc.Execute(ctx, dtos.ListTransactionsQuery{Status: "completed"})
		require.NoError(t, err)
		assert.Empty(t, rows)

		rows, err = uc.Execute(ctx, dtos.ListTransactionsQuery{Status: "pending"})
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("invalid filter values rejected", func(t *testing.T) {
		_, err := uc.Execute(ctx, dtos.ListTransactionsQuery{Status: "limbo"})
		assert.True(t, errors.IsValidation(err))

		_, err = uc.Execute(ctx, dtos.ListTransactionsQuery{AccountID: "not-a-uuid"})
		assert.True(t, errors.IsValidation(err))
	})
}
