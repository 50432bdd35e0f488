package wallet

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playforge/gamewallet/internal/application/dtos"
	"github.com/playforge/gamewallet/internal/application/engine"
	"github.com/playforge/gamewallet/internal/application/resolver"
	"github.com/playforge/gamewallet/internal/domain/entities"
	"github.com/playforge/gamewallet/internal/domain/errors"
	"github.com/playforge/gamewallet/internal/domain/valueobjects"
	"github.com/playforge/gamewallet/internal/infrastructure/persistence/memory"
)

// fixture wires the full facade over the in-memory store with the demo seed:
// GOLD (2dp) and POINTS (0dp); Treasury GOLD=10,000,000; Bonus POINTS=5,000,000;
// Revenue GOLD=0; Alice GOLD=500; Bob GOLD=150, POINTS=300.
type fixture struct {
	store *memory.Store

	topUp      *TopUpUseCase
	bonus      *BonusUseCase
	spend      *SpendUseCase
	getBalance *GetBalanceUseCase
	getHistory *GetHistoryUseCase
	verify     *VerifyLedgerUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()

	mkAsset := func(code, name string, dp int32) *entities.AssetType {
		at, err := entities.NewAssetType(code, name, "", dp)
		require.NoError(t, err)
		require.NoError(t, store.AssetTypes().Create(ctx, at))
		return at
	}
	gold := mkAsset("GOLD", "Gold Coins", 2)
	points := mkAsset("POINTS", "Loyalty Points", 0)

	mkAccount := func(userID string, accountType entities.AccountType, asset *entities.AssetType) *entities.Account {
		a, err := entities.NewAccount(userID, accountType, asset.ID(), userID, nil)
		require.NoError(t, err)
		require.NoError(t, store.Accounts().Create(ctx, a))
		return a
	}
	// Mints cover the target system balances plus the user grants below.
	treasury := mkAccount(entities.SystemTreasury, entities.AccountTypeSystem, gold)
	_, err := store.Accounts().Credit(ctx, treasury.ID(), valueobjects.MustAmount("10000650"))
	require.NoError(t, err)
	bonusPool := mkAccount(entities.SystemBonusPool, entities.AccountTypeSystem, points)
	_, err = store.Accounts().Credit(ctx, bonusPool.ID(), valueobjects.MustAmount("5000300"))
	require.NoError(t, err)
	mkAccount(entities.SystemRevenue, entities.AccountTypeSystem, gold)
	aliceGold := mkAccount("user_alice", entities.AccountTypeUser, gold)
	bobGold := mkAccount("user_bob", entities.AccountTypeUser, gold)
	bobPoints := mkAccount("user_bob", entities.AccountTypeUser, points)

	res := resolver.New(store.AssetTypes(), store.Accounts())
	eng := engine.New(store, nil, slog.Default(), engine.DefaultConfig())

	// User balances arrive through ledgered adjustment grants, so every user
	// wallet verifies clean from the start.
	for _, grant := range []struct {
		key    string
		asset  *entities.AssetType
		from   *entities.Account
		to     *entities.Account
		amount string
	}{
		{"seed-alice-gold-01", gold, treasury, aliceGold, "500"},
		{"seed-bob-gold-0001", gold, treasury, bobGold, "150"},
		{"seed-bob-points-01", points, bonusPool, bobPoints, "300"},
	} {
		_, err := eng.ExecuteTransfer(ctx, engine.TransferParams{
			IdempotencyKey: grant.key,
			AssetType:      grant.asset,
			FromAccountID:  grant.from.ID(),
			ToAccountID:    grant.to.ID(),
			Amount:         valueobjects.MustAmount(grant.amount),
			Type:           entities.TransactionTypeAdjustment,
		})
		require.NoError(t, err)
	}

	return &fixture{
		store:      store,
		topUp:      NewTopUpUseCase(res, eng),
		bonus:      NewBonusUseCase(res, eng),
		spend:      NewSpendUseCase(res, eng),
		getBalance: NewGetBalanceUseCase(res),
		getHistory: NewGetHistoryUseCase(res, store.LedgerEntries(), store.Transactions()),
		verify:     NewVerifyLedgerUseCase(res, store.LedgerEntries()),
	}
}

func (f *fixture) balance(t *testing.T, userID, assetCode string) string {
	t.Helper()
	dto, err := f.getBalance.Execute(context.Background(), dtos.GetBalanceQuery{UserID: userID, AssetCode: assetCode})
	require.NoError(t, err)
	return dto.Balance
}

func TestWalletFlowsEndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 1. Top-up: Alice +100 GOLD from the treasury.
	outcome, err := f.topUp.Execute(ctx, dtos.TopUpCommand{
		UserID: "user_alice", AssetCode: "GOLD", Amount: "100", IdempotencyKey: "t1-00000001",
	})
	require.NoError(t, err)
	assert.False(t, outcome.IsReplay)
	assert.Equal(t, "completed", outcome.Transaction.Status)
	assert.Equal(t, "topup", outcome.Transaction.Type)
	assert.Len(t, outcome.Transaction.LedgerEntryIDs, 2)
	assert.Equal(t, "600.00", f.balance(t, "user_alice", "GOLD"))
	assert.Equal(t, "9999900.00", f.balance(t, entities.SystemTreasury, "GOLD"))

	// 2. Replay of scenario 1: same outcome, nothing moves again.
	replay, err := f.topUp.Execute(ctx, dtos.TopUpCommand{
		UserID: "user_alice", AssetCode: "GOLD", Amount: "100", IdempotencyKey: "t1-00000001",
	})
	require.NoError(t, err)
	assert.True(t, replay.IsReplay)
	assert.Equal(t, outcome.Transaction.ID, replay.Transaction.ID)
	assert.Equal(t, "600.00", f.balance(t, "user_alice", "GOLD"))

	// 3. Spend: Alice buys an item for 30 GOLD.
	spent, err := f.spend.Execute(ctx, dtos.SpendCommand{
		UserID: "user_alice", AssetCode: "GOLD", Amount: "30",
		IdempotencyKey: "s1-00000001", ItemID: "item_sword_of_fire",
	})
	require.NoError(t, err)
	assert.Equal(t, "completed", spent.Transaction.Status)
	assert.Equal(t, "item_sword_of_fire", spent.Transaction.Metadata["itemId"])
	assert.Equal(t, "570.00", f.balance(t, "user_alice", "GOLD"))
	assert.Equal(t, "30.00", f.balance(t, entities.SystemRevenue, "GOLD"))

	// 4. Overdraft: Bob holds 150 GOLD, spending 200 fails cleanly.
	_, err = f.spend.Execute(ctx, dtos.SpendCommand{
		UserID: "user_bob", AssetCode: "GOLD", Amount: "200",
		IdempotencyKey: "s2-00000001", ItemID: "x",
	})
	require.ErrorIs(t, err, errors.ErrInsufficientBalance)
	assert.Equal(t, "150.00", f.balance(t, "user_bob", "GOLD"))

	// No ledger entries exist for the failed spend.
	failed, err := f.store.Transactions().FindByIdempotencyKey(ctx, "s2-00000001", mustAssetID(t, f, "GOLD"))
	require.NoError(t, err)
	assert.Equal(t, entities.TransactionStatusFailed, failed.Status())
	entries, err := f.store.LedgerEntries().FindByTransaction(ctx, failed.ID())
	require.NoError(t, err)
	assert.Empty(t, entries)

	// 5. Bonus: Bob +200 POINTS for finishing a level.
	granted, err := f.bonus.Execute(ctx, dtos.BonusCommand{
		UserID: "user_bob", AssetCode: "POINTS", Amount: "200",
		IdempotencyKey: "b1-00000001", Reason: "level_complete",
	})
	require.NoError(t, err)
	assert.Equal(t, "bonus", granted.Transaction.Type)
	assert.Equal(t, "level_complete", granted.Transaction.Metadata["reason"])
	assert.Equal(t, "500", f.balance(t, "user_bob", "POINTS"))
	assert.Equal(t, "4999800", f.balance(t, entities.SystemBonusPool, "POINTS"))

	// 6. Verification: Alice's ledger sums to her cached balance.
	verdict, err := f.verify.Execute(ctx, dtos.VerifyLedgerQuery{UserID: "user_alice", AssetCode: "GOLD"})
	require.NoError(t, err)
	assert.True(t, verdict.IsConsistent)
	assert.Equal(t, "570", verdict.ComputedBalance)
	assert.Equal(t, "570", verdict.CachedBalance)
}

func mustAssetID(t *testing.T, f *fixture, code string) uuid.UUID {
	t.Helper()
	at, err := f.store.AssetTypes().FindByCode(context.Background(), code)
	require.NoError(t, err)
	return at.ID()
}

func TestSpendRequiresItemID(t *testing.T) {
	f := newFixture(t)

	_, err := f.spend.Execute(context.Background(), dtos.SpendCommand{
		UserID: "user_alice", AssetCode: "GOLD", Amount: "10", IdempotencyKey: "s3-00000001",
	})
	assert.True(t, errors.IsValidation(err))
}

func TestBonusRequiresReason(t *testing.T) {
	f := newFixture(t)

	_, err := f.bonus.Execute(context.Background(), dtos.BonusCommand{
		UserID: "user_bob", AssetCode: "POINTS", Amount: "10", IdempotencyKey: "b2-00000001",
	})
	assert.True(t, errors.IsValidation(err))
}

func TestTopUpValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("zero amount", func(t *testing.T) {
		_, err := f.topUp.Execute(ctx, dtos.TopUpCommand{
			UserID: "user_alice", AssetCode: "GOLD", Amount: "0", IdempotencyKey: "t2-00000001",
		})
		assert.True(t, errors.IsValidation(err))
	})

	t.Run("negative amount", func(t *testing.T) {
		_, err := f.topUp.Execute(ctx, dtos.TopUpCommand{
			UserID: "user_alice", AssetCode: "GOLD", Amount: "-5", IdempotencyKey: "t2-00000002",
		})
		assert.True(t, errors.IsValidation(err))
	})

	t.Run("non-numeric amount", func(t *testing.T) {
		_, err := f.topUp.Execute(ctx, dtos.TopUpCommand{
			UserID: "user_alice", AssetCode: "GOLD", Amount: "lots", IdempotencyKey: "t2-00000003",
		})
		assert.True(t, errors.IsValidation(err))
	})

	t.Run("unknown asset", func(t *testing.T) {
		_, err := f.topUp.Execute(ctx, dtos.TopUpCommand{
			UserID: "user_alice", AssetCode: "SILVER", Amount: "10", IdempotencyKey: "t2-00000004",
		})
		assert.ErrorIs(t, err, errors.ErrAssetNotFound)
	})

	t.Run("unknown wallet", func(t *testing.T) {
		_, err := f.topUp.Execute(ctx, dtos.TopUpCommand{
			UserID: "user_nobody", AssetCode: "GOLD", Amount: "10", IdempotencyKey: "t2-00000005",
		})
		assert.ErrorIs(t, err, errors.ErrWalletNotFound)
	})
}

func TestGetHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Three transfers touching Alice's wallet.
	for i, amount := range []string{"10", "20", "30"} {
		_, err := f.topUp.Execute(ctx, dtos.TopUpCommand{
			UserID: "user_alice", AssetCode: "GOLD", Amount: amount,
			IdempotencyKey: "hist-key-000" + string(rune('a'+i)),
		})
		require.NoError(t, err)
	}

	// The seed grant plus the three top-ups.
	history, err := f.getHistory.Execute(ctx, dtos.GetHistoryQuery{
		UserID: "user_alice", AssetCode: "GOLD", Page: 1, Limit: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), history.Total)
	require.Len(t, history.Entries, 2)

	// Most recent first, enriched with the owning transaction.
	assert.Equal(t, "30", history.Entries[0].Amount)
	assert.Equal(t, "credit", history.Entries[0].EntryType)
	assert.Equal(t, "topup", history.Entries[0].Type)
	assert.Equal(t, "completed", history.Entries[0].Status)
	assert.Equal(t, "20", history.Entries[1].Amount)

	// Second page holds the remainder, ending at the seed grant.
	page2, err := f.getHistory.Execute(ctx, dtos.GetHistoryQuery{
		UserID: "user_alice", AssetCode: "GOLD", Page: 2, Limit: 2,
	})
	require.NoError(t, err)
	require.Len(t, page2.Entries, 2)
	assert.Equal(t, "10", page2.Entries[0].Amount)
	assert.Equal(t, "adjustment", page2.Entries[1].Type)
}

func TestGetHistoryClampsLimit(t *testing.T) {
	f := newFixture(t)

	history, err := f.getHistory.Execute(context.Background(), dtos.GetHistoryQuery{
		UserID: "user_alice", AssetCode: "GOLD", Page: 1, Limit: 1000,
	})
	require.NoError(t, err)
	assert.Equal(t, MaxHistoryLimit, history.Limit)
}
