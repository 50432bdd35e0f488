// Seed tool: creates the demo asset types, the three system accounts and two
// demo user wallets. System balances are minted directly; user balances are
// granted through the transfer engine as adjustment transfers, so user
// wallets verify clean against their ledgers from the start.
//
// Safe to re-run: existing records and already-applied grants are left in
// place (grants carry fixed idempotency keys).
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/playforge/gamewallet/internal/application/engine"
	"github.com/playforge/gamewallet/internal/domain/entities"
	domainErrors "github.com/playforge/gamewallet/internal/domain/errors"
	"github.com/playforge/gamewallet/internal/domain/valueobjects"
	"github.com/playforge/gamewallet/internal/infrastructure/persistence/postgres"
)

type seedAsset struct {
	code          string
	name          string
	decimalPlaces int32
}

type seedAccount struct {
	userID      string
	accountType entities.AccountType
	assetCode   string
	displayName string
	// mint is credited directly to the account cache (system accounts only).
	mint string
}

type seedGrant struct {
	key       string
	assetCode string
	from      string
	to        string
	amount    string
}

var seedAssets = []seedAsset{
	{code: "GOLD", name: "Gold Coins", decimalPlaces: 2},
	{code: "POINTS", name: "Loyalty Points", decimalPlaces: 0},
}

// Mints cover the target system balances plus the user grants below, leaving
// Treasury GOLD=10,000,000 and Bonus Pool POINTS=5,000,000 once the grants
// are applied.
var seedAccounts = []seedAccount{
	{userID: entities.SystemTreasury, accountType: entities.AccountTypeSystem, assetCode: "GOLD", displayName: "Treasury", mint: "10000650"},
	{userID: entities.SystemRevenue, accountType: entities.AccountTypeSystem, assetCode: "GOLD", displayName: "Revenue"},
	{userID: entities.SystemBonusPool, accountType: entities.AccountTypeSystem, assetCode: "POINTS", displayName: "Bonus Pool", mint: "5000300"},
	{userID: "user_alice", accountType: entities.AccountTypeUser, assetCode: "GOLD", displayName: "Alice"},
	{userID: "user_bob", accountType: entities.AccountTypeUser, assetCode: "GOLD", displayName: "Bob"},
	{userID: "user_bob", accountType: entities.AccountTypeUser, assetCode: "POINTS", displayName: "Bob"},
}

var seedGrants = []seedGrant{
	{key: "seed-grant-alice-gold", assetCode: "GOLD", from: entities.SystemTreasury, to: "user_alice", amount: "500"},
	{key: "seed-grant-bob-gold", assetCode: "GOLD", from: entities.SystemTreasury, to: "user_bob", amount: "150"},
	{key: "seed-grant-bob-points", assetCode: "POINTS", from: entities.SystemBonusPool, to: "user_bob", amount: "300"},
}

func main() {
	databaseURL := flag.String("database-url", "", "database connection URL")
	flag.Parse()

	_ = godotenv.Load()

	url := *databaseURL
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}
	if url == "" {
		log.Fatal("database URL is required: use -database-url or set DATABASE_URL")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewConnectionPool(ctx, postgres.DefaultConfig(url))
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	defer pool.Close()

	store := postgres.NewStore(pool)

	for _, sa := range seedAssets {
		at, err := entities.NewAssetType(sa.code, sa.name, "", sa.decimalPlaces)
		if err != nil {
			log.Fatalf("invalid seed asset %s: %v", sa.code, err)
		}
		if err := store.AssetTypes().Create(ctx, at); err != nil {
			if errors.Is(err, domainErrors.ErrAlreadyExists) {
				log.Printf("asset type %s already present", sa.code)
				continue
			}
			log.Fatalf("failed to create asset type %s: %v", sa.code, err)
		}
		log.Printf("created asset type %s", sa.code)
	}

	for _, sa := range seedAccounts {
		asset, err := store.AssetTypes().FindByCode(ctx, sa.assetCode)
		if err != nil {
			log.Fatalf("failed to resolve asset %s: %v", sa.assetCode, err)
		}

		account, err := entities.NewAccount(sa.userID, sa.accountType, asset.ID(), sa.displayName, nil)
		if err != nil {
			log.Fatalf("invalid seed account %s: %v", sa.userID, err)
		}
		if err := store.Accounts().Create(ctx, account); err != nil {
			if errors.Is(err, domainErrors.ErrAlreadyExists) {
				log.Printf("account %s/%s already present", sa.userID, sa.assetCode)
				continue
			}
			log.Fatalf("failed to create account %s: %v", sa.userID, err)
		}

		if sa.mint != "" {
			if _, err := store.Accounts().Credit(ctx, account.ID(), valueobjects.MustAmount(sa.mint)); err != nil {
				log.Fatalf("failed to mint balance for %s: %v", sa.userID, err)
			}
		}
		log.Printf("created account %s/%s", sa.userID, sa.assetCode)
	}

	eng := engine.New(store, nil, slog.Default(), engine.DefaultConfig())
	for _, g := range seedGrants {
		asset, err := store.AssetTypes().FindByCode(ctx, g.assetCode)
		if err != nil {
			log.Fatalf("failed to resolve asset %s: %v", g.assetCode, err)
		}
		from, err := store.Accounts().FindByUserAndAsset(ctx, g.from, asset.ID())
		if err != nil {
			log.Fatalf("failed to resolve grant source %s: %v", g.from, err)
		}
		to, err := store.Accounts().FindByUserAndAsset(ctx, g.to, asset.ID())
		if err != nil {
			log.Fatalf("failed to resolve grant target %s: %v", g.to, err)
		}

		result, err := eng.ExecuteTransfer(ctx, engine.TransferParams{
			IdempotencyKey: g.key,
			AssetType:      asset,
			FromAccountID:  from.ID(),
			ToAccountID:    to.ID(),
			Amount:         valueobjects.MustAmount(g.amount),
			Type:           entities.TransactionTypeAdjustment,
			Description:    "seed grant",
		})
		if err != nil {
			log.Fatalf("failed to apply grant %s: %v", g.key, err)
		}
		if result.IsReplay {
			log.Printf("grant %s already applied", g.key)
		} else {
			log.Printf("applied grant %s: %s %s -> %s", g.key, g.amount, g.from, g.to)
		}
	}

	log.Println("seed complete")
}
