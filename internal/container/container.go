// Package container is the dependency-injection composition root. It wires
// the store, the engine, the use cases and the HTTP server from the loaded
// configuration and manages their lifecycle.
package container

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	httpadapter "github.com/playforge/gamewallet/internal/adapters/http"
	"github.com/playforge/gamewallet/internal/application/engine"
	"github.com/playforge/gamewallet/internal/application/ports"
	"github.com/playforge/gamewallet/internal/application/resolver"
	adminUC "github.com/playforge/gamewallet/internal/application/usecases/admin"
	walletUC "github.com/playforge/gamewallet/internal/application/usecases/wallet"
	"github.com/playforge/gamewallet/internal/config"
	"github.com/playforge/gamewallet/internal/domain/valueobjects"
	natsEvents "github.com/playforge/gamewallet/internal/infrastructure/events"
	"github.com/playforge/gamewallet/internal/infrastructure/persistence/postgres"
	"github.com/playforge/gamewallet/internal/pkg/logger"
)

// Container holds every wired dependency.
type Container struct {
	config *config.Config
	logger *slog.Logger

	pool      *pgxpool.Pool
	store     ports.Store
	redis     *redis.Client
	publisher ports.EventPublisher
	natsPub   *natsEvents.NATSPublisher

	resolver *resolver.Resolver
	engine   *engine.Engine

	httpServer *httpadapter.Server
}

// New creates an uninitialized container.
func New(cfg *config.Config) *Container {
	return &Container{config: cfg}
}

// Initialize wires everything. Call Close on shutdown.
func (c *Container) Initialize(ctx context.Context) error {
	c.logger = logger.Setup(&logger.Config{
		Level:  c.config.Log.Level,
		Format: c.config.Log.Format,
	})
	c.logger.Info("initializing container", "environment", c.config.App.Environment)

	if err := c.initStore(ctx); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	if err := c.initEventPublisher(); err != nil {
		return fmt.Errorf("failed to initialize event publisher: %w", err)
	}
	c.initRedis()
	if err := c.initEngine(); err != nil {
		return fmt.Errorf("failed to initialize engine: %w", err)
	}
	c.initHTTPServer()

	c.logger.Info("container initialization complete")
	return nil
}

// initStore connects the Postgres-backed Store.
func (c *Container) initStore(ctx context.Context) error {
	poolCfg := postgres.DefaultConfig(c.config.Database.URL)
	poolCfg.MaxConns = c.config.Database.MaxConnections
	poolCfg.MinConns = c.config.Database.MinConnections
	poolCfg.MaxConnLifetime = c.config.Database.MaxConnLifetime
	poolCfg.MaxConnIdleTime = c.config.Database.MaxConnIdleTime

	pool, err := postgres.NewConnectionPool(ctx, poolCfg)
	if err != nil {
		return err
	}
	c.pool = pool
	c.store = postgres.NewStore(pool)
	c.logger.Info("database connected")
	return nil
}

// initEventPublisher connects NATS when configured; otherwise events stay
// in-process.
func (c *Container) initEventPublisher() error {
	if c.config.NATS.URL == "" {
		c.publisher = natsEvents.NewMemoryPublisher()
		return nil
	}
	pub, err := natsEvents.NewNATSPublisher(c.config.NATS.URL, c.config.NATS.SubjectPrefix)
	if err != nil {
		return err
	}
	c.natsPub = pub
	c.publisher = pub
	c.logger.Info("nats connected", "url", c.config.NATS.URL)
	return nil
}

// initRedis connects the optional distributed rate-limiter backend.
func (c *Container) initRedis() {
	if c.config.Redis.Addr == "" {
		return
	}
	c.redis = redis.NewClient(&redis.Options{
		Addr:     c.config.Redis.Addr,
		Password: c.config.Redis.Password,
		DB:       c.config.Redis.DB,
	})
	c.logger.Info("redis configured", "addr", c.config.Redis.Addr)
}

// initEngine builds the resolver and the transfer engine.
func (c *Container) initEngine() error {
	c.resolver = resolver.New(c.store.AssetTypes(), c.store.Accounts())

	engineCfg := engine.DefaultConfig()
	if raw := c.config.Engine.MaxTransactionAmount; raw != "" && raw != "0" {
		max, err := valueobjects.NewAmount(raw)
		if err != nil {
			return fmt.Errorf("invalid engine.max_transaction_amount: %w", err)
		}
		engineCfg.MaxTransactionAmount = max
	}

	c.engine = engine.New(c.store, c.publisher, c.logger, engineCfg)
	return nil
}

// initHTTPServer assembles the router and server.
func (c *Container) initHTTPServer() {
	routerCfg := &httpadapter.RouterConfig{
		Logger:            c.logger,
		Pool:              c.pool,
		Redis:             c.redis,
		Version:           c.config.App.Version,
		Environment:       c.config.App.Environment,
		RateLimitRequests: c.config.RateLimit.Requests,
		RateLimitWindow:   int(c.config.RateLimit.Window / time.Second),
	}

	wallets := &httpadapter.WalletUseCases{
		TopUp:      walletUC.NewTopUpUseCase(c.resolver, c.engine),
		Bonus:      walletUC.NewBonusUseCase(c.resolver, c.engine),
		Spend:      walletUC.NewSpendUseCase(c.resolver, c.engine),
		GetBalance: walletUC.NewGetBalanceUseCase(c.resolver),
		GetHistory: walletUC.NewGetHistoryUseCase(c.resolver, c.store.LedgerEntries(), c.store.Transactions()),
		Verify:     walletUC.NewVerifyLedgerUseCase(c.resolver, c.store.LedgerEntries()),
	}

	admin := &httpadapter.AdminUseCases{
		CreateAssetType:  adminUC.NewCreateAssetTypeUseCase(c.store.AssetTypes()),
		ListAssetTypes:   adminUC.NewListAssetTypesUseCase(c.store.AssetTypes()),
		CreateAccount:    adminUC.NewCreateAccountUseCase(c.resolver, c.store.Accounts()),
		ListAccounts:     adminUC.NewListAccountsUseCase(c.resolver, c.store.Accounts()),
		ListTransactions: adminUC.NewListTransactionsUseCase(c.resolver, c.store.Transactions()),
		SystemBalances:   adminUC.NewSystemBalancesUseCase(c.store.AssetTypes(), c.store.Accounts()),
	}

	router := httpadapter.NewRouter(routerCfg, wallets, admin)

	serverCfg := httpadapter.DefaultServerConfig()
	serverCfg.Host = c.config.Server.Host
	serverCfg.Port = fmt.Sprintf("%d", c.config.Server.Port)
	serverCfg.ReadTimeout = c.config.Server.ReadTimeout
	serverCfg.WriteTimeout = c.config.Server.WriteTimeout
	serverCfg.IdleTimeout = c.config.Server.IdleTimeout
	serverCfg.ShutdownTimeout = c.config.Server.ShutdownTimeout
	serverCfg.Logger = c.logger

	c.httpServer = httpadapter.NewServer(serverCfg, router)
}

// Logger exposes the process logger.
func (c *Container) Logger() *slog.Logger { return c.logger }

// HTTPServer exposes the wired server.
func (c *Container) HTTPServer() *httpadapter.Server { return c.httpServer }

// Store exposes the wired store.
func (c *Container) Store() ports.Store { return c.store }

// Close releases all resources.
func (c *Container) Close() {
	if c.natsPub != nil {
		c.natsPub.Close()
	}
	if c.redis != nil {
		_ = c.redis.Close()
	}
	if c.pool != nil {
		c.pool.Close()
	}
}
