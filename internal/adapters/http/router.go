// Package http assembles the gin router and the HTTP server lifecycle.
//
// Pattern: Composition Root — handlers get only the use cases they need,
// middleware is applied per route group.
package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/playforge/gamewallet/internal/adapters/http/handlers"
	"github.com/playforge/gamewallet/internal/adapters/http/middleware"
)

// RouterConfig carries the cross-cutting dependencies of the router.
type RouterConfig struct {
	Logger      *slog.Logger
	Pool        *pgxpool.Pool // nil on the in-memory store
	Redis       *redis.Client // nil disables distributed rate limiting
	Version     string
	Environment string

	// RateLimitRequests per RateLimitWindow per client; zero values fall
	// back to the 500 / 15m default.
	RateLimitRequests int
	RateLimitWindow   int // seconds
}

// WalletUseCases groups the wallet-facing use cases for the router.
type WalletUseCases struct {
	TopUp      handlers.TopUpUseCase
	Bonus      handlers.BonusUseCase
	Spend      handlers.SpendUseCase
	GetBalance handlers.GetBalanceUseCase
	GetHistory handlers.GetHistoryUseCase
	Verify     handlers.VerifyLedgerUseCase
}

// AdminUseCases groups the administrative use cases for the router.
type AdminUseCases struct {
	CreateAssetType  handlers.CreateAssetTypeUseCase
	ListAssetTypes   handlers.ListAssetTypesUseCase
	CreateAccount    handlers.CreateAccountUseCase
	ListAccounts     handlers.ListAccountsUseCase
	ListTransactions handlers.ListTransactionsUseCase
	SystemBalances   handlers.SystemBalancesUseCase
}

// NewRouter builds the configured gin engine.
func NewRouter(config *RouterConfig, wallets *WalletUseCases, admin *AdminUseCases) *gin.Engine {
	if config == nil {
		config = &RouterConfig{Logger: slog.Default(), Environment: "development"}
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handlers.SetupValidator()

	// Global middleware. Recovery first.
	router.Use(middleware.Recovery(&middleware.RecoveryConfig{
		Logger:           logger,
		EnableStackTrace: config.Environment != "production",
	}))
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	router.Use(middleware.Logging(&middleware.LoggingConfig{
		Logger:    logger,
		SkipPaths: []string{"/health", "/live", "/ready", "/metrics"},
	}))
	router.Use(middleware.Metrics())

	// Metrics endpoint.
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health probes.
	healthHandler := handlers.NewHealthHandler(config.Pool, config.Version)
	healthHandler.RegisterRoutes(router)

	// Rate limit applies to the API surface only, not probes.
	rateLimitCfg := middleware.DefaultRateLimitConfig()
	if config.RateLimitRequests > 0 {
		rateLimitCfg.Limit = config.RateLimitRequests
	}
	if config.RateLimitWindow > 0 {
		rateLimitCfg.Window = time.Duration(config.RateLimitWindow) * time.Second
	}
	rateLimitCfg.Redis = config.Redis
	rateLimitCfg.Logger = logger

	api := router.Group("/api")
	api.Use(middleware.RateLimit(rateLimitCfg))

	// Wallet routes.
	if wallets != nil {
		walletHandler := handlers.NewWalletHandler(
			wallets.TopUp,
			wallets.Bonus,
			wallets.Spend,
			wallets.GetBalance,
			wallets.GetHistory,
			wallets.Verify,
		)
		group := api.Group("/wallets")
		{
			group.POST("/topup", walletHandler.TopUp)
			group.POST("/bonus", walletHandler.Bonus)
			group.POST("/spend", walletHandler.Spend)
			group.GET("/:userId/balance/:assetCode", walletHandler.GetBalance)
			group.GET("/:userId/history/:assetCode", walletHandler.GetHistory)
			group.GET("/:userId/verify/:assetCode", walletHandler.Verify)
		}
	}

	// Admin routes.
	if admin != nil {
		adminHandler := handlers.NewAdminHandler(
			admin.CreateAssetType,
			admin.ListAssetTypes,
			admin.CreateAccount,
			admin.ListAccounts,
			admin.ListTransactions,
			admin.SystemBalances,
		)
		group := api.Group("/admin")
		{
			group.POST("/asset-types", adminHandler.CreateAssetType)
			group.GET("/asset-types", adminHandler.ListAssetTypes)
			group.POST("/accounts", adminHandler.CreateAccount)
			group.GET("/accounts", adminHandler.ListAccounts)
			group.GET("/transactions", adminHandler.ListTransactions)
			group.GET("/system-balances", adminHandler.SystemBalances)
		}
	}

	// 404 in the standard envelope.
	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"success": false, "error": "endpoint not found"})
	})

	return router
}
