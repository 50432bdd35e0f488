// Package postgres implements the Store contract on PostgreSQL via pgx.
//
// The engine only asks the backend for per-row atomicity and unique-key
// constraints; both balance primitives are single UPDATE statements and the
// idempotency lock is the unique index on (idempotency_key, asset_type_id).
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/playforge/gamewallet/internal/application/ports"
)

// Config holds connection-pool settings.
type Config struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	ConnectTimeout  time.Duration
}

// DefaultConfig returns conservative pool defaults.
func DefaultConfig(url string) Config {
	return Config{
		URL:             url,
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 30 * time.Minute,
		ConnectTimeout:  5 * time.Second,
	}
}

// NewConnectionPool creates and pings a pgx pool.
func NewConnectionPool(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = cfg.MinConns
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	if cfg.ConnectTimeout > 0 {
		poolConfig.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// HealthCheck pings the database with a short timeout. Used by readiness
// probes.
func HealthCheck(ctx context.Context, pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return pool.Ping(ctx)
}

// Store bundles the four repositories over one pool.
type Store struct {
	pool *pgxpool.Pool

	assetTypes   *AssetTypeRepository
	accounts     *AccountRepository
	transactions *TransactionRepository
	ledger       *LedgerEntryRepository
}

// NewStore creates the Postgres-backed Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:         pool,
		assetTypes:   NewAssetTypeRepository(pool),
		accounts:     NewAccountRepository(pool),
		transactions: NewTransactionRepository(pool),
		ledger:       NewLedgerEntryRepository(pool),
	}
}

// Compile-time check.
var _ ports.Store = (*Store)(nil)

// AssetTypes implements ports.Store.
func (s *Store) AssetTypes() ports.AssetTypeRepository { return s.assetTypes }

// Accounts implements ports.Store.
func (s *Store) Accounts() ports.AccountRepository { return s.accounts }

// Transactions implements ports.Store.
func (s *Store) Transactions() ports.TransactionRepository { return s.transactions }

// LedgerEntries implements ports.Store.
func (s *Store) LedgerEntries() ports.LedgerEntryRepository { return s.ledger }

// Pool exposes the underlying pool for health checks.
func (s *Store) Pool() *pgxpool.Pool { return s.pool }
