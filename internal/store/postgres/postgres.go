package postgres

import (
	"context"
	"errors"
	"fmt"
	"github.com/cirruslabs/hashmap/internal/store"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"time"
)

const (
	queryCreateTable = `CREATE TABLE IF NOT EXISTS hashmap (key TEXT PRIMARY KEY, value BYTEA NOT NULL)`
	queryGet         = `SELECT value FROM hashmap WHERE key = $1`
	querySet         = `INSERT INTO hashmap (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`
	queryUpdate = `UPDATE hashmap SET value = $1 WHERE key = $2`
	queryDelete = `DELETE FROM hashmap WHERE key = $1`
)

type Postgres struct {
	pool             *pgxpool.Pool
	operationTimeout time.Duration
}

type Config struct {
	URL              string
	MaxConns         int32
	ConnectTimeout   time.Duration
	OperationTimeout time.Duration
}

func New(ctx context.Context, config *Config) (*Postgres, error) {
	poolConfig, err := pgxpool.ParseConfig(config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PostgreSQL connection string: %w", err)
	}

	if config.MaxConns > 0 {
		poolConfig.MaxConns = config.MaxConns
	}

	if config.ConnectTimeout > 0 {
		poolConfig.ConnConfig.ConnectTimeout = config.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
	}

	// pgxpool connects lazily, so make sure the database is actually reachable
	if err := pool.Ping(ctx); err != nil {
		pool.Close()

		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	return &Postgres{
		pool:             pool,
		operationTimeout: config.OperationTimeout,
	}, nil
}

// CreateTable bootstraps the hashmap table if it doesn't exist yet.
func (postgres *Postgres) CreateTable(ctx context.Context) error {
	ctx, cancel := postgres.withTimeout(ctx)
	defer cancel()

	if _, err := postgres.pool.Exec(ctx, queryCreateTable); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	return nil
}

func (postgres *Postgres) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := postgres.withTimeout(ctx)
	defer cancel()

	var value []byte

	if err := postgres.pool.QueryRow(ctx, queryGet, key).Scan(&value); err != nil {
		// Convert the error for consumer's convenience
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}

		return nil, fmt.Errorf("failed to select key %q: %w", key, err)
	}

	// BYTEA scans an empty value as nil
	if value == nil {
		value = []byte{}
	}

	return value, nil
}

func (postgres *Postgres) Set(ctx context.Context, key string, value []byte) error {
	return postgres.exec(ctx, "insert", key, querySet, key, nonNil(value))
}

func (postgres *Postgres) Update(ctx context.Context, key string, value []byte) error {
	return postgres.exec(ctx, "update", key, queryUpdate, nonNil(value), key)
}

func (postgres *Postgres) Delete(ctx context.Context, key string) error {
	return postgres.exec(ctx, "delete", key, queryDelete, key)
}

func (postgres *Postgres) Close() error {
	postgres.pool.Close()

	return nil
}

func (postgres *Postgres) exec(ctx context.Context, operation string, key string, query string, args ...any) error {
	ctx, cancel := postgres.withTimeout(ctx)
	defer cancel()

	if _, err := postgres.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to %s key %q: %w", operation, key, err)
	}

	return nil
}

func (postgres *Postgres) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if postgres.operationTimeout == 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, postgres.operationTimeout)
}

// pgx encodes a nil []byte as NULL, which the NOT NULL column would reject
func nonNil(value []byte) []byte {
	if value == nil {
		return []byte{}
	}

	return value
}
