package store

import (
	"context"
	"fmt"
	"time"

	"qipai-scores/internal/config"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps DB access. One Store is built per process and shared by
// reference; every method acquires a pooled connection for its own duration.
type Store struct {
	Pool *pgxpool.Pool
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func New(ctx context.Context, cfg config.DBConfig) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}
	if cfg.PoolMaxSize > 0 {
		poolCfg.MaxConns = cfg.PoolMaxSize
	}
	if cfg.PoolMinSize >= 0 && cfg.PoolMinSize <= poolCfg.MaxConns {
		poolCfg.MinConns = cfg.PoolMinSize
	}
	poolCfg.MaxConnIdleTime = 30 * time.Minute
	poolCfg.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	return &Store{Pool: pool}, nil
}

// NewFromDSN opens a store with default pool bounds.
func NewFromDSN(dsn string) (*Store, error) {
	return New(context.Background(), config.DBConfig{DSN: dsn, PoolMinSize: 0, PoolMaxSize: 10})
}

func (s *Store) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.Pool.Ping(ctx)
}

// inTx runs fn inside one database transaction. The transaction is rolled
// back on every path that does not reach Commit.
func (s *Store) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return storageErr("begin tx", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return storageErr("commit tx", err)
	}
	return nil
}
