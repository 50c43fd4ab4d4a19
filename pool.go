package pgbridge

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolConfig holds connection pool settings. Zero durations leave the
// pgx defaults in place.
type PoolConfig struct {
	MinConns       int32
	MaxConns       int32
	ConnectTimeout time.Duration
	MaxLifetime    time.Duration
	IdleTimeout    time.Duration
}

// DefaultPoolConfig returns the pool settings used when the caller
// has no opinion: 1-10 connections, 30s connect timeout, 30m
// connection lifetime, 10m idle timeout.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MinConns:       1,
		MaxConns:       10,
		ConnectTimeout: 30 * time.Second,
		MaxLifetime:    30 * time.Minute,
		IdleTimeout:    10 * time.Minute,
	}
}

// Connect creates a pgx connection pool for the given DSN and
// verifies connectivity with a ping before returning. The returned
// pool satisfies Executor and can be handed straight to NewStore.
//
// Pool lifecycle, timeouts, and retry policy live entirely in the
// pool; the Store never manages connections.
func Connect(ctx context.Context, dsn string, cfg PoolConfig) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pgbridge: connection string is empty")
	}

	pc, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pgbridge: parsing connection string: %w", err)
	}

	if cfg.MinConns > 0 {
		pc.MinConns = cfg.MinConns
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.ConnectTimeout > 0 {
		pc.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}
	if cfg.MaxLifetime > 0 {
		pc.MaxConnLifetime = cfg.MaxLifetime
	}
	if cfg.IdleTimeout > 0 {
		pc.MaxConnIdleTime = cfg.IdleTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("pgbridge: creating pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pgbridge: verifying connection: %w", err)
	}

	return pool, nil
}
