package feed_db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"refresh-orchestrator/config"
	"refresh-orchestrator/retry"
	"refresh-orchestrator/utils/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxIface is the subset of pgxpool.Pool the repository uses.
type PgxIface interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

// FeedDBRepository reads feeds and entries from Postgres.
type FeedDBRepository struct {
	pool         PgxIface
	queryTimeout time.Duration
	retrier      *retry.Retrier
}

func NewFeedDBRepository(pool PgxIface, queryTimeout time.Duration) *FeedDBRepository {
	return &FeedDBRepository{
		pool:         pool,
		queryTimeout: queryTimeout,
		retrier: retry.NewRetrier(retry.RetryConfig{
			MaxAttempts:   3,
			BaseDelay:     100 * time.Millisecond,
			MaxDelay:      time.Second,
			BackoffFactor: 2.0,
			JitterFactor:  0.2,
		}, isConnBusy, logger.Logger),
	}
}

// Init opens and pings a connection pool.
func Init(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		logger.Logger.Error("Failed to parse database config", "error", err)
		return nil, err
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = 10 * time.Minute

	dbPool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Logger.Error("Failed to connect to database", "error", err)
		return nil, err
	}

	if err := dbPool.Ping(ctx); err != nil {
		logger.Logger.Error("Failed to ping database", "error", err)
		dbPool.Close()
		return nil, err
	}

	logger.Logger.Info("Connected to database pool", "max_conns", poolConfig.MaxConns, "min_conns", poolConfig.MinConns)
	return dbPool, nil
}

// Ping checks the pool is reachable.
func (r *FeedDBRepository) Ping(ctx context.Context) error {
	if r == nil || r.pool == nil {
		return fmt.Errorf("database connection not available")
	}
	return r.pool.Ping(ctx)
}

func (r *FeedDBRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.queryTimeout)
}

func isConnBusy(err error) bool {
	return err != nil && strings.Contains(err.Error(), "conn busy")
}
