// Package postgres содержит подключение к PostgreSQL через pgxpool и запуск миграций.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"socialhub/pkg/logger"
)

const (
	msgConnecting = "connecting to postgres"
	msgConnected  = "postgres pool ready"
	msgClosing    = "closing postgres pool"
)

const (
	errCtxParseConfig = "failed to parse connection config"
	errCtxCreatePool  = "failed to create connection pool"
	errCtxPing        = "failed to ping database"
)

// PoolOptions описывает параметры пула соединений.
type PoolOptions struct {
	DSN             string
	MinConns        int32
	MaxConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Database владеет пулом соединений.
type Database struct {
	pool *pgxpool.Pool
}

// New открывает пул и проверяет доступность базы.
func New(ctx context.Context, opts PoolOptions) (*Database, error) {
	log := logger.Log(ctx)
	log.Info(ctx, msgConnecting, zap.Int32("min_conns", opts.MinConns), zap.Int32("max_conns", opts.MaxConns))

	cfg, err := pgxpool.ParseConfig(opts.DSN)
	if err != nil {
		log.Error(ctx, errCtxParseConfig, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxParseConfig, err)
	}

	if opts.MinConns > 0 {
		cfg.MinConns = opts.MinConns
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	if opts.MaxConnLifetime > 0 {
		cfg.MaxConnLifetime = opts.MaxConnLifetime
	}
	if opts.MaxConnIdleTime > 0 {
		cfg.MaxConnIdleTime = opts.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		log.Error(ctx, errCtxCreatePool, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCreatePool, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		log.Error(ctx, errCtxPing, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxPing, err)
	}

	log.Info(ctx, msgConnected)
	return &Database{pool: pool}, nil
}

// Pool отдает пул для репозиториев.
func (db *Database) Pool() *pgxpool.Pool {
	return db.pool
}

// Ping используется health-эндпоинтом.
func (db *Database) Ping(ctx context.Context) error {
	if err := db.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%s: %w", errCtxPing, err)
	}
	return nil
}

// Close закрывает пул. Совместим с shutdown.Hook.
func (db *Database) Close(ctx context.Context) error {
	logger.Log(ctx).Info(ctx, msgClosing)
	db.pool.Close()
	return nil
}
