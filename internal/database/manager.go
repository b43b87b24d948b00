package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// DBManager owns the pgx pool and hands out a database/sql view of it for the
// stores.
type DBManager struct {
	pool *pgxpool.Pool
	db   *sql.DB
}

type Config struct {
	DSN string

	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

func NewDBManager(ctx context.Context, cfg Config) (*DBManager, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = cfg.MinConns
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DBManager{
		pool: pool,
		db:   stdlib.OpenDBFromPool(pool),
	}, nil
}

func (m *DBManager) Pool() *pgxpool.Pool {
	return m.pool
}

// SQL returns a *sql.DB backed by the pool.
func (m *DBManager) SQL() *sql.DB {
	return m.db
}

func (m *DBManager) Ping(ctx context.Context) error {
	return m.pool.Ping(ctx)
}

func (m *DBManager) Close() {
	if m.db != nil {
		_ = m.db.Close()
	}
	if m.pool != nil {
		m.pool.Close()
	}
}

func (m *DBManager) Stats() map[string]interface{} {
	stat := m.pool.Stat()
	return map[string]interface{}{
		"total_conns":    stat.TotalConns(),
		"idle_conns":     stat.IdleConns(),
		"acquired_conns": stat.AcquiredConns(),
		"max_conns":      stat.MaxConns(),
	}
}
