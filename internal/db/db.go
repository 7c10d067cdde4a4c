// Package db owns the snapshot store's Postgres pool and schema bootstrap.
package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const connectTimeout = 10 * time.Second

// NewPool opens a pgx pool and verifies the database is reachable before
// the watch daemon starts depending on it.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open snapshot pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping snapshot database: %w", err)
	}
	return pool, nil
}

// EnsureSchema applies db/schema.sql under basePath. The statements are
// idempotent, so re-running on every daemon start is safe.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, basePath string) error {
	content, err := os.ReadFile(filepath.Join(basePath, "db", "schema.sql"))
	if err != nil {
		return fmt.Errorf("read snapshot schema: %w", err)
	}
	if _, err := pool.Exec(ctx, string(content)); err != nil {
		return fmt.Errorf("apply snapshot schema: %w", err)
	}
	return nil
}
