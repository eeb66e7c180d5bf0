// Package store is the optional Postgres home of the fixture files, with a
// plain directory as fallback when no database is configured.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoDatabase is returned by InitDB when DATABASE_URL is not set.
var ErrNoDatabase = errors.New("DATABASE_URL environment variable not set")

var (
	pool    *pgxpool.Pool
	once    sync.Once
	initErr error
)

// InitDB initializes the connection pool from the DATABASE_URL environment
// variable. Only the first call does any work.
func InitDB(ctx context.Context) error {
	once.Do(func() {
		dbURL := os.Getenv("DATABASE_URL")
		if dbURL == "" {
			initErr = ErrNoDatabase
			return
		}

		config, parseErr := pgxpool.ParseConfig(dbURL)
		if parseErr != nil {
			initErr = fmt.Errorf("failed to parse database config: %w", parseErr)
			return
		}

		p, connErr := pgxpool.NewWithConfig(ctx, config)
		if connErr != nil {
			initErr = fmt.Errorf("failed to create pool: %w", connErr)
			return
		}
		if pingErr := p.Ping(ctx); pingErr != nil {
			p.Close()
			initErr = fmt.Errorf("failed to reach database: %w", pingErr)
			return
		}
		pool = p
	})
	return initErr
}

// GetPool returns the connection pool, nil before a successful InitDB.
func GetPool() *pgxpool.Pool {
	return pool
}

// Close closes the connection pool.
func Close() {
	if pool != nil {
		pool.Close()
	}
}
