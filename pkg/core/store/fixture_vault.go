package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrFixtureNotFound is returned when neither the database nor the directory
// has the fixture.
var ErrFixtureNotFound = errors.New("fixture not found")

const schema = `
CREATE TABLE IF NOT EXISTS dashboard_fixtures (
	name       TEXT PRIMARY KEY,
	data       BYTEA NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// FixtureVault stores fixture files.
// Supports Hybrid Vault: DB (Primary) + File System (Fallback/Local)
type FixtureVault struct {
	pool    *pgxpool.Pool
	fileDir string
}

// NewFixtureVault creates a vault. With a nil pool it is purely file based.
func NewFixtureVault(pool *pgxpool.Pool, dir string) *FixtureVault {
	return &FixtureVault{pool: pool, fileDir: dir}
}

// EnsureSchema creates the fixtures table if needed. Without a pool it only
// makes sure the directory exists.
func (v *FixtureVault) EnsureSchema(ctx context.Context) error {
	if v.pool != nil {
		if _, err := v.pool.Exec(ctx, schema); err != nil {
			return fmt.Errorf("failed to create dashboard_fixtures: %w", err)
		}
	}
	if v.fileDir != "" {
		if err := os.MkdirAll(v.fileDir, 0755); err != nil {
			return fmt.Errorf("failed to create fixture dir: %w", err)
		}
	}
	return nil
}

// Fetch returns a fixture's bytes. It satisfies ingest.Source.
func (v *FixtureVault) Fetch(ctx context.Context, name string) ([]byte, error) {
	// 1. Try DB
	if v.pool != nil {
		var data []byte
		err := v.pool.QueryRow(ctx, `SELECT data FROM dashboard_fixtures WHERE name = $1`, name).Scan(&data)
		switch {
		case err == nil:
			return data, nil
		case !errors.Is(err, pgx.ErrNoRows):
			return nil, fmt.Errorf("failed to read fixture %s from db: %w", name, err)
		}
	}

	// 2. Try File System
	if v.fileDir != "" {
		path, err := v.path(name)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read fixture %s: %w", name, err)
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrFixtureNotFound, name)
}

// Save writes a fixture to the database and, when configured, the directory.
func (v *FixtureVault) Save(ctx context.Context, name string, data []byte) error {
	path, err := v.path(name)
	if err != nil {
		return err
	}

	// 1. Save to DB
	if v.pool != nil {
		query := `
			INSERT INTO dashboard_fixtures (name, data)
			VALUES ($1, $2)
			ON CONFLICT (name)
			DO UPDATE SET
				data = EXCLUDED.data,
				updated_at = NOW()
		`
		if _, err := v.pool.Exec(ctx, query, name, data); err != nil {
			return fmt.Errorf("failed to save fixture %s to db: %w", name, err)
		}
	}

	// 2. Save to File
	if v.fileDir != "" {
		if err := os.MkdirAll(v.fileDir, 0755); err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write fixture %s: %w", name, err)
		}
	}
	return nil
}

// List returns the names of every stored fixture, sorted.
func (v *FixtureVault) List(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}

	if v.pool != nil {
		rows, err := v.pool.Query(ctx, `SELECT name FROM dashboard_fixtures`)
		if err != nil {
			return nil, fmt.Errorf("failed to list fixtures: %w", err)
		}
		names, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return nil, fmt.Errorf("failed to list fixtures: %w", err)
		}
		for _, n := range names {
			seen[n] = true
		}
	}

	if v.fileDir != "" {
		entries, err := os.ReadDir(v.fileDir)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		for _, e := range entries {
			if !e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
				seen[e.Name()] = true
			}
		}
	}

	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out, nil
}

func (v *FixtureVault) path(name string) (string, error) {
	if !filepath.IsLocal(name) || strings.ContainsRune(name, filepath.Separator) {
		return "", fmt.Errorf("invalid fixture name %q", name)
	}
	return filepath.Join(v.fileDir, name), nil
}
