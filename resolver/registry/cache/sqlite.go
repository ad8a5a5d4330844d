package cache

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteCache is a single-file Cache backed by modernc.org/sqlite.
// Suitable for local development and single-process CLI runs of
// cmd/depgraph.
type SQLiteCache struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteCache opens (creating if necessary) a SQLite database at
// path and ensures its schema exists. Pass ":memory:" for an ephemeral
// cache, useful in tests.
func NewSQLiteCache(path string) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: opening sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), `
		CREATE TABLE IF NOT EXISTS manifests (
			coordinate TEXT PRIMARY KEY,
			deps_json  TEXT NOT NULL
		)
	`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cache: creating schema: %w", err)
	}

	return &SQLiteCache{db: db}, nil
}

// Get implements Cache.
func (c *SQLiteCache) Get(ctx context.Context, coordinate string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var raw string
	err := c.db.QueryRowContext(ctx,
		`SELECT deps_json FROM manifests WHERE coordinate = ?`, coordinate,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cache: querying %s: %w", coordinate, err)
	}
	return decode(raw)
}

// Put implements Cache.
func (c *SQLiteCache) Put(ctx context.Context, coordinate string, deps []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, err := encode(deps)
	if err != nil {
		return fmt.Errorf("cache: encoding %s: %w", coordinate, err)
	}
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO manifests (coordinate, deps_json) VALUES (?, ?)
		ON CONFLICT(coordinate) DO UPDATE SET deps_json = excluded.deps_json
	`, coordinate, raw)
	if err != nil {
		return fmt.Errorf("cache: storing %s: %w", coordinate, err)
	}
	return nil
}

// Close implements Cache.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}
