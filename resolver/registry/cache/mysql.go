package cache

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLCache is a Cache backed by a shared MySQL/MariaDB instance, for
// deployments where several cmd/depgraph processes share one manifest
// cache.
type MySQLCache struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewMySQLCache opens a connection using dsn (see
// github.com/go-sql-driver/mysql for the DSN format) and ensures its
// schema exists.
func NewMySQLCache(dsn string) (*MySQLCache, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("cache: opening mysql: %w", err)
	}

	if _, err := db.ExecContext(context.Background(), `
		CREATE TABLE IF NOT EXISTS manifests (
			coordinate VARCHAR(512) PRIMARY KEY,
			deps_json  TEXT NOT NULL
		)
	`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cache: creating schema: %w", err)
	}

	return &MySQLCache{db: db}, nil
}

// Get implements Cache.
func (c *MySQLCache) Get(ctx context.Context, coordinate string) ([]string, error) {
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
func (c *MySQLCache) Put(ctx context.Context, coordinate string, deps []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, err := encode(deps)
	if err != nil {
		return fmt.Errorf("cache: encoding %s: %w", coordinate, err)
	}
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO manifests (coordinate, deps_json) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE deps_json = VALUES(deps_json)
	`, coordinate, raw)
	if err != nil {
		return fmt.Errorf("cache: storing %s: %w", coordinate, err)
	}
	return nil
}

// Close implements Cache.
func (c *MySQLCache) Close() error {
	return c.db.Close()
}
