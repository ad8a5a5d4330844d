// Package cache persists resolved package manifests keyed by package
// coordinate, so repeated resolver/registry lookups avoid redundant
// network calls.
package cache

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound is returned when a requested coordinate has no cached
// manifest.
var ErrNotFound = errors.New("cache: manifest not found")

// Cache persists the dependency list a registry lookup returned for a
// package coordinate (e.g. "lodash@4.17.21").
type Cache interface {
	// Get returns the cached dependency list for coordinate, or
	// ErrNotFound if nothing is cached.
	Get(ctx context.Context, coordinate string) ([]string, error)

	// Put stores deps for coordinate, overwriting any previous entry.
	Put(ctx context.Context, coordinate string, deps []string) error

	// Close releases any underlying resources (database handles).
	Close() error
}

func encode(deps []string) (string, error) {
	b, err := json.Marshal(deps)
	return string(b), err
}

func decode(raw string) ([]string, error) {
	var deps []string
	if err := json.Unmarshal([]byte(raw), &deps); err != nil {
		return nil, err
	}
	return deps, nil
}
