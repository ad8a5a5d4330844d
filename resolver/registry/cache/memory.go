package cache

import "context"

// MemoryCache is an in-memory Cache for tests and short-lived
// processes that don't need persistence across runs.
type MemoryCache struct {
	entries map[string][]string
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: map[string][]string{}}
}

// Get implements Cache.
func (c *MemoryCache) Get(_ context.Context, coordinate string) ([]string, error) {
	deps, ok := c.entries[coordinate]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]string, len(deps))
	copy(out, deps)
	return out, nil
}

// Put implements Cache.
func (c *MemoryCache) Put(_ context.Context, coordinate string, deps []string) error {
	stored := make([]string, len(deps))
	copy(stored, deps)
	c.entries[coordinate] = stored
	return nil
}

// Close implements Cache. MemoryCache holds no external resources.
func (c *MemoryCache) Close() error { return nil }
