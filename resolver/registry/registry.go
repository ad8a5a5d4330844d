// Package registry implements a graph.GetDependencies backed by an
// HTTP package registry: it fetches a JSON manifest for a package
// coordinate and reports the manifest's declared dependencies as the
// node's direct dependencies.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/nodewalk/depgraph/resolver/registry/cache"
)

// manifest is the subset of a registry response this resolver cares
// about: the package's direct dependency coordinates.
type manifest struct {
	Dependencies []string `json:"dependencies"`
}

// Resolver fetches package manifests over HTTP, optionally caching
// results so repeated lookups for the same coordinate avoid a network
// round trip.
type Resolver struct {
	// BaseURL is the registry endpoint; node-ids are appended to it
	// (e.g. "https://registry.example.com/packages/" + id).
	BaseURL string

	client *http.Client
	cache  cache.Cache
}

// New returns a Resolver against baseURL with no cache. Use
// NewWithCache to wrap one of the resolver/registry/cache backends.
func New(baseURL string) *Resolver {
	return &Resolver{
		BaseURL: baseURL,
		client:  &http.Client{},
	}
}

// NewWithCache returns a Resolver against baseURL that consults c
// before making a network request, and populates c after a successful
// fetch.
func NewWithCache(baseURL string, c cache.Cache) *Resolver {
	r := New(baseURL)
	r.cache = c
	return r
}

// Resolve implements graph.GetDependencies.
func (r *Resolver) Resolve(ctx context.Context, id string, callback func(deps []string, err error)) {
	if r.cache != nil {
		if deps, err := r.cache.Get(ctx, id); err == nil {
			callback(deps, nil)
			return
		}
	}

	deps, err := r.fetch(ctx, id)
	if err != nil {
		callback(nil, err)
		return
	}

	if r.cache != nil {
		_ = r.cache.Put(ctx, id, deps)
	}
	callback(deps, nil)
}

func (r *Resolver) fetch(ctx context.Context, id string) ([]string, error) {
	url := r.BaseURL + id
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("registry: building request for %s: %w", id, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("registry: fetching %s: %w", id, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry: %s: unexpected status %d", id, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("registry: reading %s: %w", id, err)
	}

	var m manifest
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("registry: parsing manifest for %s: %w", id, err)
	}
	return m.Dependencies, nil
}
