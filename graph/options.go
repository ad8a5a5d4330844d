package graph

import (
	"context"
	"fmt"

	"github.com/nodewalk/depgraph/graph/emit"
)

// config collects options before they are applied to a Graph.
type config struct {
	nodes   NodeStore
	ctx     context.Context
	emitter emit.Emitter
}

// Option configures a Graph at construction time.
type Option func(*config) error

// WithInitialNodes seeds the graph with a pre-populated store, e.g. one
// produced by ParseNotation. The store's edge-symmetry and closure
// invariants are validated eagerly, so a malformed fixture fails at
// construction rather than corrupting a later trace or prune.
func WithInitialNodes(nodes NodeStore) Option {
	return func(cfg *config) error {
		if err := validateStore(nodes); err != nil {
			return err
		}
		cfg.nodes = nodes
		return nil
	}
}

// WithEmitter subscribes e to the graph's event bus at construction
// time. Call multiple times to subscribe several emitters.
func WithEmitter(e emit.Emitter) Option {
	return func(cfg *config) error {
		if cfg.emitter == nil {
			cfg.emitter = e
			return nil
		}
		if e != nil {
			fanOut := emit.NewBus()
			fanOut.Subscribe(cfg.emitter)
			fanOut.Subscribe(e)
			cfg.emitter = fanOut
		}
		return nil
	}
}

// WithContext sets the context threaded through to every
// GetDependencies call. Defaults to context.Background().
func WithContext(ctx context.Context) Option {
	return func(cfg *config) error {
		if ctx == nil {
			return fmt.Errorf("graph: nil context")
		}
		cfg.ctx = ctx
		return nil
	}
}

// validateStore checks the edge-symmetry and closure invariants on a
// store supplied via WithInitialNodes.
func validateStore(nodes NodeStore) error {
	for id, n := range nodes {
		for dep := range n.Dependencies {
			target, ok := nodes[dep]
			if !ok {
				return fmt.Errorf("%w: %s referenced by %s", ErrMissingEndpoint, dep, id)
			}
			if _, ok := target.Dependents[id]; !ok {
				return fmt.Errorf("graph: asymmetric edge %s -> %s", id, dep)
			}
		}
	}
	return nil
}
