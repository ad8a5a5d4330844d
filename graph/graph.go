package graph

import (
	"context"
	"sync"

	"github.com/nodewalk/depgraph/graph/emit"
)

// GetDependencies is the resolver contract the engine drives: given a
// node-id, it must invoke callback exactly once with either the node's
// ordered direct dependencies or an error. Synchronous invocation is
// permitted; ctx carries cancellation from the caller but is never
// cancelled by the graph itself.
type GetDependencies func(ctx context.Context, id string, callback func(deps []string, err error))

// Graph is the public facade composing the node store, pending-job
// queue, trace engine, prune engine, and event bus.
//
// All state-mutating methods acquire mu for the duration of their
// mutation; the resolver call made by TraceNode runs outside the lock,
// so a slow resolver never blocks other trace or prune calls on the
// same Graph.
type Graph struct {
	mu       sync.Mutex
	ctx      context.Context
	nodes    NodeStore
	jobs     *PendingJobs
	bus      *emit.Bus
	getDeps  GetDependencies
	resolved map[string]struct{}
}

// New constructs a Graph backed by getDeps. With no options the graph
// starts empty, emits nothing, and uses context.Background() for
// resolver calls.
func New(getDeps GetDependencies, opts ...Option) (*Graph, error) {
	cfg := &config{
		nodes: NewNodeStore(),
		ctx:   context.Background(),
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	bus := emit.NewBus()
	if cfg.emitter != nil {
		bus.Subscribe(cfg.emitter)
	} else {
		bus.Subscribe(emit.NewNullEmitter())
	}

	return &Graph{
		ctx:      cfg.ctx,
		nodes:    cfg.nodes,
		jobs:     newPendingJobs(),
		bus:      bus,
		getDeps:  getDeps,
		resolved: map[string]struct{}{},
	}, nil
}

// isResolvedLocked reports whether id has completed its own trace, as
// opposed to merely being present in the store as another node's edge
// endpoint. Caller must hold mu.
func (g *Graph) isResolvedLocked(id string) bool {
	_, ok := g.resolved[id]
	return ok
}

// SetNodeAsEntry marks id as an entry node, protecting it from
// transitive (but not explicit) pruning. Fails if id is absent.
func (g *Graph) SetNodeAsEntry(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	next, err := g.nodes.SetEntry(id, true)
	if err != nil {
		return err
	}
	g.nodes = next
	return nil
}

// UnsetNodeAsEntry clears id's entry flag. Fails if id is absent.
func (g *Graph) UnsetNodeAsEntry(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	next, err := g.nodes.SetEntry(id, false)
	if err != nil {
		return err
	}
	g.nodes = next
	return nil
}

// IsNodeDefined reports whether id is present in the current store.
func (g *Graph) IsNodeDefined(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.nodes.Has(id)
}

// IsNodePending reports whether a valid job is outstanding for id.
func (g *Graph) IsNodePending(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.jobs.isPending(id)
}

// GetNodes returns the current store snapshot. Safe to retain: snapshots
// are never mutated in place.
func (g *Graph) GetNodes() NodeStore {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.nodes
}

// PendingJobs returns a defensive copy of the current job queue.
func (g *Graph) PendingJobs() []Job {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.jobs.Snapshot()
}

// Events returns the graph's event bus, so callers may subscribe
// additional emitters after construction.
func (g *Graph) Events() *emit.Bus {
	return g.bus
}
