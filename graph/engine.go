package graph

import "github.com/nodewalk/depgraph/graph/emit"

// TraceNode drives resolution of id. It appends a pending job, invokes
// the configured resolver, and folds the result into the node store
// once the resolver's callback returns. If id has already completed a
// trace and no job is currently pending for it, TraceNode short-circuits
// without calling the resolver again. Being merely present in the store
// as an edge endpoint (discovered as someone else's dependency, but not
// yet itself resolved) does not count: it must still be traced.
//
// TraceNode may be called re-entrantly, including from inside an event
// handler subscribed to g.Events(): it simply appends another job.
func (g *Graph) TraceNode(id string) {
	g.mu.Lock()
	if g.isResolvedLocked(id) && !g.jobs.isPending(id) {
		g.mu.Unlock()
		return
	}
	g.jobs.push(id)
	g.mu.Unlock()

	g.resolve(id)
}

// resolve invokes the resolver for id, whose job is already queued, and
// folds the result in once the callback fires.
func (g *Graph) resolve(id string) {
	g.mu.Lock()
	getDeps := g.getDeps
	ctx := g.ctx
	g.mu.Unlock()

	getDeps(ctx, id, func(deps []string, err error) {
		g.mu.Lock()
		events, toTrace := g.handleResultLocked(id, deps, err)
		g.mu.Unlock()

		for _, e := range events {
			g.bus.Emit(e)
		}
		for _, dep := range toTrace {
			g.resolve(dep)
		}
	})
}

// handleResultLocked folds a resolver result into the store under the
// caller's lock. It returns the events to emit and the dependency ids
// that were newly discovered, both to be processed only after the lock
// is released. A job for each such dependency is queued here, before
// completion is evaluated, so complete does not fire while they are
// still outstanding.
func (g *Graph) handleResultLocked(id string, deps []string, err error) ([]emit.Event, []string) {
	idx, found := g.jobs.firstIndexFor(id)
	if !found || !g.jobs.jobs[idx].Valid {
		// Stale: the job was invalidated (by a prune, most likely) before
		// this callback arrived. Discard entirely.
		return nil, nil
	}

	if err != nil {
		g.jobs.invalidateAt(idx)
		events := []emit.Event{{Kind: emit.EventError, Node: id, Err: err}}
		if !g.jobs.anyValid() {
			events = append(events, emit.Event{Kind: emit.EventComplete})
		}
		return events, nil
	}

	if !g.nodes.Has(id) {
		if next, addErr := g.nodes.AddNode(id); addErr == nil {
			g.nodes = next
		}
	}

	var toTrace []string
	for _, dep := range deps {
		needsTrace := !g.isResolvedLocked(dep) && !g.jobs.isPending(dep)

		if !g.nodes.Has(dep) {
			if next, addErr := g.nodes.AddNode(dep); addErr == nil {
				g.nodes = next
			}
		}
		if next, edgeErr := g.nodes.AddEdge(id, dep); edgeErr == nil {
			g.nodes = next
		}

		if needsTrace {
			g.jobs.push(dep)
			toTrace = append(toTrace, dep)
		}
	}

	g.resolved[id] = struct{}{}
	g.jobs.invalidateAt(idx)

	events := []emit.Event{{Kind: emit.EventTraced, Node: id, Dependencies: deps}}
	if !g.jobs.anyValid() {
		events = append(events, emit.Event{Kind: emit.EventComplete})
	}
	return events, toTrace
}
