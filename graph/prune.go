package graph

import (
	"sort"

	"github.com/nodewalk/depgraph/graph/emit"
)

// PruneNode removes id and every dependency that transitively loses all
// dependents, tolerating cycles and pruning entry nodes only when named
// explicitly. Pruning an absent node is a no-op (completion is still
// re-evaluated, since the queue may hold invalidated jobs for it).
func (g *Graph) PruneNode(id string) {
	g.mu.Lock()
	events := g.pruneNodeLocked(id)
	g.mu.Unlock()

	for _, e := range events {
		g.bus.Emit(e)
	}
}

func (g *Graph) pruneNodeLocked(id string) []emit.Event {
	if !g.nodes.Has(id) {
		return g.completionEventsLocked(nil)
	}

	orphans := g.computeOrphanSet(id)

	var events []emit.Event
	for _, n := range orphans {
		next, err := g.nodes.RemoveNode(n)
		if err != nil {
			continue
		}
		g.nodes = next
		g.jobs.invalidateFor(n)
		delete(g.resolved, n)
		events = append(events, emit.Event{Kind: emit.EventPruned, Node: n})
	}

	return g.completionEventsLocked(events)
}

func (g *Graph) completionEventsLocked(events []emit.Event) []emit.Event {
	if !g.jobs.anyValid() {
		events = append(events, emit.Event{Kind: emit.EventComplete})
	}
	return events
}

// computeOrphanSet returns, in breadth-first order starting from root,
// every node that must be removed when root is pruned: root itself,
// plus every node reachable from root via dependency edges that is not
// kept alive by some surviving dependent outside that reachable set.
//
// "Live" is computed first as its own fixpoint: any node outside the
// root-reachable cone is always live (it has a dependent, namely
// whatever reached it without going through root, that isn't itself
// a pruning candidate), an entry node other than root is always live,
// and anything a live node depends on is live too. This settles cycles
// correctly without special-casing them — a dependency cycle with no
// live member anywhere on its boundary is, as a whole, not live, and
// every member of it ends up in the orphan set; a cycle reached from a
// surviving entry or external dependent is, as a whole, live.
func (g *Graph) computeOrphanSet(root string) []string {
	reachable := map[string]bool{root: true}
	var rqueue []string
	if node, ok := g.nodes[root]; ok {
		rqueue = append(rqueue, sortedKeys(node.Dependencies)...)
	}
	for len(rqueue) > 0 {
		n := rqueue[0]
		rqueue = rqueue[1:]
		if reachable[n] {
			continue
		}
		reachable[n] = true
		if node, ok := g.nodes[n]; ok {
			rqueue = append(rqueue, sortedKeys(node.Dependencies)...)
		}
	}

	live := map[string]bool{}
	var liveQueue []string

	var seeds []string
	for id, n := range g.nodes {
		if id == root {
			continue
		}
		if n.IsEntry || !reachable[id] {
			seeds = append(seeds, id)
		}
	}
	sort.Strings(seeds)
	for _, id := range seeds {
		live[id] = true
		liveQueue = append(liveQueue, id)
	}

	for len(liveQueue) > 0 {
		n := liveQueue[0]
		liveQueue = liveQueue[1:]
		node, ok := g.nodes[n]
		if !ok {
			continue
		}
		for _, dep := range sortedKeys(node.Dependencies) {
			if dep == root || live[dep] {
				continue
			}
			live[dep] = true
			liveQueue = append(liveQueue, dep)
		}
	}

	order := []string{root}
	visited := map[string]bool{root: true}

	rootNode, ok := g.nodes[root]
	var queue []string
	if ok {
		queue = append(queue, sortedKeys(rootNode.Dependencies)...)
	}

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if visited[c] {
			continue
		}
		visited[c] = true
		if live[c] {
			continue
		}
		order = append(order, c)
		if node, ok := g.nodes[c]; ok {
			queue = append(queue, sortedKeys(node.Dependencies)...)
		}
	}

	return order
}
