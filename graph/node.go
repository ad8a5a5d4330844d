package graph

import (
	"fmt"
	"sort"
)

// Node is a vertex in the dependency graph, identified by name.
// Dependencies and Dependents are kept symmetric by NodeStore's
// mutation operations: it is never valid to reach a Node directly and
// mutate these sets in place.
type Node struct {
	Name         string
	Dependencies map[string]struct{}
	Dependents   map[string]struct{}
	IsEntry      bool
}

func newNode(name string) Node {
	return Node{
		Name:         name,
		Dependencies: map[string]struct{}{},
		Dependents:   map[string]struct{}{},
	}
}

// clone returns a Node with freshly allocated Dependencies/Dependents
// sets, so mutating the copy never affects the snapshot it came from.
func (n Node) clone() Node {
	deps := make(map[string]struct{}, len(n.Dependencies))
	for k := range n.Dependencies {
		deps[k] = struct{}{}
	}
	dependents := make(map[string]struct{}, len(n.Dependents))
	for k := range n.Dependents {
		dependents[k] = struct{}{}
	}
	n.Dependencies = deps
	n.Dependents = dependents
	return n
}

// NodeStore is an immutable snapshot mapping node-id to Node. Every
// mutating method returns a new snapshot; the receiver is left
// untouched, so an observer holding a NodeStore never sees a
// partially-applied mutation. Snapshots share structure: a mutation
// copies the top-level map, but only the nodes it touches get fresh
// Dependencies/Dependents sets; every other node's sets are shared
// with the previous snapshot.
type NodeStore map[string]Node

// NewNodeStore returns an empty store.
func NewNodeStore() NodeStore {
	return NodeStore{}
}

// Has reports whether id is present in the store.
func (s NodeStore) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Get returns the Node for id and whether it was present.
func (s NodeStore) Get(id string) (Node, bool) {
	n, ok := s[id]
	return n, ok
}

// Len returns the number of nodes in the store.
func (s NodeStore) Len() int {
	return len(s)
}

func (s NodeStore) copyAll() NodeStore {
	next := make(NodeStore, len(s))
	for k, v := range s {
		next[k] = v
	}
	return next
}

// AddNode returns a new snapshot with id present and no edges. Fails if
// id is already present.
func (s NodeStore) AddNode(id string) (NodeStore, error) {
	if s.Has(id) {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateNode, id)
	}
	next := s.copyAll()
	next[id] = newNode(id)
	return next, nil
}

// RemoveNode returns a new snapshot with id, and every edge touching
// it, removed. Fails if id is absent.
func (s NodeStore) RemoveNode(id string) (NodeStore, error) {
	target, ok := s[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	next := s.copyAll()
	for dep := range target.Dependencies {
		if d, ok := next[dep]; ok {
			d = d.clone()
			delete(d.Dependents, id)
			next[dep] = d
		}
	}
	for dependent := range target.Dependents {
		if d, ok := next[dependent]; ok {
			d = d.clone()
			delete(d.Dependencies, id)
			next[dependent] = d
		}
	}
	delete(next, id)
	return next, nil
}

// AddEdge returns a new snapshot with head depending on tail. Both
// endpoints must already exist. Idempotent: adding an edge that is
// already present returns the receiver unchanged.
func (s NodeStore) AddEdge(head, tail string) (NodeStore, error) {
	h, ok := s[head]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingEndpoint, head)
	}
	if !s.Has(tail) {
		return nil, fmt.Errorf("%w: %s", ErrMissingEndpoint, tail)
	}
	if _, ok := h.Dependencies[tail]; ok {
		return s, nil
	}

	next := s.copyAll()
	h2 := next[head].clone()
	h2.Dependencies[tail] = struct{}{}
	next[head] = h2

	t2 := next[tail].clone()
	t2.Dependents[head] = struct{}{}
	next[tail] = t2

	return next, nil
}

// RemoveEdge returns a new snapshot with the head-depends-on-tail edge
// removed. Both endpoints must exist. Idempotent: removing an edge that
// is already absent returns the receiver unchanged.
func (s NodeStore) RemoveEdge(head, tail string) (NodeStore, error) {
	h, ok := s[head]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingEndpoint, head)
	}
	if !s.Has(tail) {
		return nil, fmt.Errorf("%w: %s", ErrMissingEndpoint, tail)
	}
	if _, ok := h.Dependencies[tail]; !ok {
		return s, nil
	}

	next := s.copyAll()
	h2 := next[head].clone()
	delete(h2.Dependencies, tail)
	next[head] = h2

	t2 := next[tail].clone()
	delete(t2.Dependents, head)
	next[tail] = t2

	return next, nil
}

// SetEntry returns a new snapshot with id's IsEntry flag set to
// isEntry. Fails if id is absent.
func (s NodeStore) SetEntry(id string, isEntry bool) (NodeStore, error) {
	n, ok := s[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	if n.IsEntry == isEntry {
		return s, nil
	}
	next := s.copyAll()
	n.IsEntry = isEntry
	next[id] = n
	return next, nil
}

// sortedKeys returns the keys of a dependency/dependent set in
// lexicographic order, giving the prune engine a deterministic
// iteration order over otherwise unordered Go maps.
func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
