package graph

import (
	"context"
	"strings"
	"testing"

	"github.com/nodewalk/depgraph/graph/emit"
)

func newPruneTestGraph(t *testing.T, notation string) (*Graph, *emit.BufferedEmitter) {
	t.Helper()
	store, err := ParseNotation(strings.NewReader(notation))
	if err != nil {
		t.Fatalf("ParseNotation() error = %v", err)
	}
	buf := emit.NewBufferedEmitter()
	g, err := New(noopResolver, WithInitialNodes(store), WithEmitter(buf))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return g, buf
}

func noopResolver(_ context.Context, _ string, callback func([]string, error)) {
	callback(nil, nil)
}

func prunedNodes(buf *emit.BufferedEmitter) []string {
	var out []string
	for _, e := range buf.ByKind(emit.EventPruned) {
		out = append(out, e.Node)
	}
	return out
}

// Scenario 3: cycle prune, length 3.
func TestPruneNode_CyclePrune(t *testing.T) {
	g, buf := newPruneTestGraph(t, "a -> b -> c -> b")

	g.PruneNode("a")

	if g.GetNodes().Len() != 0 {
		t.Fatalf("nodes = %v, want empty store", g.GetNodes())
	}
	pruned := prunedNodes(buf)
	if len(pruned) != 3 || pruned[0] != "a" {
		t.Fatalf("pruned = %v, want [a ...] with b,c following in any order", pruned)
	}
	rest := map[string]bool{pruned[1]: true, pruned[2]: true}
	if !rest["b"] || !rest["c"] {
		t.Errorf("pruned = %v, want b and c after a", pruned)
	}
}

// Scenario 4: shared dependent, both entries.
func TestPruneNode_SharedDependent(t *testing.T) {
	g, buf := newPruneTestGraph(t, "a -> b\nc -> b")

	if err := g.SetNodeAsEntry("a"); err != nil {
		t.Fatalf("SetNodeAsEntry(a) error = %v", err)
	}
	if err := g.SetNodeAsEntry("c"); err != nil {
		t.Fatalf("SetNodeAsEntry(c) error = %v", err)
	}

	g.PruneNode("a")

	pruned := prunedNodes(buf)
	if len(pruned) != 1 || pruned[0] != "a" {
		t.Fatalf("pruned = %v, want exactly [a]", pruned)
	}
	nodes := g.GetNodes()
	if !nodes.Has("b") || !nodes.Has("c") {
		t.Errorf("nodes = %v, want b and c to remain", nodes)
	}
}

// Shared dependent kept alive by an ordinary (non-entry) dependent
// outside the pruned root's reachable cone.
func TestPruneNode_SharedDependentWithoutEntries(t *testing.T) {
	g, buf := newPruneTestGraph(t, "a -> b\nc -> b")

	g.PruneNode("a")

	pruned := prunedNodes(buf)
	if len(pruned) != 1 || pruned[0] != "a" {
		t.Fatalf("pruned = %v, want exactly [a]", pruned)
	}
	nodes := g.GetNodes()
	if !nodes.Has("b") || !nodes.Has("c") {
		t.Errorf("nodes = %v, want b and c to remain", nodes)
	}
	b, _ := nodes.Get("b")
	if _, ok := b.Dependents["c"]; !ok {
		t.Error("b must still list c as a dependent after pruning a")
	}
}

// Scenario 5: tournament.
func TestPruneNode_Tournament(t *testing.T) {
	notation := strings.Join([]string{
		"a -> b", "a -> c", "a -> d",
		"b -> a", "b -> c", "b -> d",
		"c -> a", "c -> b", "c -> d",
		"d -> a", "d -> b", "d -> c",
	}, "\n")
	g, buf := newPruneTestGraph(t, notation)

	if err := g.SetNodeAsEntry("a"); err != nil {
		t.Fatalf("SetNodeAsEntry(a) error = %v", err)
	}

	g.PruneNode("a")

	if g.GetNodes().Len() != 0 {
		t.Fatalf("nodes = %v, want empty store", g.GetNodes())
	}
	if got := len(prunedNodes(buf)); got != 4 {
		t.Errorf("pruned count = %d, want 4", got)
	}
}

// Scenario 6: entry anchors a sub-cycle.
func TestPruneNode_EntryAnchorsSubCycle(t *testing.T) {
	g, buf := newPruneTestGraph(t, "a -> b -> c -> d -> b\nc -> b")

	if err := g.SetNodeAsEntry("a"); err != nil {
		t.Fatalf("SetNodeAsEntry(a) error = %v", err)
	}

	g.PruneNode("b")

	nodes := g.GetNodes()
	if nodes.Len() != 1 || !nodes.Has("a") {
		t.Fatalf("nodes = %v, want store {a}", nodes)
	}
	a, _ := nodes.Get("a")
	if !a.IsEntry {
		t.Error("a.IsEntry should remain true")
	}
	if len(a.Dependencies) != 0 {
		t.Errorf("a.Dependencies = %v, want empty", a.Dependencies)
	}

	pruned := prunedNodes(buf)
	if len(pruned) != 3 || pruned[0] != "b" {
		t.Fatalf("pruned = %v, want [b ...] with c,d following", pruned)
	}
	rest := map[string]bool{pruned[1]: true, pruned[2]: true}
	if !rest["c"] || !rest["d"] {
		t.Errorf("pruned = %v, want c and d after b", pruned)
	}
}

// Scenario 7: job invalidation by prune.
func TestPruneNode_InvalidatesPendingJobs(t *testing.T) {
	g, buf := newPruneTestGraph(t, "a -> b")

	g.mu.Lock()
	g.jobs.push("b")
	g.mu.Unlock()

	if !g.IsNodePending("b") {
		t.Fatal("b should be pending before prune")
	}

	g.PruneNode("a")

	if g.IsNodePending("b") {
		t.Error("b's pending job should be invalidated by pruning a")
	}
	if len(buf.ByKind(emit.EventComplete)) != 1 {
		t.Errorf("complete events = %d, want 1", len(buf.ByKind(emit.EventComplete)))
	}
}

func TestPruneNode_AbsentNodeIsNoop(t *testing.T) {
	g, buf := newPruneTestGraph(t, "a -> b")

	g.PruneNode("does-not-exist")

	if g.GetNodes().Len() != 2 {
		t.Errorf("nodes = %v, pruning an absent node must not mutate the store", g.GetNodes())
	}
	if len(prunedNodes(buf)) != 0 {
		t.Errorf("pruned events = %v, want none", prunedNodes(buf))
	}
}

func TestPruneNode_RemovingEntryItselfIsAllowed(t *testing.T) {
	g, _ := newPruneTestGraph(t, "a")
	if err := g.SetNodeAsEntry("a"); err != nil {
		t.Fatalf("SetNodeAsEntry() error = %v", err)
	}

	g.PruneNode("a")

	if g.IsNodeDefined("a") {
		t.Error("explicitly pruning an entry node must remove it")
	}
}

func TestPruneNode_Idempotent(t *testing.T) {
	g, buf := newPruneTestGraph(t, "a -> b -> c -> b")

	g.PruneNode("a")
	firstPruned := prunedNodes(buf)

	buf.Clear()
	g.PruneNode("a")
	secondPruned := prunedNodes(buf)

	if len(secondPruned) != 0 {
		t.Errorf("second prune of the same id pruned = %v, want none", secondPruned)
	}
	if len(firstPruned) != 3 {
		t.Errorf("first prune pruned = %v, want 3 nodes", firstPruned)
	}
}

func TestSetNodeAsEntry_Idempotent(t *testing.T) {
	g, _ := newPruneTestGraph(t, "a")
	if err := g.SetNodeAsEntry("a"); err != nil {
		t.Fatalf("SetNodeAsEntry() error = %v", err)
	}
	if err := g.SetNodeAsEntry("a"); err != nil {
		t.Fatalf("SetNodeAsEntry() (second call) error = %v", err)
	}
	a, _ := g.GetNodes().Get("a")
	if !a.IsEntry {
		t.Error("a.IsEntry should be true")
	}
}

func TestPruneNode_EntryPreservationInvariant(t *testing.T) {
	// Invariant 4: every entry node present before a prune remains
	// present unless it was itself the pruned argument.
	g, _ := newPruneTestGraph(t, "a -> b -> c -> b")
	if err := g.SetNodeAsEntry("a"); err != nil {
		t.Fatalf("SetNodeAsEntry() error = %v", err)
	}

	g.PruneNode("b")

	if !g.IsNodeDefined("a") {
		t.Error("entry node a must survive pruning an unrelated root")
	}
}
