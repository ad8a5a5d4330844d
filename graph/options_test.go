package graph

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nodewalk/depgraph/graph/emit"
)

func TestNew_Defaults(t *testing.T) {
	g, err := New(noopResolver)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if g.GetNodes().Len() != 0 {
		t.Error("default graph should start empty")
	}
}

func TestWithInitialNodes(t *testing.T) {
	store, err := ParseNotation(strings.NewReader("a -> b"))
	if err != nil {
		t.Fatalf("ParseNotation() error = %v", err)
	}
	g, err := New(noopResolver, WithInitialNodes(store))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !g.IsNodeDefined("a") || !g.IsNodeDefined("b") {
		t.Error("graph should start seeded with a and b")
	}
}

func TestWithInitialNodes_RejectsAsymmetricStore(t *testing.T) {
	broken := NodeStore{
		"a": {Name: "a", Dependencies: map[string]struct{}{"b": {}}, Dependents: map[string]struct{}{}},
		"b": {Name: "b", Dependencies: map[string]struct{}{}, Dependents: map[string]struct{}{}},
	}
	if _, err := New(noopResolver, WithInitialNodes(broken)); err == nil {
		t.Error("expected an error for an asymmetric initial store")
	}
}

func TestWithContext_RejectsNil(t *testing.T) {
	if _, err := New(noopResolver, WithContext(nil)); err == nil {
		t.Error("expected an error for a nil context")
	}
}

func TestWithContext_Propagated(t *testing.T) {
	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "marker")

	var seen any
	resolver := func(ctx context.Context, id string, callback func([]string, error)) {
		seen = ctx.Value(ctxKey{})
		callback(nil, nil)
	}

	g, err := New(resolver, WithContext(ctx))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	g.TraceNode("a")

	if seen != "marker" {
		t.Errorf("resolver ctx value = %v, want %q", seen, "marker")
	}
}

func TestWithEmitter_MultipleSubscribers(t *testing.T) {
	first := emit.NewBufferedEmitter()
	second := emit.NewBufferedEmitter()

	g, err := New(noopResolver, WithEmitter(first), WithEmitter(second))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	g.TraceNode("a")

	if len(first.All()) == 0 || len(second.All()) == 0 {
		t.Error("both emitters passed via WithEmitter should receive events")
	}
}

func TestNew_OptionErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	failing := func(*config) error { return boom }

	if _, err := New(noopResolver, failing); !errors.Is(err, boom) {
		t.Errorf("New() error = %v, want %v", err, boom)
	}
}
