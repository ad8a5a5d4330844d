// Package resolver composes graph.GetDependencies implementations.
package resolver

import (
	"context"
	"fmt"

	"github.com/nodewalk/depgraph/graph"
)

// Chain returns a graph.GetDependencies that tries each resolver in
// resolvers in order. A resolver "fails over" to the next one only
// when its callback reports an error; the first resolver to succeed
// reports its dependencies to callback. If every resolver fails, the
// last resolver's error is returned, wrapped with the node-id.
//
// This is the fallback composition SPEC_FULL.md describes: a static
// resolver (resolver/fs) tried first, an LLM resolver (resolver/llm)
// as the fallback for source it could not parse.
func Chain(resolvers ...graph.GetDependencies) graph.GetDependencies {
	return func(ctx context.Context, id string, callback func([]string, error)) {
		chainAt(ctx, id, resolvers, 0, callback)
	}
}

func chainAt(ctx context.Context, id string, resolvers []graph.GetDependencies, i int, callback func([]string, error)) {
	if i >= len(resolvers) {
		callback(nil, fmt.Errorf("resolver: no resolver configured for %s", id))
		return
	}
	resolvers[i](ctx, id, func(deps []string, err error) {
		if err != nil && i+1 < len(resolvers) {
			chainAt(ctx, id, resolvers, i+1, callback)
			return
		}
		if err != nil {
			callback(nil, fmt.Errorf("resolver: %s: %w", id, err))
			return
		}
		callback(deps, nil)
	})
}
