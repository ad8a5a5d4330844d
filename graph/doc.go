// Package graph implements a directed dependency graph engine that
// incrementally discovers, records, and prunes a module-dependency
// graph driven by an external, asynchronous resolver.
//
// A Graph exposes two mutating operations, TraceNode and PruneNode,
// plus read accessors over its current NodeStore snapshot and pending
// job queue. Resolvers are supplied as a GetDependencies callback; the
// graph itself never reads files, parses source, or performs network
// I/O. See the resolver and resolver/* packages for concrete
// implementations driving real source trees.
//
// The engine is single-threaded at the logical level: every public
// method and every resolver callback acquires the Graph's internal
// mutex for the duration of its state mutation, but the resolver call
// itself runs outside that lock so a slow or goroutine-based resolver
// never blocks unrelated trace or prune calls.
package graph
