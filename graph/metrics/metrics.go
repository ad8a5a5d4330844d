// Package metrics exposes Prometheus-compatible instrumentation for a
// depgraph.Graph by subscribing to its emit.Bus.
package metrics

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/nodewalk/depgraph/graph/emit"
)

// Collector records graph lifecycle events as Prometheus metrics, all
// namespaced with "depgraph_":
//
//  1. nodes_total (gauge): nodes currently present in the store.
//  2. pending_jobs (gauge): outstanding trace jobs awaiting a resolver callback.
//  3. traced_total (counter): successful trace-node completions.
//  4. pruned_total (counter): nodes removed by a prune.
//  5. errors_total (counter): resolver failures.
//  6. complete_total (counter): times the graph reached a fully quiescent state.
//
// A Collector is itself an emit.Emitter; subscribe it to a graph's
// event bus via WithEmitter or Events().Subscribe.
type Collector struct {
	mu sync.Mutex

	nodesTotal    prometheus.Gauge
	pendingJobs   prometheus.Gauge
	tracedTotal   prometheus.Counter
	prunedTotal   prometheus.Counter
	errorsTotal   prometheus.Counter
	completeTotal prometheus.Counter

	nodeCount    int
	pendingCount int
}

// New registers a Collector's metrics with registry. If registry is
// nil, prometheus.DefaultRegisterer is used.
func New(registry prometheus.Registerer) *Collector {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Collector{
		nodesTotal: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "depgraph",
			Name:      "nodes_total",
			Help:      "Number of nodes currently present in the graph's store",
		}),
		pendingJobs: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "depgraph",
			Name:      "pending_jobs",
			Help:      "Number of outstanding trace jobs awaiting a resolver callback",
		}),
		tracedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "depgraph",
			Name:      "traced_total",
			Help:      "Cumulative count of successful trace-node completions",
		}),
		prunedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "depgraph",
			Name:      "pruned_total",
			Help:      "Cumulative count of nodes removed by a prune",
		}),
		errorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "depgraph",
			Name:      "errors_total",
			Help:      "Cumulative count of resolver failures",
		}),
		completeTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "depgraph",
			Name:      "complete_total",
			Help:      "Cumulative count of times the graph reached a fully quiescent state",
		}),
	}
}

// Emit implements emit.Emitter.
func (c *Collector) Emit(event emit.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch event.Kind {
	case emit.EventTraced:
		c.nodeCount++
		c.tracedTotal.Inc()
		c.nodesTotal.Set(float64(c.nodeCount))
	case emit.EventPruned:
		if c.nodeCount > 0 {
			c.nodeCount--
		}
		c.prunedTotal.Inc()
		c.nodesTotal.Set(float64(c.nodeCount))
	case emit.EventError:
		c.errorsTotal.Inc()
	case emit.EventComplete:
		c.completeTotal.Inc()
		c.pendingCount = 0
		c.pendingJobs.Set(0)
	}
}

// EmitBatch implements emit.Emitter.
func (c *Collector) EmitBatch(_ context.Context, events []emit.Event) error {
	for _, e := range events {
		c.Emit(e)
	}
	return nil
}

// Flush implements emit.Emitter. Prometheus metrics are pushed on
// every Emit call, so Flush is a no-op.
func (c *Collector) Flush(_ context.Context) error { return nil }

// SetPendingJobs overrides the pending_jobs gauge directly, for
// callers that poll Graph.PendingJobs() on an interval rather than
// deriving the count from traced/error events.
func (c *Collector) SetPendingJobs(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingCount = n
	c.pendingJobs.Set(float64(n))
}
