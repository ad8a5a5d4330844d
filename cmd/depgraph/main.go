// Command depgraph traces a dependency graph from one or more entry
// points using a configurable resolver, reporting progress through a
// pluggable emitter and optionally exposing Prometheus metrics and a
// DOT export of the final graph.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/nodewalk/depgraph/graph"
	"github.com/nodewalk/depgraph/graph/emit"
	"github.com/nodewalk/depgraph/graph/export"
	gmetrics "github.com/nodewalk/depgraph/graph/metrics"
	"github.com/nodewalk/depgraph/internal/config"
	"github.com/nodewalk/depgraph/resolver"
	"github.com/nodewalk/depgraph/resolver/fs"
	"github.com/nodewalk/depgraph/resolver/llm"
	"github.com/nodewalk/depgraph/resolver/llm/anthropic"
	"github.com/nodewalk/depgraph/resolver/llm/google"
	"github.com/nodewalk/depgraph/resolver/llm/openai"
	"github.com/nodewalk/depgraph/resolver/registry"
	"github.com/nodewalk/depgraph/resolver/registry/cache"
)

func main() {
	cfg, err := config.Load(os.Args[1:], os.Getenv)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// 1. Setup Prometheus metrics, if requested.
	var collector *gmetrics.Collector
	if cfg.MetricsAddr != "" {
		promRegistry := prometheus.NewRegistry()
		collector = gmetrics.New(promRegistry)

		http.Handle("/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
		go func() {
			log.Printf("metrics server listening on %s", cfg.MetricsAddr)
			if err := http.ListenAndServe(cfg.MetricsAddr, nil); err != nil {
				log.Printf("metrics server error: %v", err)
			}
		}()
	}

	// 2. Build the resolver chain.
	getDeps, closeResolver, err := buildResolver(cfg)
	if err != nil {
		log.Fatalf("resolver: %v", err)
	}
	defer closeResolver()

	// 3. Setup graceful shutdown: a cancelled context propagates into
	// every in-flight resolver call (network resolvers honor it; the
	// graph itself never cancels this context on its own).
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("received interrupt, cancelling in-flight resolution")
		cancel()
	}()

	// 4. Create the graph with full observability.
	emitter := buildEmitter(cfg.EmitterKind)
	done := newCompletionSignal()

	g, err := graph.New(getDeps, graph.WithEmitter(emitter), graph.WithContext(ctx))
	if err != nil {
		log.Fatalf("graph: %v", err)
	}
	g.Events().Subscribe(done)
	if collector != nil {
		g.Events().Subscribe(collector)
	}

	// 5. Trace every entry point, bounded by -concurrency.
	log.Printf("tracing %d entry point(s)", len(cfg.EntryPoints))
	traceEntries(g, cfg.EntryPoints, cfg.Concurrency)

	select {
	case <-done.wait():
	case <-ctx.Done():
		log.Println("shutting down before tracing reached quiescence")
	}

	for _, id := range cfg.EntryPoints {
		if g.IsNodeDefined(id) {
			if err := g.SetNodeAsEntry(id); err != nil {
				log.Printf("marking %s as entry: %v", id, err)
			}
		}
	}

	nodes := g.GetNodes()
	log.Printf("traced %d node(s)", len(nodes))

	// 6. Export, if requested.
	if cfg.ExportPath != "" {
		if err := writeExport(cfg.ExportPath, nodes); err != nil {
			log.Fatalf("export: %v", err)
		}
		log.Printf("wrote DOT export to %s", cfg.ExportPath)
	}
}

// traceEntries calls TraceNode for every id, running at most
// concurrency of them at once. It returns once every top-level
// TraceNode call has returned, which for a synchronous resolver (e.g.
// resolver/fs) means resolution of that subtree is already complete;
// callers relying on an asynchronous resolver must also wait on the
// graph's completion event.
func traceEntries(g *graph.Graph, ids []string, concurrency int) {
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for _, id := range ids {
		wg.Add(1)
		sem <- struct{}{}
		go func(id string) {
			defer wg.Done()
			defer func() { <-sem }()
			g.TraceNode(id)
		}(id)
	}

	wg.Wait()
}

// completionSignal is an emit.Emitter that only cares about
// EventComplete, letting cmd/depgraph block until the trace has
// reached quiescence regardless of how many entry points or resolver
// round trips that took.
type completionSignal struct {
	ch chan struct{}
}

func newCompletionSignal() *completionSignal {
	return &completionSignal{ch: make(chan struct{}, 1)}
}

func (c *completionSignal) Emit(event emit.Event) {
	if event.Kind != emit.EventComplete {
		return
	}
	select {
	case c.ch <- struct{}{}:
	default:
	}
}

func (c *completionSignal) EmitBatch(ctx context.Context, events []emit.Event) error {
	for _, e := range events {
		c.Emit(e)
	}
	return nil
}

func (c *completionSignal) Flush(context.Context) error { return nil }

func (c *completionSignal) wait() <-chan struct{} { return c.ch }

func buildEmitter(kind string) emit.Emitter {
	switch kind {
	case config.EmitterNull:
		return emit.NewNullEmitter()
	case config.EmitterJSON:
		return emit.NewLogEmitter(os.Stdout, true)
	case config.EmitterOTel:
		return emit.NewOTelEmitter(otel.Tracer("depgraph"))
	case config.EmitterLog:
		fallthrough
	default:
		return emit.NewLogEmitter(os.Stdout, false)
	}
}

// buildResolver constructs the graph.GetDependencies cmd/depgraph drives
// TraceNode with, per cfg.ResolverKind, plus a closer releasing any
// cache resources it opened.
func buildResolver(cfg *config.Config) (graph.GetDependencies, func(), error) {
	noop := func() {}

	switch cfg.ResolverKind {
	case config.ResolverFS:
		r := fs.New(cfg.Root)
		return r.Resolve, noop, nil

	case config.ResolverRegistry:
		r, closer, err := buildRegistryResolver(cfg)
		if err != nil {
			return nil, noop, err
		}
		return r.Resolve, closer, nil

	case config.ResolverLLM:
		r, err := buildLLMResolver(cfg)
		if err != nil {
			return nil, noop, err
		}
		return r, noop, nil

	case config.ResolverChain:
		fsResolver := fs.New(cfg.Root)
		llmResolver, err := buildLLMResolver(cfg)
		if err != nil {
			return nil, noop, err
		}
		regResolver, closer, err := buildRegistryResolver(cfg)
		if err != nil {
			return nil, noop, err
		}
		return resolver.Chain(fsResolver.Resolve, llmResolver, regResolver.Resolve), closer, nil

	default:
		return nil, noop, fmt.Errorf("resolver: unknown kind %q", cfg.ResolverKind)
	}
}

func buildRegistryResolver(cfg *config.Config) (*registry.Resolver, func(), error) {
	c, closer, err := buildCache(cfg)
	if err != nil {
		return nil, func() {}, err
	}
	if c == nil {
		return registry.New(cfg.RegistryBaseURL), closer, nil
	}
	return registry.NewWithCache(cfg.RegistryBaseURL, c), closer, nil
}

func buildCache(cfg *config.Config) (cache.Cache, func(), error) {
	switch cfg.CacheDriver {
	case "":
		return nil, func() {}, nil
	case "memory":
		c := cache.NewMemoryCache()
		return c, func() { _ = c.Close() }, nil
	case "sqlite":
		c, err := cache.NewSQLiteCache(cfg.CacheDSN)
		if err != nil {
			return nil, func() {}, fmt.Errorf("sqlite cache: %w", err)
		}
		return c, func() { _ = c.Close() }, nil
	case "mysql":
		c, err := cache.NewMySQLCache(cfg.CacheDSN)
		if err != nil {
			return nil, func() {}, fmt.Errorf("mysql cache: %w", err)
		}
		return c, func() { _ = c.Close() }, nil
	default:
		return nil, func() {}, fmt.Errorf("unknown cache driver %q", cfg.CacheDriver)
	}
}

func buildLLMResolver(cfg *config.Config) (graph.GetDependencies, error) {
	var chat llm.ChatModel
	switch cfg.LLMProvider {
	case config.ProviderAnthropic:
		chat = anthropic.NewChatModel(cfg.LLMAPIKey, cfg.LLMModel)
	case config.ProviderOpenAI:
		chat = openai.NewChatModel(cfg.LLMAPIKey, cfg.LLMModel)
	case config.ProviderGoogle:
		chat = google.NewChatModel(cfg.LLMAPIKey, cfg.LLMModel)
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.LLMProvider)
	}

	fetch := func(id string) (string, error) {
		data, err := os.ReadFile(id)
		if err != nil {
			return "", fmt.Errorf("reading source for %s: %w", id, err)
		}
		return string(data), nil
	}

	return llm.NewResolver(chat, fetch), nil
}

func writeExport(path string, nodes graph.NodeStore) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := export.WriteDOT(f, nodes); err != nil {
		return fmt.Errorf("writing DOT: %w", err)
	}
	return nil
}
