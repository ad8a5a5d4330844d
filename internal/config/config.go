// Package config loads and validates process configuration for
// cmd/depgraph: resolver choice, entry points, concurrency limits, and
// emitter selection, from flags and environment variables.
package config

import (
	"flag"
	"fmt"
	"strings"
)

// Resolver kinds accepted by -resolver.
const (
	ResolverFS       = "fs"
	ResolverRegistry = "registry"
	ResolverLLM      = "llm"
	ResolverChain    = "chain"
)

// Emitter kinds accepted by -emitter.
const (
	EmitterNull = "null"
	EmitterLog  = "log"
	EmitterJSON = "log-json"
	EmitterOTel = "otel"
)

// LLM providers accepted by -llm-provider.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGoogle    = "google"
)

// Config is the fully parsed and validated process configuration.
type Config struct {
	// ResolverKind selects which resolver.GetDependencies implementation
	// cmd/depgraph wires up: "fs", "registry", "llm", or "chain" (fs,
	// falling back to llm, falling back to registry).
	ResolverKind string

	// Root is the filesystem root resolver/fs walks from.
	Root string

	// RegistryBaseURL is the base URL resolver/registry fetches manifests
	// from.
	RegistryBaseURL string

	// CacheDriver selects resolver/registry/cache's backend: "memory",
	// "sqlite", or "mysql". Empty disables the cache.
	CacheDriver string

	// CacheDSN is the sqlite file path or MySQL DSN for CacheDriver.
	CacheDSN string

	// LLMProvider selects which resolver/llm adapter package backs the
	// fallback resolver.
	LLMProvider string

	// LLMAPIKey authenticates against LLMProvider. Loaded from the
	// provider's own environment variable (ANTHROPIC_API_KEY,
	// OPENAI_API_KEY, GOOGLE_API_KEY), never from a flag.
	LLMAPIKey string

	// LLMModel overrides the provider's default model name.
	LLMModel string

	// EntryPoints are the node-ids TraceNode is first called on.
	EntryPoints []string

	// Concurrency bounds how many entry points cmd/depgraph traces
	// concurrently.
	Concurrency int

	// EmitterKind selects the emit.Emitter cmd/depgraph subscribes to
	// the graph's event bus.
	EmitterKind string

	// ExportPath, if non-empty, is where cmd/depgraph writes a DOT
	// rendering of the final node store after tracing completes.
	ExportPath string

	// MetricsAddr, if non-empty, is the address cmd/depgraph serves
	// Prometheus metrics on (e.g. ":9090").
	MetricsAddr string
}

// envLookup abstracts os.Getenv so tests can supply a fixed environment
// without mutating the process's real one.
type envLookup func(key string) string

// Load parses args (excluding the program name, i.e. os.Args[1:]) and
// env-provided API keys into a validated Config.
func Load(args []string, getenv envLookup) (*Config, error) {
	fs := flag.NewFlagSet("depgraph", flag.ContinueOnError)

	resolverKind := fs.String("resolver", ResolverFS, "resolver to use: fs, registry, llm, or chain")
	root := fs.String("root", ".", "filesystem root for the fs resolver")
	registryBaseURL := fs.String("registry-url", "", "base URL for the registry resolver")
	cacheDriver := fs.String("cache", "", "registry cache backend: memory, sqlite, or mysql")
	cacheDSN := fs.String("cache-dsn", "", "sqlite file path or MySQL DSN for the registry cache")
	llmProvider := fs.String("llm-provider", ProviderAnthropic, "llm resolver provider: anthropic, openai, or google")
	llmModel := fs.String("llm-model", "", "model name override for the llm resolver provider")
	entryPoints := fs.String("entry", "", "comma-separated entry node-ids")
	concurrency := fs.Int("concurrency", 4, "maximum concurrently traced entry points")
	emitterKind := fs.String("emitter", EmitterLog, "event emitter: null, log, log-json, or otel")
	exportPath := fs.String("export", "", "write a DOT rendering of the final graph to this path")
	metricsAddr := fs.String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("config: parsing flags: %w", err)
	}

	cfg := &Config{
		ResolverKind:    *resolverKind,
		Root:            *root,
		RegistryBaseURL: *registryBaseURL,
		CacheDriver:     *cacheDriver,
		CacheDSN:        *cacheDSN,
		LLMProvider:     *llmProvider,
		LLMModel:        *llmModel,
		EntryPoints:     splitEntries(*entryPoints),
		Concurrency:     *concurrency,
		EmitterKind:     *emitterKind,
		ExportPath:      *exportPath,
		MetricsAddr:     *metricsAddr,
	}

	cfg.LLMAPIKey = apiKeyEnvVar(getenv, cfg.LLMProvider)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitEntries(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	entries := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			entries = append(entries, p)
		}
	}
	return entries
}

func apiKeyEnvVar(getenv envLookup, provider string) string {
	if getenv == nil {
		return ""
	}
	switch provider {
	case ProviderAnthropic:
		return getenv("ANTHROPIC_API_KEY")
	case ProviderOpenAI:
		return getenv("OPENAI_API_KEY")
	case ProviderGoogle:
		return getenv("GOOGLE_API_KEY")
	default:
		return ""
	}
}

// validate fails fast on any configuration that would otherwise surface
// as a confusing runtime error deep inside resolver or graph code.
func (c *Config) validate() error {
	switch c.ResolverKind {
	case ResolverFS, ResolverRegistry, ResolverLLM, ResolverChain:
	default:
		return fmt.Errorf("config: unknown resolver %q", c.ResolverKind)
	}

	if (c.ResolverKind == ResolverRegistry || c.ResolverKind == ResolverChain) && c.RegistryBaseURL == "" {
		return fmt.Errorf("config: resolver %q requires -registry-url", c.ResolverKind)
	}

	if (c.ResolverKind == ResolverLLM || c.ResolverKind == ResolverChain) && c.LLMAPIKey == "" {
		return fmt.Errorf("config: resolver %q requires an API key for provider %q", c.ResolverKind, c.LLMProvider)
	}

	switch c.LLMProvider {
	case ProviderAnthropic, ProviderOpenAI, ProviderGoogle:
	default:
		return fmt.Errorf("config: unknown llm provider %q", c.LLMProvider)
	}

	switch c.CacheDriver {
	case "", "memory", "sqlite", "mysql":
	default:
		return fmt.Errorf("config: unknown cache driver %q", c.CacheDriver)
	}
	if (c.CacheDriver == "sqlite" || c.CacheDriver == "mysql") && c.CacheDSN == "" {
		return fmt.Errorf("config: cache driver %q requires -cache-dsn", c.CacheDriver)
	}

	switch c.EmitterKind {
	case EmitterNull, EmitterLog, EmitterJSON, EmitterOTel:
	default:
		return fmt.Errorf("config: unknown emitter %q", c.EmitterKind)
	}

	if len(c.EntryPoints) == 0 {
		return fmt.Errorf("config: at least one -entry node-id is required")
	}

	if c.Concurrency < 1 {
		return fmt.Errorf("config: -concurrency must be at least 1, got %d", c.Concurrency)
	}

	return nil
}
