package config

import (
	"strings"
	"testing"
)

func fixedEnv(values map[string]string) envLookup {
	return func(key string) string { return values[key] }
}

func TestLoad_DefaultsResolveWithMinimalFlags(t *testing.T) {
	cfg, err := Load([]string{"-entry", "./src/app.js"}, fixedEnv(nil))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ResolverKind != ResolverFS {
		t.Errorf("ResolverKind = %q, want %q", cfg.ResolverKind, ResolverFS)
	}
	if cfg.Concurrency != 4 {
		t.Errorf("Concurrency = %d, want 4", cfg.Concurrency)
	}
	if len(cfg.EntryPoints) != 1 || cfg.EntryPoints[0] != "./src/app.js" {
		t.Errorf("EntryPoints = %v", cfg.EntryPoints)
	}
}

func TestLoad_SplitsCommaSeparatedEntries(t *testing.T) {
	cfg, err := Load([]string{"-entry", "a, b ,c"}, fixedEnv(nil))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := []string{"a", "b", "c"}
	if len(cfg.EntryPoints) != len(want) {
		t.Fatalf("EntryPoints = %v, want %v", cfg.EntryPoints, want)
	}
	for i, id := range want {
		if cfg.EntryPoints[i] != id {
			t.Errorf("EntryPoints[%d] = %q, want %q", i, cfg.EntryPoints[i], id)
		}
	}
}

func TestLoad_MissingEntryPointsIsError(t *testing.T) {
	if _, err := Load(nil, fixedEnv(nil)); err == nil {
		t.Error("expected an error when no -entry is supplied")
	}
}

func TestLoad_UnknownResolverIsError(t *testing.T) {
	_, err := Load([]string{"-entry", "a", "-resolver", "bogus"}, fixedEnv(nil))
	if err == nil || !strings.Contains(err.Error(), "unknown resolver") {
		t.Errorf("Load() error = %v, want unknown resolver", err)
	}
}

func TestLoad_RegistryResolverRequiresURL(t *testing.T) {
	_, err := Load([]string{"-entry", "a", "-resolver", "registry"}, fixedEnv(nil))
	if err == nil || !strings.Contains(err.Error(), "registry-url") {
		t.Errorf("Load() error = %v, want a registry-url complaint", err)
	}
}

func TestLoad_LLMResolverRequiresAPIKey(t *testing.T) {
	_, err := Load([]string{"-entry", "a", "-resolver", "llm"}, fixedEnv(nil))
	if err == nil || !strings.Contains(err.Error(), "API key") {
		t.Errorf("Load() error = %v, want an API key complaint", err)
	}
}

func TestLoad_LLMResolverReadsProviderAPIKeyFromEnv(t *testing.T) {
	cfg, err := Load(
		[]string{"-entry", "a", "-resolver", "llm", "-llm-provider", "openai"},
		fixedEnv(map[string]string{"OPENAI_API_KEY": "sk-test"}),
	)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LLMAPIKey != "sk-test" {
		t.Errorf("LLMAPIKey = %q, want sk-test", cfg.LLMAPIKey)
	}
}

func TestLoad_CacheDriverRequiresDSNExceptForMemory(t *testing.T) {
	if _, err := Load([]string{"-entry", "a", "-cache", "sqlite"}, fixedEnv(nil)); err == nil {
		t.Error("expected an error when sqlite cache has no -cache-dsn")
	}
	cfg, err := Load([]string{"-entry", "a", "-cache", "memory"}, fixedEnv(nil))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.CacheDriver != "memory" {
		t.Errorf("CacheDriver = %q, want memory", cfg.CacheDriver)
	}
}

func TestLoad_UnknownEmitterIsError(t *testing.T) {
	_, err := Load([]string{"-entry", "a", "-emitter", "bogus"}, fixedEnv(nil))
	if err == nil || !strings.Contains(err.Error(), "unknown emitter") {
		t.Errorf("Load() error = %v, want unknown emitter", err)
	}
}

func TestLoad_ZeroConcurrencyIsError(t *testing.T) {
	_, err := Load([]string{"-entry", "a", "-concurrency", "0"}, fixedEnv(nil))
	if err == nil || !strings.Contains(err.Error(), "concurrency") {
		t.Errorf("Load() error = %v, want a concurrency complaint", err)
	}
}
