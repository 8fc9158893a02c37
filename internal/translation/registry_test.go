package translation

import (
	"errors"
	"testing"

	"wirsuchen.de/backend/internal/config"
)

func TestRegistryResolvesDefault(t *testing.T) {
	t.Parallel()

	r := NewRegistry(" Stub-Generator ")
	if err := r.Register(&stubGenerator{}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	g, err := r.Generator("")
	if err != nil || g.Name() != "stub-generator" {
		t.Fatalf("Generator(\"\") = %v, %v", g, err)
	}
	if _, err := r.Generator("missing"); err == nil {
		t.Fatalf("expected error for unknown generator")
	}
}

func TestEmptyRegistry(t *testing.T) {
	t.Parallel()

	if _, err := NewRegistry("").Generator(""); !errors.Is(err, ErrNoBackend) {
		t.Fatalf("Generator() error = %v, want ErrNoBackend", err)
	}
}

func TestRegistryFromConfigFallsBackToLocal(t *testing.T) {
	t.Parallel()

	r := NewRegistryFromConfig(&config.Config{GenerativeProvider: "openai"})
	if r.DefaultName() != DefaultGeneratorName {
		t.Fatalf("DefaultName() = %q, want %q without an OpenAI key", r.DefaultName(), DefaultGeneratorName)
	}

	r = NewRegistryFromConfig(&config.Config{GenerativeProvider: "openai", OpenAIAPIKey: "sk-test", OpenAIModel: "gpt-4o-mini"})
	if r.DefaultName() != "openai" {
		t.Fatalf("DefaultName() = %q, want openai", r.DefaultName())
	}
	if names := r.Names(); len(names) != 2 {
		t.Fatalf("Names() = %v, want openai and local", names)
	}
}
