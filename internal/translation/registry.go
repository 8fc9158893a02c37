package translation

import (
	"fmt"
	"sort"
	"strings"

	"wirsuchen.de/backend/internal/config"
)

// DefaultGeneratorName is used when no provider is configured.
const DefaultGeneratorName = "local"

// Registry stores generative backends and resolves the configured default.
type Registry struct {
	generators       map[string]Generator
	defaultGenerator string
}

func NewRegistry(defaultGenerator string) *Registry {
	normalizedDefault := normalizeProviderName(defaultGenerator)
	if normalizedDefault == "" {
		normalizedDefault = DefaultGeneratorName
	}

	return &Registry{
		generators:       make(map[string]Generator),
		defaultGenerator: normalizedDefault,
	}
}

// NewRegistryFromConfig registers every generator whose credentials are
// present. The local endpoint needs none and is always available.
func NewRegistryFromConfig(cfg *config.Config) *Registry {
	registry := NewRegistry(cfg.GenerativeProvider)
	if strings.TrimSpace(cfg.OpenAIAPIKey) != "" {
		_ = registry.Register(NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel))
	}
	if strings.TrimSpace(cfg.AnthropicAPIKey) != "" {
		_ = registry.Register(NewAnthropicGenerator(cfg.AnthropicAPIKey, cfg.AnthropicBaseURL, cfg.AnthropicModel))
	}
	_ = registry.Register(NewLocalGenerator(cfg.TranslationEndpoint, cfg.TranslationModel))

	if _, exists := registry.generators[registry.defaultGenerator]; !exists {
		registry.defaultGenerator = DefaultGeneratorName
	}
	return registry
}

// Register adds one generator.
func (r *Registry) Register(generator Generator) error {
	if r == nil {
		return fmt.Errorf("registry is nil")
	}
	if generator == nil {
		return fmt.Errorf("generator is nil")
	}
	name := normalizeProviderName(generator.Name())
	if name == "" {
		return fmt.Errorf("generator name is required")
	}
	r.generators[name] = generator
	return nil
}

// Generator resolves a generator by name. Empty names use the default.
func (r *Registry) Generator(name string) (Generator, error) {
	if r == nil {
		return nil, fmt.Errorf("registry is nil")
	}
	if len(r.generators) == 0 {
		return nil, ErrNoBackend
	}

	resolvedName := normalizeProviderName(name)
	if resolvedName == "" {
		resolvedName = r.defaultGenerator
	}
	generator, ok := r.generators[resolvedName]
	if ok {
		return generator, nil
	}

	return nil, fmt.Errorf("generator %q is not registered (available: %s)", resolvedName, strings.Join(r.Names(), ", "))
}

func (r *Registry) DefaultName() string {
	if r == nil {
		return ""
	}
	return r.defaultGenerator
}

func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeProviderName(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
