package llm

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/voicedesk/voicedesk/internal/config"
	"github.com/voicedesk/voicedesk/internal/logging"
)

// ProviderError is returned when an LLM provider fails.
type ProviderError struct {
	Provider string
	Message  string
	Code     int // HTTP-like status code (401, 429, 500, etc.)
}

func (e *ProviderError) Error() string {
	if e.Code > 0 {
		return fmt.Sprintf("%s: %d %s", e.Provider, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// Registry manages LLM provider clients and resolves model references to clients.
type Registry struct {
	mu       sync.RWMutex
	clients  map[string]Client // provider name → client
	aliases  map[string]string // model alias → provider name
	fallback string            // default provider name
	log      *logging.Logger
}

// NewRegistry creates an empty provider registry.
func NewRegistry(log *logging.Logger) *Registry {
	return &Registry{
		clients: make(map[string]Client),
		aliases: make(map[string]string),
		log:     log.Sub("llm.registry"),
	}
}

// Register adds a client under the given provider name.
func (r *Registry) Register(name string, client Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[name] = client
	r.log.Info().Str("provider", name).Msg("registered LLM provider")
}

// Alias maps a model name/alias to a provider.
// e.g., Alias("sonnet", "claude") means "sonnet" resolves to the "claude" provider.
func (r *Registry) Alias(model, provider string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[model] = provider
}

// SetFallback sets the default provider used when no model/provider match is found.
func (r *Registry) SetFallback(provider string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = provider
}

// Resolve returns the Client for the given model reference.
// Resolution order: exact provider name → alias → fallback.
func (r *Registry) Resolve(model string) (Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Direct provider name match
	if c, ok := r.clients[model]; ok {
		return c, nil
	}

	// Alias lookup
	if provider, ok := r.aliases[model]; ok {
		if c, ok := r.clients[provider]; ok {
			return c, nil
		}
	}

	// Fallback
	if r.fallback != "" {
		if c, ok := r.clients[r.fallback]; ok {
			return c, nil
		}
	}

	return nil, fmt.Errorf("no LLM provider for model %q", model)
}

// List returns all registered provider names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.clients))
	for n := range r.clients {
		names = append(names, n)
	}
	return names
}

// defaultModels are used when a fallback provider runs without an
// explicitly configured model.
var defaultModels = map[string]string{
	"gemini":    "gemini-2.5-flash",
	"openai":    "gpt-4o-mini",
	"anthropic": "claude-sonnet-4-20250514",
}

// NewRegistryFromConfig builds a Registry from the model configuration,
// registering an SDK client for the primary provider and each fallback.
// Clients are registered even without an API key; they fail at call time,
// which lets the failover chain move past an unconfigured provider.
func NewRegistryFromConfig(cfg config.ModelConfig, log *logging.Logger) *Registry {
	reg := NewRegistry(log)

	providers := append([]string{cfg.Provider}, cfg.Fallbacks...)
	for _, name := range providers {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if _, exists := reg.clients[name]; exists {
			continue
		}

		model := defaultModels[name]
		if name == cfg.Provider && cfg.Name != "" {
			model = cfg.Name
		}
		key := providerAPIKey(cfg, name)

		switch name {
		case "gemini":
			reg.Register(name, NewGeminiClient(key, model, log))
		case "openai":
			baseURL := ""
			if name == cfg.Provider {
				baseURL = cfg.BaseURL
			}
			reg.Register(name, NewOpenAIClient(key, baseURL, model, log))
		case "anthropic":
			reg.Register(name, NewAnthropicClient(key, model, log))
		default:
			reg.log.Warn().Str("provider", name).Msg("unknown LLM provider in config")
		}
	}

	if cfg.Name != "" {
		reg.Alias(cfg.Name, cfg.Provider)
	}
	reg.SetFallback(cfg.Provider)
	return reg
}

// NewClientFromConfig builds the client stack for the configured model:
// a registry of SDK providers behind a failover chain.
func NewClientFromConfig(cfg config.ModelConfig, log *logging.Logger) Client {
	reg := NewRegistryFromConfig(cfg, log)
	return NewFailoverClient(reg, cfg.Provider, cfg.Fallbacks, log)
}

// providerAPIKey returns the configured key for the primary provider and
// the provider's conventional environment variable for everything else.
func providerAPIKey(cfg config.ModelConfig, provider string) string {
	if provider == cfg.Provider && cfg.APIKey != "" {
		return cfg.APIKey
	}
	switch provider {
	case "gemini":
		if v := os.Getenv("GEMINI_API_KEY"); v != "" {
			return v
		}
		return os.Getenv("GOOGLE_API_KEY")
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	}
	return ""
}
