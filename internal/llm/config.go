package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted by SKILLCHECK_LLM_PROVIDER.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config selects a provider and carries per-provider credentials.
type Config struct {
	Provider string

	Anthropic  ProviderConfig
	OpenAI     ProviderConfig
	Gemini     ProviderConfig
	OpenRouter ProviderConfig
	Retry      RetryConfig

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration
}

// ProviderConfig holds the credentials and model for one provider.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string // OpenAI-compatible endpoints only
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  ProviderConfig{Model: "claude-haiku"},
		OpenAI:     ProviderConfig{Model: "gpt-4o-mini"},
		Gemini:     ProviderConfig{Model: "gemini-flash"},
		OpenRouter: ProviderConfig{Model: "google/gemini-2.0-flash-001", BaseURL: defaultOpenRouterBaseURL},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		// Bank generation asks for a whole batch of questions in one call.
		Timeout: 2 * time.Minute,
	}
}

// ConfigFromEnv builds a Config from SKILLCHECK_* variables. When no
// provider-specific key is set it falls back to the vendors' standard key
// variables (see DiscoverConfig).
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	explicit := false

	if p := os.Getenv("SKILLCHECK_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
		explicit = true
	}

	for name, pc := range cfg.providers() {
		prefix := "SKILLCHECK_" + envName(name)
		if k := os.Getenv(prefix + "_API_KEY"); k != "" {
			pc.APIKey = k
		}
		if m := os.Getenv(prefix + "_MODEL"); m != "" {
			pc.Model = m
		}
		if u := os.Getenv(prefix + "_BASE_URL"); u != "" {
			pc.BaseURL = u
		}
	}

	if !explicit && cfg.selected().APIKey == "" {
		if found, ok := discover(cfg); ok {
			return found
		}
	}
	return cfg
}

// DiscoverConfig probes the vendors' standard key variables in order
// (Anthropic, OpenAI, Gemini, OpenRouter) and selects the first provider
// with a key. Returns false if none is set.
func DiscoverConfig() (Config, bool) {
	return discover(DefaultConfig())
}

func discover(cfg Config) (Config, bool) {
	order := []struct {
		provider string
		env      string
	}{
		{ProviderAnthropic, "ANTHROPIC_API_KEY"},
		{ProviderOpenAI, "OPENAI_API_KEY"},
		{ProviderGemini, "GEMINI_API_KEY"},
		{ProviderOpenRouter, "OPENROUTER_API_KEY"},
	}
	for _, o := range order {
		if k := os.Getenv(o.env); k != "" {
			cfg.Provider = o.provider
			cfg.providers()[o.provider].APIKey = k
			return cfg, true
		}
	}
	return Config{}, false
}

// Validate checks that the selected provider is known and has a key.
func (c Config) Validate() error {
	if c.Provider == ProviderMock {
		return nil
	}
	pc, ok := c.providers()[c.Provider]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.Provider)
	}
	if pc.APIKey == "" {
		return fmt.Errorf("%w: set SKILLCHECK_%s_API_KEY for the %s provider", ErrNoAPIKey, envName(c.Provider), c.Provider)
	}
	return nil
}

func (c *Config) providers() map[string]*ProviderConfig {
	return map[string]*ProviderConfig{
		ProviderAnthropic:  &c.Anthropic,
		ProviderOpenAI:     &c.OpenAI,
		ProviderGemini:     &c.Gemini,
		ProviderOpenRouter: &c.OpenRouter,
	}
}

func (c Config) selected() ProviderConfig {
	if pc, ok := c.providers()[c.Provider]; ok {
		return *pc
	}
	return ProviderConfig{}
}

func envName(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI"
	case ProviderOpenRouter:
		return "OPENROUTER"
	case ProviderGemini:
		return "GEMINI"
	default:
		return "ANTHROPIC"
	}
}
