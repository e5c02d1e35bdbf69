package llm

import (
	"fmt"
	"os"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "gemini", "anthropic", "openai", "openrouter", "mock"
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single solve request including retries.
	// Zero means no client-side timeout; the caller's context decides.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey      string
	Model       string // Default: "claude-sonnet"
	VisionModel string // Default: "claude-sonnet"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey      string
	Model       string // Default: "gpt-4o"
	VisionModel string // Default: "gpt-4o"
	BaseURL     string // Optional. Override for compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey      string
	Model       string // Default: "gemini-pro"
	VisionModel string // Default: "gemini-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey      string
	Model       string // Default: "google/gemini-3-pro-preview"
	VisionModel string // Default: "google/gemini-3-flash-preview"
	BaseURL     string // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults.
// Solving is user-driven, so a failed request is surfaced immediately
// (one attempt) and the user decides whether to retry.
func DefaultConfig() Config {
	return Config{
		Provider: "gemini",
		Anthropic: AnthropicConfig{
			Model:       "claude-sonnet",
			VisionModel: "claude-sonnet",
		},
		OpenAI: OpenAIConfig{
			Model:       "gpt-4o",
			VisionModel: "gpt-4o",
		},
		Gemini: GeminiConfig{
			Model:       "gemini-pro",
			VisionModel: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model:       "google/gemini-3-pro-preview",
			VisionModel: "google/gemini-3-flash-preview",
		},
		Retry: RetryConfig{
			MaxAttempts: 1,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
	}
}

// apiKeyEnv lists the standard API key variables in discovery order.
var apiKeyEnv = []struct {
	provider string
	env      string
}{
	{"gemini", "GEMINI_API_KEY"},
	{"openai", "OPENAI_API_KEY"},
	{"anthropic", "ANTHROPIC_API_KEY"},
	{"openrouter", "OPENROUTER_API_KEY"},
}

// APIKeyFromEnv returns the standard environment API key for provider.
func APIKeyFromEnv(provider string) string {
	for _, e := range apiKeyEnv {
		if e.provider == provider {
			return os.Getenv(e.env)
		}
	}
	return ""
}

// DiscoverConfig probes standard API key env vars in priority order
// (Gemini → OpenAI → Anthropic → OpenRouter) and returns a Config for the
// first provider whose key is found. Returns (Config{}, false) if none found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	for _, e := range apiKeyEnv {
		if k := os.Getenv(e.env); k != "" {
			cfg.Provider = e.provider
			cfg.SetAPIKey(k)
			return cfg, true
		}
	}
	return Config{}, false
}

// SetModels overrides the text and vision model of the selected provider.
// Empty values keep the defaults.
func (c *Config) SetModels(model, vision string) {
	set := func(m, v *string) {
		if model != "" {
			*m = model
		}
		if vision != "" {
			*v = vision
		}
	}
	switch c.Provider {
	case "anthropic":
		set(&c.Anthropic.Model, &c.Anthropic.VisionModel)
	case "openai":
		set(&c.OpenAI.Model, &c.OpenAI.VisionModel)
	case "gemini":
		set(&c.Gemini.Model, &c.Gemini.VisionModel)
	case "openrouter":
		set(&c.OpenRouter.Model, &c.OpenRouter.VisionModel)
	}
}

// APIKey returns the API key of the selected provider.
func (c Config) APIKey() string {
	switch c.Provider {
	case "anthropic":
		return c.Anthropic.APIKey
	case "openai":
		return c.OpenAI.APIKey
	case "gemini":
		return c.Gemini.APIKey
	case "openrouter":
		return c.OpenRouter.APIKey
	}
	return ""
}

// SetAPIKey sets the API key of the selected provider.
func (c *Config) SetAPIKey(key string) {
	switch c.Provider {
	case "anthropic":
		c.Anthropic.APIKey = key
	case "openai":
		c.OpenAI.APIKey = key
	case "gemini":
		c.Gemini.APIKey = key
	case "openrouter":
		c.OpenRouter.APIKey = key
	}
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case "anthropic", "openai", "gemini", "openrouter":
		if c.APIKey() == "" {
			return fmt.Errorf("an API key is required for the %s provider", c.Provider)
		}
	case "mock":
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
