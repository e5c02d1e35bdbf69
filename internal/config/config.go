// Package config loads MathSnap settings from an optional YAML file and
// MATHSNAP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/abhisek/mathsnap/internal/llm"
)

// EnvPrefix prefixes every environment override, e.g. MATHSNAP_LLM_PROVIDER.
const EnvPrefix = "MATHSNAP"

// Config holds application configuration.
type Config struct {
	DB      DBConfig      `mapstructure:"db"`
	KV      KVConfig      `mapstructure:"kv"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Capture CaptureConfig `mapstructure:"capture"`
	Log     LogConfig     `mapstructure:"log"`
}

// DBConfig holds sqlite settings. An empty path uses store.DefaultDBPath.
type DBConfig struct {
	Path string `mapstructure:"path"`
}

// KVConfig selects where history and preferences live.
type KVConfig struct {
	Backend string `mapstructure:"backend" validate:"oneof=sqlite badger"`
	// Path is the badger directory. Empty puts it next to the database.
	Path string `mapstructure:"path"`
}

// LLMConfig holds provider settings. An empty provider is discovered from
// the standard API key variables.
type LLMConfig struct {
	Provider       string        `mapstructure:"provider" validate:"omitempty,oneof=gemini anthropic openai openrouter mock"`
	Model          string        `mapstructure:"model"`
	VisionModel    string        `mapstructure:"vision_model"`
	APIKey         string        `mapstructure:"api_key"`
	BaseURL        string        `mapstructure:"base_url" validate:"omitempty,url"`
	MaxAttempts    int           `mapstructure:"max_attempts" validate:"gte=1,lte=10"`
	Timeout        time.Duration `mapstructure:"timeout" validate:"gte=0"`
	ThinkingBudget int           `mapstructure:"thinking_budget" validate:"gte=-1,lte=32768"`
}

// CaptureConfig holds headless capture settings.
type CaptureConfig struct {
	WatchDir string `mapstructure:"watch_dir"`
	// Countdown is the interval between countdown steps.
	Countdown time.Duration `mapstructure:"countdown" validate:"gt=0"`
}

// LogConfig holds logging settings. An empty path uses the state directory.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// DefaultPath returns $XDG_CONFIG_HOME/mathsnap/config.yaml, falling back
// to ~/.config.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "mathsnap", "config.yaml")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db.path", "")
	v.SetDefault("kv.backend", "sqlite")
	v.SetDefault("kv.path", "")
	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.vision_model", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.max_attempts", 1)
	v.SetDefault("llm.timeout", time.Duration(0))
	v.SetDefault("llm.thinking_budget", 0)
	v.SetDefault("capture.watch_dir", "")
	v.SetDefault("capture.countdown", time.Second)
	v.SetDefault("log.path", "")
	v.SetDefault("log.level", "info")
}

// Load reads configuration. An explicit path must exist; otherwise the
// default config file is optional. Environment variables override the file.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else if def := DefaultPath(); def != "" {
		v.SetConfigFile(def)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
			if path != "" || !missing {
				return Config{}, fmt.Errorf("read config %s: %w", v.ConfigFileUsed(), err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s fails %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Provider builds the llm configuration. Without an explicit provider the
// first provider with a standard API key variable set is used, falling back
// to gemini. Keys not set in the config come from the provider's standard
// variable.
func (c Config) Provider() llm.Config {
	cfg := llm.DefaultConfig()
	if c.LLM.Provider != "" {
		cfg.Provider = c.LLM.Provider
	} else if found, ok := llm.DiscoverConfig(); ok {
		cfg = found
	}

	cfg.SetModels(c.LLM.Model, c.LLM.VisionModel)

	key := c.LLM.APIKey
	if key == "" {
		key = llm.APIKeyFromEnv(cfg.Provider)
	}
	if key != "" {
		cfg.SetAPIKey(key)
	}

	if c.LLM.BaseURL != "" {
		switch cfg.Provider {
		case "openai":
			cfg.OpenAI.BaseURL = c.LLM.BaseURL
		case "openrouter":
			cfg.OpenRouter.BaseURL = c.LLM.BaseURL
		}
	}

	cfg.Retry.MaxAttempts = c.LLM.MaxAttempts
	cfg.Timeout = c.LLM.Timeout
	return cfg
}
