package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/mathsnap/internal/store"
)

// NewProvider creates the text-solving Provider from configuration.
// It returns the provider wrapped with retry and logging middleware.
// A nil eventRepo skips event recording.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, logger *zap.Logger) (Provider, error) {
	return newProvider(ctx, cfg, false, eventRepo, logger)
}

// NewVisionProvider creates the image-analysis Provider. It differs from
// NewProvider only in using each provider's VisionModel.
func NewVisionProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, logger *zap.Logger) (Provider, error) {
	return newProvider(ctx, cfg, true, eventRepo, logger)
}

func newProvider(ctx context.Context, cfg Config, vision bool, eventRepo store.EventRepo, logger *zap.Logger) (Provider, error) {
	if vision {
		cfg = cfg.forVision()
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// Wrap with middleware: caller → retry → logging → base
	logged := WithLogging(base, cfg.Provider, eventRepo, logger)
	return WithRetry(logged, cfg.Retry), nil
}

// forVision returns a copy of c whose Model fields hold the vision models.
func (c Config) forVision() Config {
	if c.Anthropic.VisionModel != "" {
		c.Anthropic.Model = c.Anthropic.VisionModel
	}
	if c.OpenAI.VisionModel != "" {
		c.OpenAI.Model = c.OpenAI.VisionModel
	}
	if c.Gemini.VisionModel != "" {
		c.Gemini.Model = c.Gemini.VisionModel
	}
	if c.OpenRouter.VisionModel != "" {
		c.OpenRouter.Model = c.OpenRouter.VisionModel
	}
	return c
}
