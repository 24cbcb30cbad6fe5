package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/felixgeelhaar/devgenius/internal/config"
	"github.com/felixgeelhaar/devgenius/internal/llm"
)

// SetupProviders registers every enabled provider, wrapped in the resilience
// layer. The returned closers release the wrappers.
func SetupProviders(ctx context.Context, cfg config.LLMConfig, registry *llm.Registry) ([]io.Closer, error) {
	names := make([]string, 0, len(cfg.Providers))
	for name := range cfg.Providers {
		names = append(names, name)
	}
	sort.Strings(names)

	var closers []io.Closer
	for _, name := range names {
		providerCfg := cfg.Providers[name]
		if providerCfg == nil || !providerCfg.Enabled {
			continue
		}

		timeout := time.Duration(providerCfg.TimeoutSeconds) * time.Second

		var provider llm.Provider
		switch name {
		case "gemini":
			if providerCfg.APIKey == "" {
				slog.Debug("Gemini provider enabled but no API key set")
				continue
			}
			gemini, err := llm.NewGeminiProvider(ctx, llm.GeminiConfig{
				APIKey:  providerCfg.APIKey,
				Model:   providerCfg.Model,
				Timeout: timeout,
			})
			if err != nil {
				return closers, fmt.Errorf("gemini: %w", err)
			}
			provider = gemini

		case "ollama":
			provider = llm.NewOllamaProvider(llm.OllamaConfig{
				BaseURL: providerCfg.URL,
				Model:   providerCfg.Model,
				Timeout: timeout,
			})

		default:
			slog.Warn("ignoring unknown LLM provider", "name", name)
			continue
		}

		resilient := llm.NewResilientProvider(provider, llm.DefaultResilience())
		registry.Register(name, resilient)
		closers = append(closers, resilient)
		slog.Info("registered LLM provider", "name", name, "model", providerCfg.Model)
	}

	if cfg.DefaultProvider != "" && cfg.DefaultProvider != llm.AutoProvider {
		if err := registry.SetDefault(cfg.DefaultProvider); err != nil {
			slog.Warn("default LLM provider unavailable", "name", cfg.DefaultProvider, "error", err)
		}
	}

	return closers, nil
}
