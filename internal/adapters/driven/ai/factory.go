// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"fmt"

	geminiembed "github.com/atelier-labs/showroom/internal/adapters/driven/embedding/gemini"
	openaiembed "github.com/atelier-labs/showroom/internal/adapters/driven/embedding/openai"
	geminillm "github.com/atelier-labs/showroom/internal/adapters/driven/llm/gemini"
	openaillm "github.com/atelier-labs/showroom/internal/adapters/driven/llm/openai"
	"github.com/atelier-labs/showroom/internal/core/domain"
	"github.com/atelier-labs/showroom/internal/core/ports/driven"
)

// Provider identifiers accepted in configuration.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// EmbeddingConfig selects and configures an embedding provider.
type EmbeddingConfig struct {
	Provider   string
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
}

// LLMConfig selects and configures an LLM provider.
type LLMConfig struct {
	Provider string
	APIKey   string
	BaseURL  string
	Model    string
}

// CreateEmbeddingService creates the configured embedding service.
// Returns (nil, nil) when no provider is configured: callers degrade to
// text-only retrieval rather than failing.
func CreateEmbeddingService(cfg EmbeddingConfig) (driven.EmbeddingService, error) {
	if cfg.Provider == "" || cfg.APIKey == "" {
		return nil, nil
	}

	switch cfg.Provider {
	case ProviderGemini:
		svc, err := geminiembed.NewEmbeddingService(geminiembed.Config{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
		}
		return svc, nil

	case ProviderOpenAI:
		svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
		}
		return svc, nil

	default:
		return nil, fmt.Errorf("%w: unsupported embedding provider %q",
			domain.ErrEmbeddingUnavailable, cfg.Provider)
	}
}

// CreateLLMService creates the configured LLM service.
// Returns (nil, nil) when no provider is configured: callers skip the rerank
// stage rather than failing.
func CreateLLMService(cfg LLMConfig) (driven.LLMService, error) {
	if cfg.Provider == "" || cfg.APIKey == "" {
		return nil, nil
	}

	switch cfg.Provider {
	case ProviderGemini:
		svc, err := geminillm.NewLLMService(geminillm.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
		}
		return svc, nil

	case ProviderOpenAI:
		svc, err := openaillm.NewLLMService(openaillm.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
		}
		return svc, nil

	default:
		return nil, fmt.Errorf("%w: unsupported LLM provider %q",
			domain.ErrLLMUnavailable, cfg.Provider)
	}
}
