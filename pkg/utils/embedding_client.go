package utils

import (
	"context"
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"
)

// EmbeddingClientInterface turns free text into a fixed-length vector.
// Implementations may be slow and may fail; callers bound their concurrency.
type EmbeddingClientInterface interface {
	GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error)
	Name() string
}

// EmbeddingConfig selects and configures an embedding provider.
type EmbeddingConfig struct {
	Provider   string
	APIKey     string
	Model      string
	BaseURL    string
	Dimensions int
}

// NewEmbeddingClient builds the client named by cfg.Provider.
func NewEmbeddingClient(cfg EmbeddingConfig) (EmbeddingClientInterface, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required when using the openai provider")
		}
		return NewOpenAIEmbeddingClient(cfg.APIKey, cfg.Model), nil
	case "gemini":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required when using the gemini provider")
		}
		return NewGeminiEmbeddingClient(cfg.APIKey, cfg.Model)
	case "ollama":
		return NewOllamaEmbeddingClient(cfg.BaseURL, cfg.Model)
	case "local":
		return NewHashEmbeddingClient(cfg.Dimensions), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s. Use 'openai', 'gemini', 'ollama' or 'local'", cfg.Provider)
	}
}

func checkEmbedding(provider string, values []float32) (pgvector.Vector, error) {
	if len(values) == 0 {
		return pgvector.Vector{}, fmt.Errorf("%s: empty embedding returned: %w", provider, ErrEmbeddingFailed)
	}
	return pgvector.NewVector(values), nil
}
