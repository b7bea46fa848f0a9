package utils

import (
	"context"
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"
	"github.com/tmc/langchaingo/embeddings"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
)

// OllamaEmbeddingClient talks to any OpenAI-compatible embedding endpoint,
// Ollama's /v1 API by default, through langchaingo.
type OllamaEmbeddingClient struct {
	embedder embeddings.Embedder
	model    string
}

func NewOllamaEmbeddingClient(baseURL, model string) (*OllamaEmbeddingClient, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "nomic-embed-text"
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if !strings.HasSuffix(baseURL, "/v1") {
		baseURL += "/v1"
	}

	// Local servers don't check the token but the client refuses an empty one.
	llm, err := lcopenai.New(
		lcopenai.WithBaseURL(baseURL),
		lcopenai.WithToken("none"),
		lcopenai.WithEmbeddingModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(llm, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama embedder: %w", err)
	}

	return &OllamaEmbeddingClient{
		embedder: embedder,
		model:    model,
	}, nil
}

func (c *OllamaEmbeddingClient) GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	values, err := c.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return pgvector.Vector{}, fmt.Errorf("ollama: %w: %v", ErrEmbeddingFailed, err)
	}
	return checkEmbedding("ollama", values)
}

func (c *OllamaEmbeddingClient) Name() string {
	return "ollama/" + c.model
}
