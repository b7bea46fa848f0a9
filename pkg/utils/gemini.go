package utils

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/pgvector/pgvector-go"
	"google.golang.org/api/option"
)

// GeminiEmbeddingClient implements EmbeddingClientInterface using Google's embedding models.
type GeminiEmbeddingClient struct {
	client *genai.Client
	model  string
}

func NewGeminiEmbeddingClient(apiKey, model string) (*GeminiEmbeddingClient, error) {
	if model == "" {
		model = "text-embedding-004"
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiEmbeddingClient{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiEmbeddingClient) GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	res, err := c.client.EmbeddingModel(c.model).EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return pgvector.Vector{}, fmt.Errorf("gemini: %w: %v", ErrEmbeddingFailed, err)
	}
	if res == nil || res.Embedding == nil {
		return pgvector.Vector{}, fmt.Errorf("gemini: no embedding in response: %w", ErrEmbeddingFailed)
	}
	return checkEmbedding("gemini", res.Embedding.Values)
}

func (c *GeminiEmbeddingClient) Name() string {
	return "gemini/" + c.model
}

// Close closes the Gemini client
func (c *GeminiEmbeddingClient) Close() error {
	return c.client.Close()
}
