package utils

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIEmbeddingClient implements EmbeddingClientInterface with the OpenAI embeddings API.
type OpenAIEmbeddingClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIEmbeddingClient(apiKey, model string) *OpenAIEmbeddingClient {
	if model == "" {
		model = string(openai.SmallEmbedding3)
	}
	return &OpenAIEmbeddingClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (c *OpenAIEmbeddingClient) GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(c.model),
	})
	if err != nil {
		return pgvector.Vector{}, fmt.Errorf("openai: %w: %v", ErrEmbeddingFailed, err)
	}
	if len(resp.Data) == 0 {
		return pgvector.Vector{}, fmt.Errorf("openai: no embedding data: %w", ErrEmbeddingFailed)
	}
	return checkEmbedding("openai", resp.Data[0].Embedding)
}

func (c *OpenAIEmbeddingClient) Name() string {
	return "openai/" + c.model
}
