package utils

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"

	"github.com/pgvector/pgvector-go"
)

const DefaultHashDimensions = 384

// HashEmbeddingClient is an offline vectorizer: every word is hashed into one
// signed bucket and the vector is normalized. Texts that share words end up
// close in cosine distance. Useful for development and for running the sync
// job without provider credentials.
type HashEmbeddingClient struct {
	dimensions int
}

func NewHashEmbeddingClient(dimensions int) *HashEmbeddingClient {
	if dimensions <= 0 {
		dimensions = DefaultHashDimensions
	}
	return &HashEmbeddingClient{dimensions: dimensions}
}

func (c *HashEmbeddingClient) GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	if err := ctx.Err(); err != nil {
		return pgvector.Vector{}, err
	}

	words := strings.Fields(strings.ToLower(strings.TrimSpace(text)))
	if len(words) == 0 {
		return pgvector.Vector{}, fmt.Errorf("local: no words to embed: %w", ErrEmbeddingFailed)
	}

	vector := make([]float32, c.dimensions)
	for _, word := range words {
		hash := hashWord(word)
		sign := float32(1)
		if hash&(1<<31) != 0 {
			sign = -1
		}
		vector[int(hash%uint32(c.dimensions))] += sign
	}

	var magnitude float64
	for _, val := range vector {
		magnitude += float64(val) * float64(val)
	}
	magnitude = math.Sqrt(magnitude)
	if magnitude > 0 {
		for i := range vector {
			vector[i] = float32(float64(vector[i]) / magnitude)
		}
	}

	return pgvector.NewVector(vector), nil
}

func (c *HashEmbeddingClient) Name() string {
	return fmt.Sprintf("local/hash-%d", c.dimensions)
}

func hashWord(word string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(word))
	return h.Sum32()
}
