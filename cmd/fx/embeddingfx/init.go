package embeddingfx

import (
	"context"
	"io"

	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
	"parkfinder/internal/infra"
	"parkfinder/pkg/utils"
)

var Module = fx.Provide(ProvideEmbeddingClient)

// ProvideEmbeddingClient creates the embedding client selected by
// EMBEDDING_PROVIDER. A provider that cannot be built fails startup.
func ProvideEmbeddingClient(lc fx.Lifecycle, cfg infra.Config) (utils.EmbeddingClientInterface, error) {
	log.Info().Msgf("Initializing %s embedding client with model: %s", cfg.Embedding.Provider, cfg.Embedding.Model)

	client, err := utils.NewEmbeddingClient(cfg.Embedding)
	if err != nil {
		return nil, err
	}

	if closer, ok := client.(io.Closer); ok {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return closer.Close()
			},
		})
	}
	return client, nil
}
