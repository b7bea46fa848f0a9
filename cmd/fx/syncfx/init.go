package syncfx

import (
	"go.uber.org/fx"
	"parkfinder/internal/infra"
	"parkfinder/internal/metrics"
	"parkfinder/internal/repositories"
	"parkfinder/internal/services"
	"parkfinder/pkg/utils"
)

var Module = fx.Provide(provideSyncService)

func provideSyncService(
	cfg infra.Config,
	parkRepo repositories.ParkRepository,
	npsAPI services.NPSClientInterface,
	embedder utils.EmbeddingClientInterface,
	m *metrics.Metrics,
) services.SyncServiceInterface {
	return services.NewSyncService(parkRepo, npsAPI, embedder, m, services.SyncOptions{
		BatchSize: cfg.SyncBatchSize,
		PageSize:  cfg.SyncPageSize,
	})
}
