package parksfx

import (
	"go.uber.org/fx"
	"parkfinder/internal/api/controllers"
	"parkfinder/internal/infra"
	"parkfinder/internal/metrics"
	"parkfinder/internal/repositories"
	"parkfinder/internal/services"
	"parkfinder/pkg/utils"
)

var Module = fx.Provide(
	provideSearchService,
	provideParkService,
	controllers.NewSearchController,
	controllers.NewParksController,
	controllers.NewHealthController)

func provideSearchService(
	cfg infra.Config,
	parkRepo repositories.ParkRepository,
	embedder utils.EmbeddingClientInterface,
	npsAPI services.NPSClientInterface,
	m *metrics.Metrics,
) services.SearchServiceInterface {
	return services.NewSearchService(parkRepo, embedder, npsAPI, m, services.SearchOptions{
		DefaultLimit: cfg.SearchDefaultLimit,
		MaxLimit:     cfg.SearchMaxLimit,
	})
}

func provideParkService(parkRepo repositories.ParkRepository, npsAPI services.NPSClientInterface) services.ParkServiceInterface {
	return services.NewParkService(parkRepo, npsAPI)
}
