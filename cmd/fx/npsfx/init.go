package npsfx

import (
	"net/http"

	"go.uber.org/fx"
	"parkfinder/internal/infra"
	"parkfinder/internal/metrics"
	"parkfinder/internal/services"
	"parkfinder/pkg/nps"
)

var Module = fx.Provide(
	fx.Annotate(provideNPSClient, fx.As(new(services.NPSClientInterface))))

func provideNPSClient(cfg infra.Config, m *metrics.Metrics) *nps.Client {
	return nps.NewClient(cfg.NPSAPIURL, cfg.NPSAPIKey,
		nps.WithHTTPClient(&http.Client{Timeout: cfg.NPSTimeout}),
		nps.WithRateLimit(cfg.NPSRateLimit, cfg.NPSRateBurst),
		nps.WithObserver(m.ObserveNPSRequest),
	)
}
