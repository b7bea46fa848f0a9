package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
	"parkfinder/cmd/fx/configfx"
	"parkfinder/cmd/fx/dbfx"
	"parkfinder/cmd/fx/embeddingfx"
	"parkfinder/cmd/fx/metricsfx"
	"parkfinder/cmd/fx/npsfx"
	"parkfinder/cmd/fx/parksfx"
	"parkfinder/internal/api/controllers"
	"parkfinder/internal/infra"
	"parkfinder/pkg/middleware"
)

func main() {
	app := fx.New(
		configfx.Module,
		metricsfx.Module,
		dbfx.Module,
		npsfx.Module,
		embeddingfx.Module,
		parksfx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, cfg infra.Config, engine *gin.Engine) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info().Msgf("Starting HTTP server at :%s", cfg.Port)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal().Err(err).Msg("Failed to start server")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

func ProvideRouter(
	registry *prometheus.Registry,
	searchController *controllers.SearchController,
	parksController *controllers.ParksController,
	healthController *controllers.HealthController) *gin.Engine {

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())

	RegisterRoutes(r, searchController, parksController, healthController)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	return r
}

func RegisterRoutes(r *gin.Engine,
	searchController *controllers.SearchController,
	parksController *controllers.ParksController,
	healthController *controllers.HealthController) {

	r.GET("/healthz", healthController.Health)

	api := r.Group("/api")
	api.POST("/search", searchController.SearchParks)
	api.GET("/parks/:parkCode", parksController.GetParkByCode)
}
