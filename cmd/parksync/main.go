package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"
	"parkfinder/cmd/fx/configfx"
	"parkfinder/cmd/fx/dbfx"
	"parkfinder/cmd/fx/embeddingfx"
	"parkfinder/cmd/fx/metricsfx"
	"parkfinder/cmd/fx/npsfx"
	"parkfinder/cmd/fx/syncfx"
	"parkfinder/internal/infra"
	"parkfinder/internal/metrics"
	"parkfinder/internal/services"
)

const pushJob = "parksync"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Error().Err(err).Msg("Sync error")
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "parksync",
		Usage: "Fetch the NPS park catalog, embed parks without an embedding and upsert them",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "batch-size",
				Aliases: []string{"b"},
				Usage:   "Parks embedded concurrently per batch (overrides SYNC_BATCH_SIZE)",
			},
			&cli.IntFlag{
				Name:  "page-size",
				Usage: "Parks requested per NPS page (overrides SYNC_PAGE_SIZE)",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error), overrides LOG_LEVEL",
			},
			&cli.BoolFlag{
				Name:  "migrate",
				Usage: "Create the schema before syncing (overrides DB_AUTO_MIGRATE)",
				Value: true,
			},
		},
		Action: syncCommand,
	}
}

// syncOptions is the fx graph of the sync command. flags decorates the loaded
// config; targets are filled by fx.Populate.
func syncOptions(flags fx.Option, targets ...interface{}) fx.Option {
	return fx.Options(
		fx.NopLogger,
		configfx.Module,
		flags,
		metricsfx.Module,
		dbfx.Module,
		npsfx.Module,
		embeddingfx.Module,
		syncfx.Module,
		fx.Populate(targets...),
	)
}

func syncCommand(c *cli.Context) error {
	var (
		cfg         infra.Config
		registry    *prometheus.Registry
		syncService services.SyncServiceInterface
	)

	app := fx.New(syncOptions(
		fx.Decorate(func(cfg infra.Config) infra.Config {
			return applyFlags(c, cfg)
		}),
		&cfg, &registry, &syncService,
	))
	if err := app.Err(); err != nil {
		return fmt.Errorf("startup: %w", err)
	}

	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}

	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("startup: %w", err)
	}
	defer func() {
		if err := app.Stop(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Shutdown error")
		}
	}()

	log.Info().Msg("Starting park sync...")
	tally, err := syncService.Run(ctx)
	pushMetrics(ctx, cfg.PushgatewayURL, registry)
	if err != nil {
		return err
	}

	log.Info().
		Int("total", tally.Total).
		Int("synced", tally.Synced).
		Int("skipped", tally.Skipped).
		Int("errors", tally.Errors).
		Msg("Park sync finished")
	return nil
}

// pushMetrics hands the run's metrics to the Pushgateway. A failed push never
// fails the sync.
func pushMetrics(ctx context.Context, url string, registry *prometheus.Registry) {
	if url == "" {
		return
	}
	if err := metrics.Push(ctx, url, pushJob, registry); err != nil {
		log.Warn().Err(err).Msg("Could not push sync metrics")
		return
	}
	log.Info().Msgf("Pushed sync metrics to %s", url)
}

func applyFlags(c *cli.Context, cfg infra.Config) infra.Config {
	if c.IsSet("batch-size") {
		cfg.SyncBatchSize = c.Int("batch-size")
	}
	if c.IsSet("page-size") {
		cfg.SyncPageSize = c.Int("page-size")
	}
	if c.IsSet("migrate") {
		cfg.DBAutoMigrate = c.Bool("migrate")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
		infra.InitLogger(cfg.LogLevel, cfg.LogFormat)
	}
	return cfg
}
