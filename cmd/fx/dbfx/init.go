package dbfx

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
	"gorm.io/gorm"
	"parkfinder/internal/infra"
	"parkfinder/internal/repositories"
)

var Module = fx.Provide(
	provideDB,
	provideParkRepo)

func provideDB(lc fx.Lifecycle, cfg infra.Config) (*gorm.DB, error) {
	db, err := infra.InitPostgresql(cfg.PostgresURL)
	if err != nil {
		return nil, err
	}

	if cfg.DBAutoMigrate {
		if err := infra.Migrate(db); err != nil {
			infra.ClosePostgresql(db)
			return nil, err
		}
		log.Info().Msg("Database schema is up to date")
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			infra.ClosePostgresql(db)
			return nil
		},
	})
	return db, nil
}

func provideParkRepo(db *gorm.DB) repositories.ParkRepository {
	return repositories.NewParkRepository(db)
}
