package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"parkfinder/internal/models/db_models"
)

// InitPostgresql opens the pool and checks the connection. Each upsert is a
// single statement, so gorm's implicit write transaction is skipped.
func InitPostgresql(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error getting database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.WithContext(ctx).Exec("SELECT 1").Error; err != nil {
		return nil, fmt.Errorf("database not reachable: %w", err)
	}

	return db, nil
}

// Migrate creates the vector extension, the nps schema and the parks table.
func Migrate(db *gorm.DB) error {
	for _, stmt := range []string{
		"CREATE EXTENSION IF NOT EXISTS vector",
		"CREATE SCHEMA IF NOT EXISTS nps",
	} {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migrate: %s: %w", stmt, err)
		}
	}
	if err := db.AutoMigrate(&db_models.Park{}); err != nil {
		return fmt.Errorf("migrate parks: %w", err)
	}
	return nil
}

func ClosePostgresql(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Error().Err(err).Msg("Error getting database instance")
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing database connection")
	} else {
		log.Info().Msg("PostgreSQL database connection closed successfully")
	}
}
