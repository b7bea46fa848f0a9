package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"parkfinder/internal/models/db_models"
)

type ParkRepository interface {
	Ping(ctx context.Context) error
	HasEmbedding(ctx context.Context, parkCode string) (bool, error)
	CountWithEmbedding(ctx context.Context) (int64, error)
	UpsertPark(ctx context.Context, park *db_models.Park) error
	SearchByVector(ctx context.Context, vector pgvector.Vector, region string, limit int) ([]db_models.ParkMatch, error)
	GetByCode(ctx context.Context, parkCode string) (*db_models.Park, error)
}

// Every column except the identifiers is overwritten on conflict.
var parkUpsertColumns = []string{
	"full_name", "description", "url", "states", "lat_long", "relevance_score",
	"addresses", "activities", "topics", "amenities", "embedding", "updated_at",
}

const parkMatchColumns = `id, park_code, full_name, description, url, states,
		lat_long, relevance_score, addresses, activities, topics, amenities, updated_at`

type parkRepository struct {
	db *gorm.DB
}

func NewParkRepository(db *gorm.DB) ParkRepository {
	return &parkRepository{db: db}
}

func (r *parkRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *parkRepository) HasEmbedding(ctx context.Context, parkCode string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db_models.Park{}).
		Where("park_code = ? AND embedding IS NOT NULL", parkCode).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *parkRepository) CountWithEmbedding(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db_models.Park{}).
		Where("embedding IS NOT NULL").
		Count(&count).Error
	return count, err
}

// UpsertPark inserts the row or overwrites the existing row with the same
// park code in a single statement. id and park_code are never updated.
func (r *parkRepository) UpsertPark(ctx context.Context, park *db_models.Park) error {
	park.UpdatedAt = time.Now().UTC()

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "park_code"}},
			DoUpdates: clause.AssignmentColumns(parkUpsertColumns),
		}).
		Create(park).Error
	if err != nil {
		return fmt.Errorf("upsert park %s: %w", park.ParkCode, err)
	}
	return nil
}

// SearchByVector returns the parks closest to vector by cosine distance,
// most similar first. Rows without an embedding are never candidates.
func (r *parkRepository) SearchByVector(ctx context.Context, vector pgvector.Vector, region string, limit int) ([]db_models.ParkMatch, error) {
	var sb strings.Builder
	args := []interface{}{vector}

	sb.WriteString("SELECT " + parkMatchColumns + `,
		1 - (embedding <=> ?::vector) AS similarity
		FROM nps.parks
		WHERE embedding IS NOT NULL`)

	if region != "" {
		sb.WriteString(" AND ? = ANY(states)")
		args = append(args, region)
	}

	sb.WriteString(" ORDER BY embedding <=> ?::vector LIMIT ?")
	args = append(args, vector, limit)

	var matches []db_models.ParkMatch
	if err := r.db.WithContext(ctx).Raw(sb.String(), args...).Scan(&matches).Error; err != nil {
		return nil, err
	}
	return matches, nil
}

// GetByCode returns nil, nil when no row has the code.
func (r *parkRepository) GetByCode(ctx context.Context, parkCode string) (*db_models.Park, error) {
	var park db_models.Park
	err := r.db.WithContext(ctx).
		Omit("embedding").
		First(&park, "park_code = ?", parkCode).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &park, nil
}
