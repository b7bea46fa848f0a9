//go:build integration

package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
	"parkfinder/internal/infra"
	"parkfinder/internal/models/db_models"
)

// setupParkDB starts a pgvector enabled Postgres and applies the migrations.
func setupParkDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "pgvector/pgvector:pg16",
		postgres.WithDatabase("parkfinder_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := container.Terminate(cleanupCtx); err != nil {
			t.Logf("Warning: Failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := infra.InitPostgresql(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { infra.ClosePostgresql(db) })

	require.NoError(t, infra.Migrate(db))
	return db
}

func vec(v ...float32) *pgvector.Vector {
	out := pgvector.NewVector(v)
	return &out
}

func TestParkRepository_Integration(t *testing.T) {
	db := setupParkDB(t)
	repo := NewParkRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Ping(ctx))

	n, err := repo.CountWithEmbedding(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	parks := []*db_models.Park{
		{ID: "1", ParkCode: "glac", FullName: "Glacier", States: []string{"MT"}, Embedding: vec(1, 0, 0)},
		{ID: "2", ParkCode: "bica", FullName: "Bighorn Canyon", States: []string{"MT", "WY"}, Embedding: vec(0.8, 0.6, 0)},
		{ID: "3", ParkCode: "grte", FullName: "Grand Teton", States: []string{"WY"}, Embedding: vec(1, 0.1, 0)},
		{ID: "4", ParkCode: "libi", FullName: "Little Bighorn", States: []string{"MT"}, Embedding: vec(0, 1, 0)},
		{ID: "5", ParkCode: "yell", FullName: "Yellowstone", States: []string{"ID", "MT", "WY"}},
	}
	for _, p := range parks {
		require.NoError(t, repo.UpsertPark(ctx, p))
	}

	n, err = repo.CountWithEmbedding(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	has, err := repo.HasEmbedding(ctx, "yell")
	require.NoError(t, err)
	assert.False(t, has)
	has, err = repo.HasEmbedding(ctx, "glac")
	require.NoError(t, err)
	assert.True(t, has)

	matches, err := repo.SearchByVector(ctx, pgvector.NewVector([]float32{1, 0, 0}), "MT", 3)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, []string{"glac", "bica", "libi"}, []string{matches[0].ParkCode, matches[1].ParkCode, matches[2].ParkCode})
	assert.InDelta(t, 1.0, matches[0].Similarity, 1e-6)
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].Similarity, matches[i].Similarity)
	}

	// Upsert overwrites everything but the identifiers.
	require.NoError(t, repo.UpsertPark(ctx, &db_models.Park{
		ID: "changed", ParkCode: "glac", FullName: "Glacier National Park", States: []string{"MT"}, Embedding: vec(0, 0, 1),
	}))
	got, err := repo.GetByCode(ctx, "glac")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "1", got.ID)
	assert.Equal(t, "Glacier National Park", got.FullName)
	assert.JSONEq(t, `[]`, string(got.Activities))

	missing, err := repo.GetByCode(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
