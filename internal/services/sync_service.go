package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog/log"
	"parkfinder/internal/metrics"
	"parkfinder/internal/repositories"
	"parkfinder/pkg/nps"
	"parkfinder/pkg/utils"
)

const (
	DefaultSyncBatchSize = 5
	DefaultSyncPageSize  = 50
)

type SyncResult string

const (
	SyncResultSynced        SyncResult = "synced"
	SyncResultSkippedNoText SyncResult = "skipped_no_text"
	SyncResultError         SyncResult = "error"
)

// SyncTally is the outcome of one sync run. Synced, Skipped and Errors are
// disjoint and add up to Total. SkippedNoText is the part of Skipped that
// had no text to embed; the rest already had an embedding.
type SyncTally struct {
	Total         int `json:"total"`
	Synced        int `json:"synced"`
	Skipped       int `json:"skipped"`
	SkippedNoText int `json:"skipped_no_text"`
	Errors        int `json:"errors"`
	Batches       int `json:"batches"`
}

type SyncOptions struct {
	BatchSize int
	PageSize  int
}

type SyncServiceInterface interface {
	Run(ctx context.Context) (SyncTally, error)
	FetchAllParks(ctx context.Context) []nps.Park
}

type SyncService struct {
	parkRepo repositories.ParkRepository
	npsAPI   NPSClientInterface
	embedder utils.EmbeddingClientInterface
	metrics  *metrics.Metrics
	opts     SyncOptions
}

func NewSyncService(
	parkRepo repositories.ParkRepository,
	npsAPI NPSClientInterface,
	embedder utils.EmbeddingClientInterface,
	m *metrics.Metrics,
	opts SyncOptions,
) SyncServiceInterface {
	if opts.BatchSize < 1 {
		opts.BatchSize = DefaultSyncBatchSize
	}
	if opts.PageSize < 1 {
		opts.PageSize = DefaultSyncPageSize
	}
	return &SyncService{
		parkRepo: parkRepo,
		npsAPI:   npsAPI,
		embedder: embedder,
		metrics:  m,
		opts:     opts,
	}
}

// Run fetches the catalog, embeds every park without an embedding and
// upserts it. Per-park failures are counted, only a store that cannot be
// reached at start is returned as an error.
func (s *SyncService) Run(ctx context.Context) (SyncTally, error) {
	var tally SyncTally

	if err := s.parkRepo.Ping(ctx); err != nil {
		return tally, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	log.Info().Msgf("Database connection successful, embedding with %s", s.embedder.Name())

	parks := s.FetchAllParks(ctx)
	tally.Total = len(parks)
	if len(parks) == 0 {
		log.Info().Msg("No parks found. Exiting.")
		return tally, nil
	}

	if existing, err := s.parkRepo.CountWithEmbedding(ctx); err != nil {
		log.Warn().Err(err).Msg("Could not count existing embeddings")
	} else {
		log.Info().Msgf("Found %d parks with existing embeddings (will skip those)", existing)
	}

	pending := make([]nps.Park, 0, len(parks))
	for _, park := range parks {
		has, err := s.parkRepo.HasEmbedding(ctx, park.ParkCode)
		if err != nil {
			log.Warn().Err(err).Str("park_code", park.ParkCode).Msg("Embedding check failed, syncing park anyway")
		}
		if has {
			tally.Skipped++
			continue
		}
		pending = append(pending, park)
	}

	log.Info().Msgf("%d parks need syncing, %d already have embeddings", len(pending), tally.Skipped)
	if len(pending) == 0 {
		log.Info().Msg("All parks already synced")
		s.record(tally)
		return tally, nil
	}

	pool, err := ants.NewPool(s.opts.BatchSize)
	if err != nil {
		return tally, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	totalBatches := (len(pending) + s.opts.BatchSize - 1) / s.opts.BatchSize
	log.Info().Msgf("Syncing %d parks in batches of %d", len(pending), s.opts.BatchSize)

	for i := 0; i < len(pending); i += s.opts.BatchSize {
		end := min(i+s.opts.BatchSize, len(pending))
		batch := pending[i:end]
		batchNumber := i/s.opts.BatchSize + 1

		log.Info().Msgf("Processing batch %d/%d (%d parks)", batchNumber, totalBatches, len(batch))

		for _, result := range s.runBatch(ctx, pool, batch) {
			switch result {
			case SyncResultSynced:
				tally.Synced++
			case SyncResultSkippedNoText:
				tally.Skipped++
				tally.SkippedNoText++
			default:
				tally.Errors++
			}
		}
		tally.Batches++

		log.Info().Msgf("Batch %d complete: %d synced so far, %d errors", batchNumber, tally.Synced, tally.Errors)
	}

	log.Info().
		Int("synced", tally.Synced).
		Int("skipped", tally.Skipped).
		Int("errors", tally.Errors).
		Int("total", tally.Total).
		Msgf("Sync complete! %d parks synced, %d skipped, %d errors", tally.Synced, tally.Skipped, tally.Errors)

	s.record(tally)
	return tally, nil
}

// runBatch processes every park of the batch on the pool and returns once
// all of them settled.
func (s *SyncService) runBatch(ctx context.Context, pool *ants.Pool, batch []nps.Park) []SyncResult {
	results := make([]SyncResult, len(batch))
	var wg sync.WaitGroup

	for i, park := range batch {
		// Stays an error if the task panics or is never run.
		results[i] = SyncResultError

		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			results[i] = s.syncPark(ctx, park)
		})
		if err != nil {
			wg.Done()
			log.Error().Err(err).Str("park_code", park.ParkCode).Msg("Could not schedule park sync")
		}
	}

	wg.Wait()
	return results
}

func (s *SyncService) syncPark(ctx context.Context, park nps.Park) SyncResult {
	text := CreateEmbeddingText(park)
	if text == "" {
		log.Warn().Msgf("Skipping park %s: no text for embedding", park.ParkCode)
		return SyncResultSkippedNoText
	}

	embedding, err := s.embedder.GetEmbedding(ctx, text)
	if err != nil {
		log.Error().Err(err).Msgf("Error syncing park %s", park.ParkCode)
		return SyncResultError
	}

	if err := s.parkRepo.UpsertPark(ctx, toParkRow(park, embedding)); err != nil {
		log.Error().Err(err).Msgf("Error syncing park %s", park.ParkCode)
		return SyncResultError
	}
	return SyncResultSynced
}

// FetchAllParks pages through the catalog until an empty page or the
// reported total. A failed page ends pagination and whatever was fetched so
// far is returned.
func (s *SyncService) FetchAllParks(ctx context.Context) []nps.Park {
	var all []nps.Park
	start := 0

	log.Info().Msg("Fetching parks from NPS API...")
	for {
		page, err := s.npsAPI.ListParks(ctx, start, s.opts.PageSize)
		if err != nil {
			log.Error().Err(err).Msgf("Error fetching parks (start=%d)", start)
			break
		}
		if len(page.Data) == 0 {
			break
		}

		all = append(all, page.Data...)
		start += s.opts.PageSize
		log.Info().Msgf("Fetched %d parks so far...", len(all))

		if len(all) >= int(page.Total) {
			break
		}
	}

	log.Info().Msgf("Total parks fetched: %d", len(all))
	return all
}

func (s *SyncService) record(t SyncTally) {
	s.metrics.AddSyncResult(string(SyncResultSynced), t.Synced)
	s.metrics.AddSyncResult("skipped", t.Skipped)
	s.metrics.AddSyncResult(string(SyncResultError), t.Errors)
}
