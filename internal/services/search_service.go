package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"parkfinder/internal/metrics"
	"parkfinder/internal/models/response_models"
	"parkfinder/internal/repositories"
	"parkfinder/pkg/nps"
	"parkfinder/pkg/utils"
)

const (
	DefaultSearchLimit = 5
	MaxSearchLimit     = 50
)

type SearchQuery struct {
	Query string
	// Limit is the maximum number of results; nil means the default. Values
	// above the configured maximum are capped.
	Limit  *int
	Region string
}

type SearchPath string

const (
	SearchPathPrimary  SearchPath = "primary"
	SearchPathFallback SearchPath = "fallback"
)

// SearchResult carries the ranked parks and the path that produced them.
// PrimaryErr is set when the fallback path served the request.
type SearchResult struct {
	Parks      []response_models.Park
	Path       SearchPath
	PrimaryErr error
}

func (r SearchResult) Fallback() bool {
	return r.Path == SearchPathFallback
}

type SearchOptions struct {
	DefaultLimit int
	MaxLimit     int
}

type SearchServiceInterface interface {
	Search(ctx context.Context, q SearchQuery) (SearchResult, error)
}

type SearchService struct {
	parkRepo repositories.ParkRepository
	embedder utils.EmbeddingClientInterface
	npsAPI   NPSClientInterface
	metrics  *metrics.Metrics
	opts     SearchOptions
}

func NewSearchService(
	parkRepo repositories.ParkRepository,
	embedder utils.EmbeddingClientInterface,
	npsAPI NPSClientInterface,
	m *metrics.Metrics,
	opts SearchOptions,
) SearchServiceInterface {
	if opts.DefaultLimit < 1 {
		opts.DefaultLimit = DefaultSearchLimit
	}
	if opts.MaxLimit < 1 {
		opts.MaxLimit = MaxSearchLimit
	}
	if opts.DefaultLimit > opts.MaxLimit {
		opts.DefaultLimit = opts.MaxLimit
	}
	return &SearchService{
		parkRepo: parkRepo,
		embedder: embedder,
		npsAPI:   npsAPI,
		metrics:  m,
		opts:     opts,
	}
}

// Search ranks parks by semantic similarity to the query. Any failure of the
// embedding or store step routes the request to the NPS keyword search; only
// a failure there is returned to the caller.
func (s *SearchService) Search(ctx context.Context, q SearchQuery) (SearchResult, error) {
	started := time.Now()

	text := strings.TrimSpace(q.Query)
	if text == "" {
		return SearchResult{}, utils.ErrEmptyQuery
	}

	limit := s.opts.DefaultLimit
	if q.Limit != nil {
		limit = *q.Limit
	}
	if limit < 1 {
		return SearchResult{}, fmt.Errorf("%w: limit must be at least 1", utils.ErrInvalidLimit)
	}
	if limit > s.opts.MaxLimit {
		limit = s.opts.MaxLimit
	}

	region := strings.TrimSpace(q.Region)

	parks, primaryErr := s.semanticSearch(ctx, text, region, limit)
	if primaryErr == nil {
		s.metrics.ObserveSearch(string(SearchPathPrimary), started)
		return SearchResult{Parks: parks, Path: SearchPathPrimary}, nil
	}

	log.Warn().Err(primaryErr).Msg("Semantic search failed, using NPS API")

	parks, err := s.keywordSearch(ctx, q.Query, region, limit)
	if err != nil {
		s.metrics.ObserveSearch("failed", started)
		return SearchResult{}, fmt.Errorf("%w: %v (semantic search: %v)", utils.ErrSearchUnavailable, err, primaryErr)
	}

	s.metrics.ObserveSearch(string(SearchPathFallback), started)
	return SearchResult{Parks: parks, Path: SearchPathFallback, PrimaryErr: primaryErr}, nil
}

func (s *SearchService) semanticSearch(ctx context.Context, text, region string, limit int) ([]response_models.Park, error) {
	embedded, err := s.parkRepo.CountWithEmbedding(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if embedded == 0 {
		return nil, utils.ErrNoEmbeddedParks
	}

	vector, err := s.embedder.GetEmbedding(ctx, text)
	if err != nil {
		if errors.Is(err, utils.ErrEmbeddingFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", utils.ErrEmbeddingFailed, err)
	}

	matches, err := s.parkRepo.SearchByVector(ctx, vector, region, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	if len(matches) > limit {
		matches = matches[:limit]
	}
	parks := make([]response_models.Park, 0, len(matches))
	for _, m := range matches {
		parks = append(parks, parkFromMatch(m))
	}
	return parks, nil
}

func (s *SearchService) keywordSearch(ctx context.Context, query, region string, limit int) ([]response_models.Park, error) {
	results, err := s.npsAPI.SearchParks(ctx, nps.SearchParams{
		Query:     query,
		StateCode: region,
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}

	if len(results) > limit {
		results = results[:limit]
	}
	parks := make([]response_models.Park, 0, len(results))
	for _, p := range results {
		parks = append(parks, parkFromNPS(p))
	}
	return parks, nil
}
