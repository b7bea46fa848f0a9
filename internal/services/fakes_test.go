package services

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/pgvector/pgvector-go"
	"parkfinder/internal/models/db_models"
	"parkfinder/pkg/nps"
)

// memoryParkRepo is an in-memory ParkRepository ranking by cosine similarity.
type memoryParkRepo struct {
	mu    sync.Mutex
	parks map[string]db_models.Park

	pingErr    error
	hasErr     error
	countErr   error
	searchErr  error
	getErr     error
	upsertErrs map[string]error

	searchCalls atomic.Int32
	upserts     atomic.Int32
}

func newMemoryParkRepo() *memoryParkRepo {
	return &memoryParkRepo{
		parks:      map[string]db_models.Park{},
		upsertErrs: map[string]error{},
	}
}

func (r *memoryParkRepo) put(p db_models.Park) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parks[p.ParkCode] = p
}

func (r *memoryParkRepo) Ping(ctx context.Context) error {
	return r.pingErr
}

func (r *memoryParkRepo) HasEmbedding(ctx context.Context, parkCode string) (bool, error) {
	if r.hasErr != nil {
		return false, r.hasErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.parks[parkCode]
	return ok && p.Embedding != nil, nil
}

func (r *memoryParkRepo) CountWithEmbedding(ctx context.Context) (int64, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, p := range r.parks {
		if p.Embedding != nil {
			n++
		}
	}
	return n, nil
}

func (r *memoryParkRepo) UpsertPark(ctx context.Context, park *db_models.Park) error {
	if err := r.upsertErrs[park.ParkCode]; err != nil {
		return err
	}
	r.upserts.Add(1)
	r.put(*park)
	return nil
}

func (r *memoryParkRepo) SearchByVector(ctx context.Context, vector pgvector.Vector, region string, limit int) ([]db_models.ParkMatch, error) {
	r.searchCalls.Add(1)
	if r.searchErr != nil {
		return nil, r.searchErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var matches []db_models.ParkMatch
	for _, p := range r.parks {
		if p.Embedding == nil {
			continue
		}
		if region != "" && !contains(p.States, region) {
			continue
		}
		matches = append(matches, db_models.ParkMatch{
			Park:       p,
			Similarity: cosine(vector.Slice(), p.Embedding.Slice()),
		})
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (r *memoryParkRepo) GetByCode(ctx context.Context, parkCode string) (*db_models.Park, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.parks[parkCode]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// fakeEmbedder returns vectors from EmbedFunc, or a fixed two dimensional
// vector when EmbedFunc is nil.
type fakeEmbedder struct {
	EmbedFunc func(ctx context.Context, text string) (pgvector.Vector, error)

	calls    atomic.Int32
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (e *fakeEmbedder) GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	e.calls.Add(1)
	n := e.inFlight.Add(1)
	defer e.inFlight.Add(-1)
	for {
		seen := e.maxSeen.Load()
		if n <= seen || e.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}

	if e.EmbedFunc != nil {
		return e.EmbedFunc(ctx, text)
	}
	return pgvector.NewVector([]float32{1, 0}), nil
}

func (e *fakeEmbedder) Name() string {
	return "fake"
}

var errBoom = errors.New("boom")

// fakeNPS serves a fixed catalog and canned keyword-search results.
type fakeNPS struct {
	catalog   []nps.Park
	total     int
	failAfter int // pages served before ListParks fails; 0 never fails, negative fails at once

	searchResults []nps.Park
	searchErr     error
	lastSearch    nps.SearchParams

	parks   map[string]nps.Park
	getErr  error
	liveErr error

	pages atomic.Int32
}

func (f *fakeNPS) ListParks(ctx context.Context, start, limit int) (nps.ParkPage, error) {
	served := int(f.pages.Add(1))
	if f.failAfter != 0 && served > max(f.failAfter, 0) {
		return nps.ParkPage{}, errBoom
	}

	total := f.total
	if total == 0 {
		total = len(f.catalog)
	}
	if start >= len(f.catalog) {
		return nps.ParkPage{Total: nps.FlexInt(total)}, nil
	}
	end := min(start+limit, len(f.catalog))
	return nps.ParkPage{Data: f.catalog[start:end], Total: nps.FlexInt(total)}, nil
}

func (f *fakeNPS) SearchParks(ctx context.Context, p nps.SearchParams) ([]nps.Park, error) {
	f.lastSearch = p
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.searchResults, nil
}

func (f *fakeNPS) GetPark(ctx context.Context, parkCode string) (*nps.Park, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.parks[parkCode]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeNPS) live(kind, parkCode string) ([]json.RawMessage, error) {
	if f.liveErr != nil {
		return nil, f.liveErr
	}
	return []json.RawMessage{json.RawMessage(`{"kind":"` + kind + `","parkCode":"` + parkCode + `"}`)}, nil
}

func (f *fakeNPS) Alerts(ctx context.Context, parkCode string) ([]json.RawMessage, error) {
	return f.live("alert", parkCode)
}

func (f *fakeNPS) NewsReleases(ctx context.Context, parkCode string) ([]json.RawMessage, error) {
	return f.live("news", parkCode)
}

func (f *fakeNPS) ThingsToDo(ctx context.Context, parkCode string) ([]json.RawMessage, error) {
	return f.live("thingstodo", parkCode)
}

func (f *fakeNPS) Amenities(ctx context.Context, parkCode string) ([]json.RawMessage, error) {
	return f.live("amenity", parkCode)
}

func embedded(v ...float32) *pgvector.Vector {
	vec := pgvector.NewVector(v)
	return &vec
}
