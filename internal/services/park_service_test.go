package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"parkfinder/internal/models/db_models"
	"parkfinder/pkg/nps"
	"parkfinder/pkg/utils"
)

func TestParkService_GetParkDetail_StoredPark(t *testing.T) {
	repo := newMemoryParkRepo()
	latLong := "lat:48.68, long:-113.80"
	repo.put(db_models.Park{
		ID:         "ABC",
		ParkCode:   "glac",
		FullName:   "Glacier National Park",
		States:     pq.StringArray{"MT"},
		LatLong:    &latLong,
		Activities: db_models.JSONDocument(`[{"name":"Hiking"}]`),
		Embedding:  embedded(1, 0),
	})
	api := &fakeNPS{}

	detail, err := NewParkService(repo, api).GetParkDetail(context.Background(), "glac")
	require.NoError(t, err)

	assert.Equal(t, "Glacier National Park", detail.FullName)
	assert.Equal(t, []string{"MT"}, detail.States)
	require.NotNil(t, detail.LatLong)
	assert.Equal(t, latLong, *detail.LatLong)
	assert.JSONEq(t, `[{"name":"Hiking"}]`, string(detail.Activities))
	assert.JSONEq(t, `[]`, string(detail.Topics))

	require.Len(t, detail.Alerts, 1)
	assert.JSONEq(t, `{"kind":"alert","parkCode":"glac"}`, string(detail.Alerts[0]))
	require.Len(t, detail.News, 1)
	require.Len(t, detail.ThingsToDo, 1)
	require.Len(t, detail.Amenities, 1)
}

func TestParkService_GetParkDetail_FallsBackToNPS(t *testing.T) {
	api := &fakeNPS{parks: map[string]nps.Park{
		"zion": {ParkCode: "zion", FullName: "Zion National Park", States: nps.StateList{"UT"}},
	}}

	detail, err := NewParkService(newMemoryParkRepo(), api).GetParkDetail(context.Background(), " zion ")
	require.NoError(t, err)
	assert.Equal(t, "Zion National Park", detail.FullName)
	assert.Nil(t, detail.LatLong)
	assert.Len(t, detail.Alerts, 1)
}

func TestParkService_GetParkDetail_LiveFailuresDegrade(t *testing.T) {
	repo := newMemoryParkRepo()
	repo.put(db_models.Park{ParkCode: "acad", FullName: "Acadia"})
	api := &fakeNPS{liveErr: utils.ErrUpstream}

	detail, err := NewParkService(repo, api).GetParkDetail(context.Background(), "acad")
	require.NoError(t, err)

	assert.Equal(t, "Acadia", detail.FullName)
	for _, items := range [][]json.RawMessage{detail.Alerts, detail.News, detail.ThingsToDo, detail.Amenities} {
		assert.NotNil(t, items)
		assert.Empty(t, items)
	}

	body, err := json.Marshal(detail)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"alerts":[]`)
}

func TestParkService_GetParkDetail_Errors(t *testing.T) {
	t.Run("unknown code", func(t *testing.T) {
		_, err := NewParkService(newMemoryParkRepo(), &fakeNPS{}).GetParkDetail(context.Background(), "nope")
		assert.ErrorIs(t, err, utils.ErrParkNotFound)
	})

	t.Run("blank code", func(t *testing.T) {
		_, err := NewParkService(newMemoryParkRepo(), &fakeNPS{}).GetParkDetail(context.Background(), "  ")
		assert.ErrorIs(t, err, utils.ErrParkNotFound)
	})

	t.Run("store failure", func(t *testing.T) {
		repo := newMemoryParkRepo()
		repo.getErr = errBoom
		_, err := NewParkService(repo, &fakeNPS{}).GetParkDetail(context.Background(), "glac")
		assert.ErrorIs(t, err, utils.ErrDatabaseError)
	})

	t.Run("upstream error status for unstored park", func(t *testing.T) {
		api := &fakeNPS{getErr: &nps.StatusError{Endpoint: "parks", StatusCode: http.StatusNotFound}}
		_, err := NewParkService(newMemoryParkRepo(), api).GetParkDetail(context.Background(), "zzzz")
		assert.ErrorIs(t, err, utils.ErrParkNotFound)
	})

	t.Run("upstream unreachable for unstored park", func(t *testing.T) {
		api := &fakeNPS{getErr: fmt.Errorf("%w: parks: connection refused", utils.ErrUpstream)}
		_, err := NewParkService(newMemoryParkRepo(), api).GetParkDetail(context.Background(), "glac")
		assert.ErrorIs(t, err, utils.ErrUpstream)
		assert.NotErrorIs(t, err, utils.ErrParkNotFound)
	})
}

func TestParkService_GetParkDetail_NPSStatusIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	svc := NewParkService(newMemoryParkRepo(), nps.NewClient(srv.URL, "k"))
	_, err := svc.GetParkDetail(context.Background(), "zzzz")
	assert.ErrorIs(t, err, utils.ErrParkNotFound)
}
