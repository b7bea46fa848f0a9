package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPush(t *testing.T) {
	var method, path string
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)
	m.AddSyncResult("synced", 7)
	m.AddSyncResult("error", 1)

	require.NoError(t, Push(context.Background(), srv.URL, "parksync", registry))

	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/metrics/job/parksync", path)
	assert.Contains(t, string(body), "parkfinder_sync_parks_total")
	assert.Contains(t, string(body), "synced")
}

func TestPush_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "push rejected", http.StatusInternalServerError)
	}))
	defer srv.Close()

	registry := prometheus.NewRegistry()
	NewMetrics(registry).AddSyncResult("synced", 1)

	err := Push(context.Background(), srv.URL, "parksync", registry)
	require.Error(t, err)
	assert.Contains(t, err.Error(), srv.URL)
}
