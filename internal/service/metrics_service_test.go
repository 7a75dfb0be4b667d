package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsExposition(t *testing.T) {
	metrics := NewMetricsService()
	metrics.ObserveRemoteRequest(http.MethodGet, "/document/paginated", http.StatusOK, 25*time.Millisecond)
	metrics.RecordCacheOperation(true, time.Millisecond)
	metrics.RecordCacheOperation(false, time.Millisecond)

	w := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "registry_requests_total")
	assert.Contains(t, body, "registry_request_duration_seconds")
	assert.Contains(t, body, "reference_cache_hits_total 1")
	assert.Contains(t, body, "reference_cache_misses_total 1")
}

func TestMetricsNilSafe(t *testing.T) {
	var metrics *MetricsService
	metrics.ObserveRemoteRequest(http.MethodGet, "/document", http.StatusOK, time.Millisecond)
	metrics.RecordCacheOperation(true, time.Millisecond)

	w := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
