package routes_test

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"costservice/internal/api/middleware"
	"costservice/internal/config"
	"costservice/internal/models"
	"costservice/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthRoute(t *testing.T) {
	tc := testutil.NewTestContext(t, nil)

	for i := 0; i < 3; i++ {
		w := tc.Do("GET", "/health")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
		assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	}

	assert.Zero(t, tc.Logs.Len(), "health checks must not produce log lines")
}

func TestHealthRouteRejectsOtherMethods(t *testing.T) {
	tc := testutil.NewTestContext(t, nil)

	w := tc.Do("POST", "/health")
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "method not allowed", resp.Error)
}

func TestUnknownRoute(t *testing.T) {
	tc := testutil.NewTestContext(t, nil)

	w := tc.Do("GET", "/costs")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"not found"}`, w.Body.String())

	entries := tc.Logs.FilterMessage("HTTP request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "/costs", entries[0].ContextMap()["path"])
}

func TestHealthExemptFromRateLimit(t *testing.T) {
	tc := testutil.NewTestContext(t, func(c *config.Config) {
		c.RateLimit = config.RateLimitConfig{Requests: 1, Window: 60}
	})

	for i := 0; i < 5; i++ {
		require.Equal(t, http.StatusOK, tc.Do("GET", "/health").Code)
	}
	assert.Equal(t, http.StatusNotFound, tc.Do("GET", "/costs").Code)
	assert.Equal(t, http.StatusTooManyRequests, tc.Do("GET", "/costs").Code)
}

func TestMetricsRoute(t *testing.T) {
	tc := testutil.NewTestContext(t, nil)

	tc.Do("GET", "/health")
	tc.Do("POST", "/health")

	w := tc.Do("GET", "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `cost_service_http_requests_total{method="GET",route="/health",status="200"} 1`)
	assert.Contains(t, body, `cost_service_http_requests_total{method="POST",route="unmatched",status="405"} 1`)
}

func TestMetricsRouteGzippedOnce(t *testing.T) {
	tc := testutil.NewTestContext(t, nil)

	tc.Do("GET", "/health")

	w := tc.DoWithHeader("GET", "/metrics", http.Header{"Accept-Encoding": {"gzip"}})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "gzip", w.Header().Get("Content-Encoding"))

	reader, err := gzip.NewReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer reader.Close()
	decoded, err := io.ReadAll(reader)
	require.NoError(t, err)

	// A single decode must yield the plain text exposition
	assert.Contains(t, string(decoded), "cost_service_http_requests_total")
	assert.False(t, bytes.HasPrefix(decoded, []byte{0x1f, 0x8b}), "body is gzipped twice")
}

func TestOptionalRoutesDisabled(t *testing.T) {
	tc := testutil.NewTestContext(t, func(c *config.Config) {
		c.API.MetricsEnabled = false
		c.API.SwaggerEnabled = false
	})

	assert.Equal(t, http.StatusNotFound, tc.Do("GET", "/metrics").Code)
	assert.Equal(t, http.StatusNotFound, tc.Do("GET", "/swagger/doc.json").Code)
	assert.Equal(t, http.StatusOK, tc.Do("GET", "/health").Code)
}

func TestSwaggerDoc(t *testing.T) {
	tc := testutil.NewTestContext(t, nil)

	w := tc.Do("GET", "/swagger/doc.json")
	require.Equal(t, http.StatusOK, w.Code)

	var doc struct {
		Info  models.ServiceInfo         `json:"info"`
		Paths map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, models.CostService, doc.Info)
	assert.Contains(t, doc.Paths, "/health")
}
