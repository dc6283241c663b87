// Package testutil provides utilities for testing
package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"costservice/internal/api/middleware"
	"costservice/internal/api/routes"
	"costservice/internal/config"
	"costservice/internal/logger"
	"costservice/internal/metrics"
	"costservice/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestClientIP is the remote address used by TestContext.Do
const TestClientIP = "203.0.113.7"

// TestContext holds common test dependencies
type TestContext struct {
	T       *testing.T
	Config  *config.Config
	Logger  logger.Logger
	Logs    *observer.ObservedLogs
	Metrics *metrics.Metrics
	Limiter *middleware.RateLimiter
	Router  *gin.Engine
}

// LoadTestConfig returns the default configuration in gin test mode
func LoadTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.API.GinMode = gin.TestMode
	return cfg
}

// NewTestContext builds a full router around an observed logger. mutate, if
// given, adjusts the configuration before the router is built.
func NewTestContext(t *testing.T, mutate func(*config.Config)) *TestContext {
	t.Helper()

	gin.SetMode(gin.TestMode)

	cfg := LoadTestConfig(t)
	if mutate != nil {
		mutate(cfg)
	}

	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.NewFromZap(zap.New(core))
	m := metrics.New()
	limiter := middleware.NewRateLimiter(cfg.RateLimit, routes.RateLimitExemptPaths()...)

	tc := &TestContext{
		T:       t,
		Config:  cfg,
		Logger:  log,
		Logs:    logs,
		Metrics: m,
		Limiter: limiter,
		Router: routes.SetupRoutes(routes.Dependencies{
			Config:  cfg,
			Info:    models.CostService,
			Logger:  log,
			Metrics: m,
			Limiter: limiter,
		}),
	}

	t.Cleanup(limiter.Stop)

	return tc
}

// Do sends a request without a body through the router
func (tc *TestContext) Do(method, path string) *httptest.ResponseRecorder {
	tc.T.Helper()
	return tc.DoWithHeader(method, path, nil)
}

// DoWithHeader is Do with extra request headers
func (tc *TestContext) DoWithHeader(method, path string, header http.Header) *httptest.ResponseRecorder {
	tc.T.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, http.NoBody)
	req.RemoteAddr = TestClientIP + ":5555"
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	tc.Router.ServeHTTP(w, req)
	return w
}
