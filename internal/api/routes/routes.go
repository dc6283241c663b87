// Package routes handles the setup and configuration of API routes
package routes

import (
	"costservice/docs"
	"costservice/internal/api/handlers"
	"costservice/internal/api/middleware"
	"costservice/internal/config"
	"costservice/internal/logger"
	"costservice/internal/metrics"
	"costservice/internal/models"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	healthPath  = "/health"
	metricsPath = "/metrics"
)

// Dependencies are the shared components the router is built from
type Dependencies struct {
	Config  *config.Config
	Info    models.ServiceInfo
	Logger  logger.Logger
	Metrics *metrics.Metrics
	Limiter *middleware.RateLimiter
}

// SetupRoutes configures all routes and their middleware
func SetupRoutes(deps Dependencies) *gin.Engine {
	cfg := deps.Config

	r := gin.New()
	r.HandleMethodNotAllowed = true

	// Compression wraps Recovery so a recovered 500 is still flushed
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(deps.Logger, healthPath, metricsPath),
		middleware.Metrics(deps.Metrics),
		middleware.Compression(middleware.CompressionConfigFrom(cfg.Compression)),
		middleware.Recovery(deps.Logger),
		deps.Limiter.Middleware(),
	)

	r.NoRoute(handlers.NotFound)
	r.NoMethod(handlers.MethodNotAllowed)

	healthHandler := handlers.NewHealthHandler()
	r.GET(healthPath, healthHandler.Health)

	if cfg.API.MetricsEnabled {
		r.GET(metricsPath, gin.WrapH(deps.Metrics.Handler()))
	}

	if cfg.API.SwaggerEnabled {
		docs.SwaggerInfo.Title = deps.Info.Title
		docs.SwaggerInfo.Description = deps.Info.Description
		docs.SwaggerInfo.Version = deps.Info.Version
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

// RateLimitExemptPaths lists the paths hit by health checkers and scrapers
func RateLimitExemptPaths() []string {
	return []string{healthPath, metricsPath}
}
