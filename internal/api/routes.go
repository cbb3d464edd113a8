package api

import (
	"github.com/gin-gonic/gin"

	"github.com/voltaware/phantomwatt/internal/api/handlers"
	"github.com/voltaware/phantomwatt/internal/database"
	"github.com/voltaware/phantomwatt/internal/middleware"
	"github.com/voltaware/phantomwatt/internal/mlclient"
	"github.com/voltaware/phantomwatt/internal/services"
)

// Dependencies carries everything the route tree needs. DB, Redis and
// MLClient may be nil in degraded deployments; the handlers and the
// detection service tolerate their absence.
type Dependencies struct {
	DetectionService *services.DetectionService
	DB               *database.PostgresDB
	Redis            *database.RedisClient
	MLClient         *mlclient.Client
	Auth             *middleware.AuthMiddleware
	Version          string
}

// SetupRoutes registers all endpoints. Authentication is optional
// everywhere: an unauthenticated detection request is a valid demo request,
// not an error.
func SetupRoutes(router *gin.Engine, deps Dependencies) {
	router.Use(middleware.RequestID())

	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Redis, deps.MLClient, deps.Version)
	router.GET("/health", healthHandler.Health)

	v1 := router.Group("/api/v1")
	if deps.Auth != nil {
		v1.Use(deps.Auth.OptionalAuth())
	}
	{
		phantom := v1.Group("/phantom")
		{
			detectionHandler := handlers.NewDetectionHandler(deps.DetectionService)
			phantom.GET("/detect", detectionHandler.Detect)

			sampleHandler := handlers.NewSampleHandler(deps.DetectionService)
			phantom.GET("/sample", sampleHandler.Sample)

			analyzeHandler := handlers.NewAnalyzeHandler(deps.DetectionService)
			phantom.POST("/analyze", analyzeHandler.Analyze)
		}
	}
}
