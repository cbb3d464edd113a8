package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/voltaware/phantomwatt/internal/api"
	"github.com/voltaware/phantomwatt/internal/cache"
	"github.com/voltaware/phantomwatt/internal/config"
	"github.com/voltaware/phantomwatt/internal/database"
	"github.com/voltaware/phantomwatt/internal/middleware"
	"github.com/voltaware/phantomwatt/internal/mlclient"
	"github.com/voltaware/phantomwatt/internal/services"
)

const version = "1.0.0"

func main() {
	// .env is a local development convenience; its absence is normal.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg)

	// The detection service is built to degrade: a missing database or
	// Redis only disables the branches that need them.
	var store services.InventoryStore
	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		logrus.WithError(err).Warn("Database unavailable, appliance-backed detection disabled")
		db = nil
	} else {
		defer db.Close()
		store = database.NewApplianceRepository(db.Pool)
	}

	var inventoryCache services.InventoryCache
	redisClient, err := database.NewRedisConnection(cfg.Redis)
	if err != nil {
		logrus.WithError(err).Warn("Redis unavailable, inventory caching disabled")
		redisClient = nil
	} else {
		defer redisClient.Close()
		ttl, err := time.ParseDuration(cfg.Simulation.InventoryCacheTTL)
		if err != nil {
			ttl = 5 * time.Minute
		}
		inventoryCache = cache.NewRedisInventoryCache(redisClient.Client, ttl)
	}

	mlClient := mlclient.NewClient(&cfg.Classifier)

	logger := logrus.StandardLogger()
	detectionService := services.NewDetectionService(store, inventoryCache, mlClient, cfg, logger)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	api.SetupRoutes(router, api.Dependencies{
		DetectionService: detectionService,
		DB:               db,
		Redis:            redisClient,
		MLClient:         mlClient,
		Auth:             middleware.NewAuthMiddleware(cfg.Security.JWTSecret),
		Version:          version,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logrus.WithFields(logrus.Fields{
			"port":        cfg.Server.Port,
			"environment": cfg.Environment,
			"classifier":  mlClient.BaseURL(),
		}).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Fatalf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}

func setupLogging(cfg *config.Config) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if cfg.Environment == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}
