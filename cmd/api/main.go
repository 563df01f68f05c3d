package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/swiftride/backend/internal/api/handlers"
	"github.com/swiftride/backend/internal/api/middleware"
	"github.com/swiftride/backend/internal/api/routes"
	"github.com/swiftride/backend/internal/auth"
	"github.com/swiftride/backend/internal/config"
	"github.com/swiftride/backend/internal/service/drivers"
	"github.com/swiftride/backend/internal/service/pricing"
	rideservice "github.com/swiftride/backend/internal/service/ride"
	"github.com/swiftride/backend/internal/service/riders"
	"github.com/swiftride/backend/internal/storage"
	"github.com/swiftride/backend/pkg/cache"
	"github.com/swiftride/backend/pkg/database"
	"github.com/swiftride/backend/pkg/logger"
	"github.com/swiftride/backend/pkg/monitoring"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting SwiftRide backend",
		logger.String("env", cfg.Server.Env),
		logger.String("port", cfg.Server.Port),
	)

	// Initialize New Relic
	nrApp, err := monitoring.New(monitoring.Config{
		LicenseKey: cfg.NewRelic.LicenseKey,
		AppName:    cfg.NewRelic.AppName,
		Enabled:    cfg.NewRelic.Enabled,
	})
	if err != nil {
		appLogger.Warn("Failed to initialize New Relic", logger.Err(err))
		nrApp = &monitoring.NewRelicApp{}
	}
	defer nrApp.Shutdown(10 * time.Second)

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cache.Config{
		Host:        cfg.Redis.Host,
		Port:        cfg.Redis.Port,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		MaxRetries:  cfg.Redis.MaxRetries,
		PoolSize:    cfg.Redis.PoolSize,
		MinIdleConn: cfg.Redis.MinIdleConn,
		DialTimeout: cfg.Redis.DialTimeout,
		ReadTimeout: cfg.Redis.ReadTimeout,
	})
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", logger.Err(err))
	}
	defer cache.Close(redisClient)

	appLogger.Info("Connected to Redis successfully")

	// Initialize PostgreSQL
	postgresDB, err := database.NewPostgresDB(database.Config{
		Host:        cfg.Database.Host,
		Port:        cfg.Database.Port,
		User:        cfg.Database.User,
		Password:    cfg.Database.Password,
		DBName:      cfg.Database.Name,
		SSLMode:     cfg.Database.SSLMode,
		MaxConns:    cfg.Database.MaxConns,
		MaxIdle:     cfg.Database.MaxIdle,
		MaxLifetime: cfg.Database.MaxLifetime,
	})
	if err != nil {
		appLogger.Fatal("Failed to connect to PostgreSQL", logger.Err(err))
	}
	defer postgresDB.Close()

	appLogger.Info("Connected to PostgreSQL successfully")

	// Stores
	riderStore := storage.NewRiderStore(postgresDB)
	driverStore := storage.NewDriverStore(postgresDB)
	rideStore := storage.NewRideStore(postgresDB)

	// Token service and authorization middleware
	tokenService, err := auth.NewTokenService(cfg.JWT.Secret)
	if err != nil {
		appLogger.Fatal("Failed to create token service", logger.Err(err))
	}
	authorizer := middleware.NewAuthorizer(tokenService, riderStore, driverStore, appLogger)

	// Services
	calculator := pricing.NewCalculator(pricing.Config{
		BaseFare:    cfg.Pricing.BaseFare,
		PerKMRate:   cfg.Pricing.PerKMRate,
		PerStopRate: cfg.Pricing.PerStopRate,
	})
	riderService := riders.NewService(riderStore, tokenService, cfg.JWT.RiderExpiry, appLogger)
	driverService := drivers.NewService(driverStore, tokenService, cfg.JWT.DriverExpiry, appLogger)
	rideService := rideservice.NewService(rideStore, calculator, redisClient, appLogger, rideservice.Config{
		GuardTerminalCancel: cfg.Ride.GuardTerminalCancel,
		CacheTTLRides:       cfg.Cache.TTLRides,
		CacheTTLHistory:     cfg.Cache.TTLRideHistory,
	})

	h := handlers.NewHandlers(riderService, driverService, rideService, appLogger, nrApp)

	// Initialize Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	if nrApp.IsEnabled() {
		routes.SetupRoutes(router, h, authorizer, nrApp.Application)
	} else {
		routes.SetupRoutes(router, h, authorizer, nil)
	}

	appLogger.Info("Routes configured successfully")

	// Create HTTP server
	srv := &http.Server{
		Addr:           fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// Start server in a goroutine
	go func() {
		appLogger.Info("Server starting", logger.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", logger.Err(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", logger.Err(err))
	}

	appLogger.Info("Server stopped gracefully")
}
