package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	timesheetapp "github.com/propertyops/billback/internal/application/timesheet"
	"github.com/propertyops/billback/internal/domain/timesheet"
	"github.com/propertyops/billback/internal/infrastructure/cache"
	"github.com/propertyops/billback/internal/infrastructure/config"
	"github.com/propertyops/billback/internal/infrastructure/logger"
	"github.com/propertyops/billback/internal/infrastructure/persistence"
	"github.com/propertyops/billback/internal/interfaces/http/handler"
	"github.com/propertyops/billback/internal/interfaces/http/middleware"
	"github.com/propertyops/billback/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Billback",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Reference data snapshot store: redis when configured, otherwise a
	// process-local store. Both expire entries on TTL; /refdata/reload
	// invalidates eagerly.
	var snapshots cache.SnapshotStore
	if cfg.Redis.Enabled {
		store, err := cache.NewRedisSnapshotStore(
			cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB,
			cache.WithSnapshotTTL(cfg.Redis.TTL),
			cache.WithStoreLogger(log),
		)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		snapshots = store
		log.Info("Redis snapshot store connected", zap.String("addr", cfg.Redis.Addr()))
	} else {
		snapshots = cache.NewInMemorySnapshotStore(
			cache.WithInMemoryTTL(cfg.Redis.TTL),
			cache.WithInMemoryLogger(log),
		)
		log.Info("Using in-memory snapshot store")
	}
	defer func() {
		if err := snapshots.Close(); err != nil {
			log.Error("Error closing snapshot store", zap.Error(err))
		}
	}()

	// Reference data provider: gorm-backed, read through the snapshot store
	refdataRepo := persistence.NewGormRefdataRepository(db.DB)
	provider := cache.NewCachingProvider(refdataRepo, snapshots, log)

	// Timesheet service
	gateway := persistence.NewGormTimesheetGateway(db.DB)
	calc := timesheet.NewCalculator(cfg.Billing.MileageRate)
	service := timesheetapp.NewService(provider, gateway, calc, log)

	// Warm the reference snapshot before accepting traffic. Failed
	// collections are treated as empty and picked up on the next reload.
	service.ReloadReferenceData(context.Background())

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, in order: request ID, panic recovery, request
	// logging, security headers, CORS, body size limit.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.TracingEnabled {
		engine.Use(middleware.Tracing())
		engine.Use(middleware.SpanErrorMarker())
		log.Info("Request tracing enabled")
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewTimesheetHandler(service)).
		Register(handler.NewRefdataHandler(service, provider)).
		Register(handler.NewSystemHandler(db))
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
