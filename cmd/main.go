package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abdul977/muahibstores/internal/catalog"
	"github.com/abdul977/muahibstores/internal/handler"
	mid "github.com/abdul977/muahibstores/internal/middleware"
	"github.com/abdul977/muahibstores/internal/model"
	"github.com/abdul977/muahibstores/internal/repository"
	"github.com/abdul977/muahibstores/internal/storage"
	"github.com/abdul977/muahibstores/internal/visitor"
	"github.com/abdul977/muahibstores/internal/whatsapp"
	"github.com/abdul977/muahibstores/pkg/config"
	"github.com/abdul977/muahibstores/pkg/database"
	"github.com/abdul977/muahibstores/pkg/jwtutil"
	"github.com/abdul977/muahibstores/pkg/logger"
	"github.com/abdul977/muahibstores/pkg/metrics"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const serviceName = "muahib-storefront"

func main() {
	// Load configuration
	cfg, err := config.Load(serviceName)
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: cfg.ServiceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting "+serviceName, cfg.LogConfig()...)

	// Initialize Prometheus metrics
	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		log.Fatal("Failed to register metrics", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checks := map[string]handler.Check{}

	// Catalogue and lead stores
	var (
		products repository.ProductRepository
		numbers  repository.WhatsAppNumberRepository
	)
	switch cfg.Store.Driver {
	case "postgres":
		db, err := database.InitDB(&cfg.DB)
		if err != nil {
			log.Fatal("Failed to initialize database", zap.Error(err))
		}
		if err := database.MigrateModels(db, &model.Product{}, &model.WhatsAppNumber{}); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
		products = repository.NewProductRepository(db)
		numbers = repository.NewWhatsAppNumberRepository(db)
		checks["database"] = func(ctx context.Context) error { return database.Ping(ctx, db) }
		defer closeDB(db)
	default:
		log.Warn("Using in-memory stores; data is lost on restart")
		products = repository.NewMemoryProductRepository()
		numbers = repository.NewMemoryWhatsAppRepository()
	}

	// Visitor state
	visitorStore, redisClient, err := newVisitorStore(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize visitor store", zap.Error(err))
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
		defer redisClient.Close()
	}

	// Media buckets
	images, err := storage.NewLocalBucket(cfg.Storage.RootDir, storage.BucketProductImages, cfg.Storage.PublicBaseURL)
	if err != nil {
		log.Fatal("Failed to initialize storage", zap.Error(err))
	}
	videos, err := storage.NewLocalBucket(cfg.Storage.RootDir, storage.BucketVideos, cfg.Storage.PublicBaseURL)
	if err != nil {
		log.Fatal("Failed to initialize storage", zap.Error(err))
	}
	mediaStore := storage.NewMediaStore(images, videos, &cfg.Storage)

	// Services
	catalogSvc := catalog.NewService(products, mediaStore)
	tracker := visitor.NewTracker(visitorStore, cfg.Visitor.CooldownDays, cfg.Visitor.PopupDelay)
	whatsappSvc := whatsapp.NewService(numbers, tracker, &cfg.WhatsApp)

	// Initialize JWT utility
	jwtUtil := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:      cfg.JWT.SigningKey,
		ExpirationHours: cfg.JWT.ExpirationHours,
	})
	authHandler, err := handler.NewAuthHandler(&cfg.Admin, jwtUtil)
	if err != nil {
		log.Fatal("Failed to initialize admin login", zap.Error(err))
	}

	// Initialize Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowCredentials: true,
	}))
	e.Use(mid.RequestIDMiddleware())
	e.Use(logger.Middleware())
	e.Use(metrics.Middleware())

	// Public media
	e.Static(storage.PublicPathPrefix+"/"+images.Name(), images.Dir())
	e.Static(storage.PublicPathPrefix+"/"+videos.Name(), videos.Dir())

	routes := &handler.Routes{
		Health:        handler.NewHealthHandler(serviceName, checks),
		Products:      handler.NewProductHandler(catalogSvc, whatsappSvc),
		Media:         handler.NewMediaHandler(mediaStore),
		Visitors:      handler.NewVisitorHandler(tracker),
		WhatsApp:      handler.NewWhatsAppHandler(whatsappSvc),
		Auth:          authHandler,
		JWT:           jwtUtil,
		Limiter:       mid.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst),
		VisitorCookie: cfg.Visitor.CookieName,
	}
	routes.Register(e)

	// Start server
	go func() {
		log.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received; shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
	log.Info("Server stopped")
}

func newVisitorStore(ctx context.Context, cfg *config.Config) (visitor.Store, *redis.Client, error) {
	switch cfg.Visitor.Store {
	case "file":
		store, err := visitor.NewFileStore(cfg.Visitor.Dir)
		return store, nil, err
	case "redis":
		client, err := database.ConnectRedis(ctx, &cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return visitor.NewRedisStore(client), client, nil
	case "memory":
		return visitor.NewMemoryStore(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported visitor store %q", cfg.Visitor.Store)
	}
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
