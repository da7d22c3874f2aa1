// Command httpd runs the ClinicFlow content service HTTP server.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/clinicflow/content-service/internal/api"
	"github.com/clinicflow/content-service/internal/config"
	"github.com/clinicflow/content-service/internal/history"
	"github.com/clinicflow/content-service/internal/httpserver"
	"github.com/clinicflow/content-service/internal/logger"
	"github.com/clinicflow/content-service/internal/metrics"
	"github.com/clinicflow/content-service/internal/profile"
	"github.com/clinicflow/content-service/internal/research"
	"github.com/clinicflow/content-service/internal/resolver"
	"github.com/clinicflow/content-service/internal/seo"
	"github.com/clinicflow/content-service/internal/store"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load(config.Path("config.yml"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		return 1
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	contentStore, err := store.Load()
	if err != nil {
		log.Error("Failed to load content catalog", logger.Error(err))
		return 1
	}
	log.Info("Content catalog loaded",
		logger.Int("records", contentStore.Size()),
		logger.Strings("collections", contentStore.CollectionNames()),
	)

	checks := make(map[string]httpserver.HealthChecker)

	redisClient, err := profile.NewRedisClient(profile.RedisConfig{
		Address:  cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	var profiles profile.Repository
	if err != nil {
		// Profiles degrade to per-process memory when Redis is unreachable.
		log.Warn("Redis unavailable, using in-memory profile store", logger.Error(err))
		profiles = profile.NewMemoryRepository()
	} else {
		defer redisClient.Close()
		profiles = profile.NewRedisRepository(redisClient, log)
		checks["redis"] = redisCheck(redisClient)
	}

	var consultations history.Repository
	if cfg.Database.Enabled() {
		db, dbErr := history.NewPostgresConnection(cfg.Database.DSN())
		if dbErr != nil {
			log.Error("Failed to connect to database", logger.Error(dbErr))
			return 1
		}
		defer db.Close()
		db.SetMaxOpenConns(cfg.Database.MaxConnections)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
		consultations = history.NewPostgresRepository(db)
		checks["database"] = databaseCheck(db)
		log.Info("Consultation history using PostgreSQL", logger.String("host", cfg.Database.Host))
	} else {
		consultations = history.NewMemoryRepository()
		log.Info("Consultation history using in-memory store")
	}

	var source research.Source
	if cfg.Research.URL == "" {
		source = research.NewDemoSource()
		log.Info("Research source running in demo mode")
	} else {
		source = research.NewClient(research.ClientConfig{
			URL:        cfg.Research.URL,
			Timeout:    cfg.Research.Timeout,
			MaxRetries: cfg.Research.MaxRetries,
		}, log)
		log.Info("Research source configured", logger.String("url", cfg.Research.URL))
	}

	handler := api.NewHandler(
		contentStore,
		resolver.New(contentStore),
		seo.New(seo.Site{
			Name:         cfg.Site.Name,
			BaseURL:      cfg.Site.BaseURL,
			Organization: cfg.Site.Organization,
			LogoURL:      cfg.Site.LogoURL,
		}),
		cfg.Site.BaseURL,
		source,
		profiles,
		consultations,
		metrics.New(),
		log,
	)

	server := httpserver.New(&httpserver.Config{
		ServiceName:     cfg.Service.Name,
		ServiceVersion:  cfg.Service.Version,
		Port:            cfg.Service.Port,
		Debug:           cfg.Service.Debug,
		ReadTimeout:     cfg.Service.ReadTimeout,
		WriteTimeout:    cfg.Service.WriteTimeout,
		IdleTimeout:     cfg.Service.IdleTimeout,
		ShutdownTimeout: cfg.Service.ShutdownTimeout,
		CORS: httpserver.CORSConfig{
			Enabled:          cfg.CORS.Enabled,
			AllowedOrigins:   cfg.CORS.AllowedOrigins,
			AllowedMethods:   cfg.CORS.AllowedMethods,
			AllowedHeaders:   cfg.CORS.AllowedHeaders,
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           time.Duration(cfg.CORS.MaxAge) * time.Second,
		},
	}, log, checks, func(router *gin.Engine) {
		handler.RegisterRoutes(router, cfg.Auth.JWTSecret)
	})

	log.Info("Starting content service",
		logger.String("version", cfg.Service.Version),
		logger.Int("port", cfg.Service.Port),
	)

	if err := server.Run(); err != nil {
		log.Error("Server error", logger.Error(err))
		return 1
	}

	log.Info("Server stopped")
	return 0
}

func redisCheck(client *redis.Client) httpserver.HealthChecker {
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return client.Ping(ctx).Err()
	}
}

func databaseCheck(db *sqlx.DB) httpserver.HealthChecker {
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return db.PingContext(ctx)
	}
}
