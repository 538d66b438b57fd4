package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/merchkit/bxgy-backend/api/controllers"
	"github.com/merchkit/bxgy-backend/api/routes"
	"github.com/merchkit/bxgy-backend/internal/bundles"
	"github.com/merchkit/bxgy-backend/internal/catalog"
	"github.com/merchkit/bxgy-backend/pkg/config"
	"github.com/merchkit/bxgy-backend/pkg/db"
	"github.com/merchkit/bxgy-backend/pkg/logger"
	"github.com/merchkit/bxgy-backend/pkg/metrics"
	"github.com/merchkit/bxgy-backend/pkg/migrate"
	pkgredis "github.com/merchkit/bxgy-backend/pkg/redis"
	"github.com/merchkit/bxgy-backend/pkg/shopify"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var (
		redisPinger controllers.Pinger
		idemStore   pkgredis.IdempotencyStore
	)
	if cfg.Redis.Enabled() {
		redisClient, err := pkgredis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		redisPinger = redisClient
		idemStore = redisClient
	}

	commerce, err := shopify.NewClient(cfg.Shopify, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create shopify client", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	workflowMetrics := metrics.NewWorkflowMetrics(registry)

	bundleService, err := bundles.NewService(bundles.NewRepository(dbClient.DB()), commerce, workflowMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create bundle service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(commerce)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Params{
			Config:           cfg,
			Logger:           logg,
			DBPinger:         dbClient,
			RedisPinger:      redisPinger,
			IdempotencyStore: idemStore,
			Registry:         registry,
			BundleService:    bundleService,
			CatalogService:   catalogService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
