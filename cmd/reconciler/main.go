package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/merchkit/bxgy-backend/internal/bundles"
	"github.com/merchkit/bxgy-backend/internal/reconcile"
	"github.com/merchkit/bxgy-backend/pkg/config"
	"github.com/merchkit/bxgy-backend/pkg/db"
	"github.com/merchkit/bxgy-backend/pkg/logger"
	"github.com/merchkit/bxgy-backend/pkg/metrics"
	"github.com/merchkit/bxgy-backend/pkg/shopify"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "reconciler"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	dryRunFlag := flag.Bool("dry-run", false, "report drift without repairing")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "reconciler",
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

	commerce, err := shopify.NewClient(cfg.Shopify, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create shopify client", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	reconciler, err := reconcile.New(reconcile.Params{
		Logger:   logg,
		Repo:     bundles.NewRepository(dbClient.DB()),
		Commerce: commerce,
		Metrics:  metrics.NewWorkflowMetrics(registry),
		DryRun:   *dryRunFlag || cfg.Reconcile.DryRun,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create reconciler", err)
		os.Exit(1)
	}

	result, err := reconciler.Run(context.Background())
	if err != nil {
		ctx := logg.WithFields(context.Background(), map[string]any{
			"checked":      result.Checked,
			"repaired":     result.Repaired,
			"inconsistent": result.Inconsistent,
		})
		logg.Error(ctx, "reconcile pass finished with errors", err)
		os.Exit(1)
	}
}
