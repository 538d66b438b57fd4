package reconcile

import (
	"context"
	"fmt"

	"github.com/merchkit/bxgy-backend/internal/bundles"
	"github.com/merchkit/bxgy-backend/pkg/db/models"
	"github.com/merchkit/bxgy-backend/pkg/logger"
	"github.com/merchkit/bxgy-backend/pkg/metrics"
	"github.com/merchkit/bxgy-backend/pkg/shopify"
	"go.uber.org/multierr"
)

// bundleLister reads the stored bundles being reconciled.
type bundleLister interface {
	FindAll(ctx context.Context) ([]models.Bundle, error)
}

// metafieldAPI is the slice of the Admin API repairs go through.
type metafieldAPI interface {
	FindBundleMetafield(ctx context.Context, productID string) (shopify.Metafield, bool, error)
	CreateProductMetafield(ctx context.Context, productID string, in shopify.MetafieldInput) (*shopify.Metafield, error)
}

// Params configures a reconciler run.
type Params struct {
	Logger   *logger.Logger
	Repo     bundleLister
	Commerce metafieldAPI
	Metrics  *metrics.WorkflowMetrics
	DryRun   bool
}

// Result summarizes one reconciliation pass.
type Result struct {
	Checked      int
	Repaired     int
	Inconsistent int
}

// Reconciler walks every stored bundle and re-attaches missing storefront
// snapshot metafields. Rows without a discount gid cannot be repaired and
// are only counted.
type Reconciler struct {
	logg     *logger.Logger
	repo     bundleLister
	commerce metafieldAPI
	metrics  *metrics.WorkflowMetrics
	dryRun   bool
}

// New builds a reconciler.
func New(params Params) (*Reconciler, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("bundle repository required")
	}
	if params.Commerce == nil {
		return nil, fmt.Errorf("commerce client required")
	}
	return &Reconciler{
		logg:     params.Logger,
		repo:     params.Repo,
		commerce: params.Commerce,
		metrics:  params.Metrics,
		dryRun:   params.DryRun,
	}, nil
}

// Run executes a single reconciliation pass. Per-bundle failures are
// aggregated so one broken bundle does not stop the sweep.
func (r *Reconciler) Run(ctx context.Context) (Result, error) {
	logCtx := r.logg.WithField(ctx, "job", "bundle-reconcile")

	rows, err := r.repo.FindAll(logCtx)
	if err != nil {
		return Result{}, fmt.Errorf("list bundles for reconciliation: %w", err)
	}

	var errs error
	result := Result{Checked: len(rows)}
	for i := range rows {
		repaired, inconsistent, err := r.reconcileBundle(logCtx, &rows[i])
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if repaired {
			result.Repaired++
		}
		if inconsistent {
			result.Inconsistent++
		}
	}

	reportCtx := r.logg.WithFields(logCtx, map[string]any{
		"checked":      result.Checked,
		"repaired":     result.Repaired,
		"inconsistent": result.Inconsistent,
		"dry_run":      r.dryRun,
	})
	r.logg.Info(reportCtx, "bundle reconcile pass complete")
	return result, errs
}

func (r *Reconciler) reconcileBundle(ctx context.Context, bundle *models.Bundle) (repaired, inconsistent bool, err error) {
	ctx = r.logg.WithBundleID(ctx, bundle.ID)

	if bundle.DiscountGid == "" {
		r.metrics.IncDrift()
		r.logg.Warn(ctx, "bundle row has no discount gid")
		return false, true, nil
	}

	_, found, err := r.commerce.FindBundleMetafield(ctx, bundle.BuyProductID)
	if err != nil {
		return false, false, fmt.Errorf("bundle %d: inspect metafield: %w", bundle.ID, err)
	}
	if found {
		return false, false, nil
	}

	r.metrics.IncDrift()
	if r.dryRun {
		r.logg.Info(ctx, "snapshot metafield missing (dry run, not repaired)")
		return false, true, nil
	}

	value, err := bundles.SnapshotValue(bundle)
	if err != nil {
		return false, true, fmt.Errorf("bundle %d: %w", bundle.ID, err)
	}
	if _, err := r.commerce.CreateProductMetafield(ctx, bundle.BuyProductID, shopify.MetafieldInput{
		Namespace: shopify.MetafieldNamespace,
		Key:       shopify.MetafieldKey,
		Type:      shopify.MetafieldTypeJSON,
		Value:     value,
	}); err != nil {
		return false, true, fmt.Errorf("bundle %d: re-attach metafield: %w", bundle.ID, err)
	}

	r.logg.Info(ctx, "snapshot metafield re-attached")
	return true, false, nil
}
