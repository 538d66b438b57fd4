package bundles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/merchkit/bxgy-backend/pkg/db/models"
	pkgerrors "github.com/merchkit/bxgy-backend/pkg/errors"
	"github.com/merchkit/bxgy-backend/pkg/metrics"
	"github.com/merchkit/bxgy-backend/pkg/shopify"
	"gorm.io/gorm"
)

const (
	workflowCreate = "bundle_create"
	workflowDelete = "bundle_delete"
)

// CommerceAPI is the slice of the storefront Admin API the bundle
// workflows depend on.
type CommerceAPI interface {
	CreateBxgyDiscount(ctx context.Context, in shopify.BxgyDiscountInput) (string, error)
	DeleteAutomaticDiscount(ctx context.Context, gid string) error
	FindBundleMetafield(ctx context.Context, productID string) (shopify.Metafield, bool, error)
	CreateProductMetafield(ctx context.Context, productID string, in shopify.MetafieldInput) (*shopify.Metafield, error)
	DeleteProductMetafield(ctx context.Context, productID string, metafieldID int64) error
}

// Service exposes the promotional bundle workflows.
type Service interface {
	Create(ctx context.Context, input CreateBundleInput) (*CreateBundleResult, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]BundleDTO, error)
}

// ProductSelection identifies one side of a buy-x-get-y pairing.
type ProductSelection struct {
	ID        string
	VariantID string
	Label     string
}

// CreateBundleInput holds the validated payload to create a bundle.
type CreateBundleInput struct {
	Title       string
	Heading     string
	Description string
	PercentOff  int
	BuyProduct  ProductSelection
	GetProduct  ProductSelection
}

// CreateBundleResult reports the identifiers minted by a create workflow.
type CreateBundleResult struct {
	BundleID    uint
	DiscountGid string
}

// metafieldSnapshot is the JSON document written to the buy product so the
// storefront theme can render the promotion without a round trip here.
type metafieldSnapshot struct {
	DiscountGid  string `json:"discountGid"`
	Title        string `json:"title"`
	PercentOff   int    `json:"percentOff"`
	GetVariantID string `json:"getVariantId"`
	GetProduct   string `json:"getProduct"`
	Heading      string `json:"heading"`
	Description  string `json:"description"`
}

type service struct {
	repo     *Repository
	commerce CommerceAPI
	metrics  *metrics.WorkflowMetrics
}

// NewService constructs a bundle service instance.
func NewService(repo *Repository, commerce CommerceAPI, workflowMetrics *metrics.WorkflowMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("bundle repository required")
	}
	if commerce == nil {
		return nil, fmt.Errorf("commerce client required")
	}
	return &service{
		repo:     repo,
		commerce: commerce,
		metrics:  workflowMetrics,
	}, nil
}

// Create runs the three-step create workflow: mint the automatic discount,
// persist the bundle row, then attach the snapshot metafield to the buy
// product. Later steps are not rolled back when an earlier one already
// succeeded; the reconciler picks up the pieces.
func (s *service) Create(ctx context.Context, input CreateBundleInput) (*CreateBundleResult, error) {
	start := time.Now()
	// failed runs count toward the latency histogram too
	defer func() { s.metrics.ObserveDuration(workflowCreate, time.Since(start)) }()

	if input.PercentOff <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "percentOff must be greater than zero")
	}
	if input.BuyProduct.ID == "" || input.GetProduct.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buy and get products are required")
	}

	gid, err := s.commerce.CreateBxgyDiscount(ctx, shopify.BxgyDiscountInput{
		Title:        input.Title,
		PercentOff:   input.PercentOff,
		BuyProductID: input.BuyProduct.ID,
		GetProductID: input.GetProduct.ID,
	})
	if err != nil {
		s.metrics.IncFailure(workflowCreate)
		return nil, err
	}

	bundle := &models.Bundle{
		DiscountGid:  gid,
		Title:        input.Title,
		Heading:      input.Heading,
		Description:  input.Description,
		PercentOff:   input.PercentOff,
		BuyProductID: input.BuyProduct.ID,
		BuyVariantID: input.BuyProduct.VariantID,
		GetProductID: input.GetProduct.ID,
		GetVariantID: input.GetProduct.VariantID,
	}
	if _, err := s.repo.Create(ctx, bundle); err != nil {
		s.metrics.IncFailure(workflowCreate)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert bundle")
	}

	if err := s.attachSnapshot(ctx, bundle); err != nil {
		s.metrics.IncFailure(workflowCreate)
		return nil, err
	}

	s.metrics.IncSuccess(workflowCreate)
	return &CreateBundleResult{BundleID: bundle.ID, DiscountGid: gid}, nil
}

// Delete tears the bundle down in reverse order: snapshot metafield first,
// then the automatic discount, then the row. A bundle row without a
// discount gid is unusable and rejected before any remote call.
func (s *service) Delete(ctx context.Context, id uint) error {
	start := time.Now()
	defer func() { s.metrics.ObserveDuration(workflowDelete, time.Since(start)) }()

	bundle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "bundle not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load bundle")
	}
	if bundle.DiscountGid == "" {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "bundle has no discount gid")
	}

	mf, found, err := s.commerce.FindBundleMetafield(ctx, bundle.BuyProductID)
	if err != nil {
		s.metrics.IncFailure(workflowDelete)
		return err
	}
	if found {
		if err := s.commerce.DeleteProductMetafield(ctx, bundle.BuyProductID, mf.ID); err != nil {
			s.metrics.IncFailure(workflowDelete)
			return err
		}
	}

	if err := s.commerce.DeleteAutomaticDiscount(ctx, bundle.DiscountGid); err != nil {
		s.metrics.IncFailure(workflowDelete)
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.metrics.IncFailure(workflowDelete)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete bundle")
	}

	s.metrics.IncSuccess(workflowDelete)
	return nil
}

// List returns all stored bundles, newest first.
func (s *service) List(ctx context.Context) ([]BundleDTO, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list bundles")
	}
	return NewBundleDTOs(rows), nil
}

func (s *service) attachSnapshot(ctx context.Context, bundle *models.Bundle) error {
	value, err := SnapshotValue(bundle)
	if err != nil {
		return err
	}
	_, err = s.commerce.CreateProductMetafield(ctx, bundle.BuyProductID, shopify.MetafieldInput{
		Namespace: shopify.MetafieldNamespace,
		Key:       shopify.MetafieldKey,
		Type:      shopify.MetafieldTypeJSON,
		Value:     value,
	})
	return err
}

// SnapshotValue renders the bundle's metafield snapshot JSON.
func SnapshotValue(bundle *models.Bundle) (string, error) {
	snapshot := metafieldSnapshot{
		DiscountGid:  bundle.DiscountGid,
		Title:        bundle.Title,
		PercentOff:   bundle.PercentOff,
		GetVariantID: bundle.GetVariantID,
		GetProduct:   bundle.GetProductID,
		Heading:      bundle.Heading,
		Description:  bundle.Description,
	}
	value, err := json.Marshal(snapshot)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal metafield snapshot")
	}
	return string(value), nil
}
