package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/merchkit/bxgy-backend/api/responses"
	"github.com/merchkit/bxgy-backend/api/validators"
	"github.com/merchkit/bxgy-backend/internal/bundles"
	pkgerrors "github.com/merchkit/bxgy-backend/pkg/errors"
	"github.com/merchkit/bxgy-backend/pkg/logger"
)

type productSelectionRequest struct {
	Value     int64  `json:"value" validate:"required"`
	Label     string `json:"label"`
	VariantID int64  `json:"variantID" validate:"required"`
}

type createDiscountRequest struct {
	Title       string                  `json:"title" validate:"required,min=1"`
	Heading     string                  `json:"heading" validate:"required,min=1"`
	Description string                  `json:"description" validate:"required,min=1"`
	PercentOff  int                     `json:"percentOff" validate:"required,gt=0"`
	BuyProduct  productSelectionRequest `json:"buyProduct"`
	GetProduct  productSelectionRequest `json:"getProduct"`
}

func (req *createDiscountRequest) toInput() bundles.CreateBundleInput {
	return bundles.CreateBundleInput{
		Title:       req.Title,
		Heading:     req.Heading,
		Description: req.Description,
		PercentOff:  req.PercentOff,
		BuyProduct:  toSelection(req.BuyProduct),
		GetProduct:  toSelection(req.GetProduct),
	}
}

func toSelection(sel productSelectionRequest) bundles.ProductSelection {
	return bundles.ProductSelection{
		ID:        strconv.FormatInt(sel.Value, 10),
		VariantID: strconv.FormatInt(sel.VariantID, 10),
		Label:     sel.Label,
	}
}

// ListDiscounts returns every persisted bundle.
func ListDiscounts(svc bundles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bundle service unavailable"))
			return
		}

		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

// CreateDiscount runs the bundle creation workflow.
func CreateDiscount(svc bundles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bundle service unavailable"))
			return
		}

		var payload createDiscountRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			ctx := logg.WithDiscountGid(logg.WithBundleID(r.Context(), result.BundleID), result.DiscountGid)
			logg.Info(ctx, "bundle created")
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"success":     fmt.Sprintf("Discount %s and metafield created", payload.Title),
			"discountGid": result.DiscountGid,
		})
	}
}

// DeleteDiscount runs the bundle deletion workflow.
func DeleteDiscount(svc bundles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bundle service unavailable"))
			return
		}

		raw := chi.URLParam(r, "id")
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid bundle id"))
			return
		}

		if err := svc.Delete(r.Context(), uint(id)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			logg.Info(logg.WithBundleID(r.Context(), uint(id)), "bundle deleted")
		}

		responses.WriteSuccess(w, map[string]any{"success": true})
	}
}
