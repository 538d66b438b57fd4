package controllers

import (
	"net/http"

	"github.com/merchkit/bxgy-backend/api/responses"
	"github.com/merchkit/bxgy-backend/internal/catalog"
	pkgerrors "github.com/merchkit/bxgy-backend/pkg/errors"
	"github.com/merchkit/bxgy-backend/pkg/logger"
)

// ListProducts serves the live catalog the admin UI picks bundle sides from.
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		products, err := svc.ListProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, products)
	}
}
