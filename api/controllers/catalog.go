package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/anpos/pos-backend/api/responses"
	"github.com/anpos/pos-backend/api/validators"
	"github.com/anpos/pos-backend/internal/catalog"
	pkgerrors "github.com/anpos/pos-backend/pkg/errors"
	"github.com/anpos/pos-backend/pkg/logger"
)

const maxQueryLen = 128

// CatalogSearch matches q against barcodes and item names.
func CatalogSearch(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", catalog.DefaultLimit, 1, catalog.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		query := validators.ParseQueryString(r, "q", maxQueryLen)

		products, err := svc.Search(r.Context(), query, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// CatalogBarcode resolves a scanned code to a product and purchasing type.
func CatalogBarcode(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		code := validators.SanitizeString(chi.URLParam(r, "code"), maxQueryLen)
		match, err := svc.FindByBarcode(r.Context(), code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, match)
	}
}
