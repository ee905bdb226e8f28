package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/farm2home/farm2home-backend/api/responses"
	"github.com/farm2home/farm2home-backend/api/validators"
	"github.com/farm2home/farm2home-backend/internal/products"
	pkgerrors "github.com/farm2home/farm2home-backend/pkg/errors"
	"github.com/farm2home/farm2home-backend/pkg/logger"
	"github.com/farm2home/farm2home-backend/pkg/pagination"
)

// ProductsList serves the public browse endpoint with search, category, and
// pagination query parameters.
func ProductsList(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		page, ok := pageParamsFromRequest(r, logg, w)
		if !ok {
			return
		}

		query := products.ListQuery{
			Search:   strings.TrimSpace(r.URL.Query().Get("search")),
			Category: strings.TrimSpace(r.URL.Query().Get("category")),
			Page:     page,
		}

		result, err := svc.List(ctx, query)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ProductsCreate publishes a new listing for the authenticated farmer.
func ProductsCreate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		farmerID, ok := accountIDFromRequest(ctx, logg, w)
		if !ok {
			return
		}

		var body products.CreateProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Create(ctx, farmerID, body)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// ProductsMine lists the authenticated farmer's own listings.
func ProductsMine(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		farmerID, ok := accountIDFromRequest(ctx, logg, w)
		if !ok {
			return
		}

		page, ok := pageParamsFromRequest(r, logg, w)
		if !ok {
			return
		}

		result, err := svc.ListMine(ctx, farmerID, page)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ProductsUpdate applies a partial update to a listing the farmer owns.
func ProductsUpdate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		farmerID, ok := accountIDFromRequest(ctx, logg, w)
		if !ok {
			return
		}

		productID, ok := productIDFromURL(r, logg, w)
		if !ok {
			return
		}

		var body products.UpdateProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Update(ctx, farmerID, productID, body)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ProductsDelete removes a listing the farmer owns.
func ProductsDelete(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		farmerID, ok := accountIDFromRequest(ctx, logg, w)
		if !ok {
			return
		}

		productID, ok := productIDFromURL(r, logg, w)
		if !ok {
			return
		}

		if err := svc.Delete(ctx, farmerID, productID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

func productIDFromURL(r *http.Request, logg *logger.Logger, w http.ResponseWriter) (uuid.UUID, bool) {
	ctx := r.Context()
	raw := strings.TrimSpace(chi.URLParam(r, "productId"))
	if raw == "" {
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
		return uuid.Nil, false
	}
	productID, err := uuid.Parse(raw)
	if err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
		return uuid.Nil, false
	}
	return productID, true
}

func pageParamsFromRequest(r *http.Request, logg *logger.Logger, w http.ResponseWriter) (pagination.Params, bool) {
	ctx := r.Context()
	page, err := validators.ParseQueryInt(r, "page", 1, 1, 1_000_000)
	if err != nil {
		responses.WriteError(ctx, logg, w, err)
		return pagination.Params{}, false
	}
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		responses.WriteError(ctx, logg, w, err)
		return pagination.Params{}, false
	}
	return pagination.Params{Page: page, Limit: limit}, true
}
