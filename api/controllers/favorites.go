package controllers

import (
	"net/http"

	"github.com/farm2home/farm2home-backend/api/responses"
	"github.com/farm2home/farm2home-backend/internal/favorites"
	pkgerrors "github.com/farm2home/farm2home-backend/pkg/errors"
	"github.com/farm2home/farm2home-backend/pkg/logger"
)

// FavoritesToggle flips the favorite state for a product.
func FavoritesToggle(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "favorites service unavailable"))
			return
		}

		accountID, ok := accountIDFromRequest(ctx, logg, w)
		if !ok {
			return
		}

		productID, ok := productIDFromURL(r, logg, w)
		if !ok {
			return
		}

		result, err := svc.Toggle(ctx, accountID, productID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// FavoritesList returns the account's favorited products, newest save first.
func FavoritesList(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "favorites service unavailable"))
			return
		}

		accountID, ok := accountIDFromRequest(ctx, logg, w)
		if !ok {
			return
		}

		page, ok := pageParamsFromRequest(r, logg, w)
		if !ok {
			return
		}

		result, err := svc.List(ctx, accountID, page)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
