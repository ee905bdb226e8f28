package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/farm2home/farm2home-backend/api/responses"
	"github.com/farm2home/farm2home-backend/api/validators"
	"github.com/farm2home/farm2home-backend/internal/orders"
	pkgerrors "github.com/farm2home/farm2home-backend/pkg/errors"
	"github.com/farm2home/farm2home-backend/pkg/logger"
)

// OrdersCreate places an order against a listing, reserving stock atomically.
func OrdersCreate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		clientID, ok := accountIDFromRequest(ctx, logg, w)
		if !ok {
			return
		}

		var body orders.CreateOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Create(ctx, clientID, body)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// OrdersMine lists the authenticated client's purchases.
func OrdersMine(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		clientID, ok := accountIDFromRequest(ctx, logg, w)
		if !ok {
			return
		}

		page, ok := pageParamsFromRequest(r, logg, w)
		if !ok {
			return
		}

		result, err := svc.ListMine(ctx, clientID, page)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// OrdersForFarmer lists the orders placed against the farmer's listings.
func OrdersForFarmer(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
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

		result, err := svc.ListFarmerOrders(ctx, farmerID, page)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// OrdersUpdateStatus moves an order along the farmer-side lifecycle.
func OrdersUpdateStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		farmerID, ok := accountIDFromRequest(ctx, logg, w)
		if !ok {
			return
		}

		orderID, ok := orderIDFromURL(r, logg, w)
		if !ok {
			return
		}

		var body orders.UpdateStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.UpdateStatus(ctx, farmerID, orderID, body)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// OrdersCancel cancels a pending order and restores the reserved stock.
func OrdersCancel(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		clientID, ok := accountIDFromRequest(ctx, logg, w)
		if !ok {
			return
		}

		orderID, ok := orderIDFromURL(r, logg, w)
		if !ok {
			return
		}

		result, err := svc.Cancel(ctx, clientID, orderID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// OrdersEarnings aggregates the farmer's delivered and outstanding revenue.
func OrdersEarnings(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		farmerID, ok := accountIDFromRequest(ctx, logg, w)
		if !ok {
			return
		}

		result, err := svc.Earnings(ctx, farmerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func orderIDFromURL(r *http.Request, logg *logger.Logger, w http.ResponseWriter) (uuid.UUID, bool) {
	ctx := r.Context()
	raw := strings.TrimSpace(chi.URLParam(r, "orderId"))
	if raw == "" {
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order id is required"))
		return uuid.Nil, false
	}
	orderID, err := uuid.Parse(raw)
	if err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
		return uuid.Nil, false
	}
	return orderID, true
}
