package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/farm2home/farm2home-backend/internal/products"
	"github.com/farm2home/farm2home-backend/pkg/db"
	"github.com/farm2home/farm2home-backend/pkg/db/models"
	"github.com/farm2home/farm2home-backend/pkg/enums"
	pkgerrors "github.com/farm2home/farm2home-backend/pkg/errors"
	"github.com/farm2home/farm2home-backend/pkg/pagination"
)

// Service defines the behavior needed by the orders controller.
type Service interface {
	Create(ctx context.Context, clientID uuid.UUID, req CreateOrderRequest) (*OrderDTO, error)
	ListMine(ctx context.Context, clientID uuid.UUID, page pagination.Params) (*ListResult, error)
	ListFarmerOrders(ctx context.Context, farmerID uuid.UUID, page pagination.Params) (*ListResult, error)
	UpdateStatus(ctx context.Context, farmerID, orderID uuid.UUID, req UpdateStatusRequest) (*OrderDTO, error)
	Cancel(ctx context.Context, clientID, orderID uuid.UUID) (*OrderDTO, error)
	Earnings(ctx context.Context, farmerID uuid.UUID) (*EarningsDTO, error)
}

type service struct {
	db  *db.Client
	now func() time.Time
}

// ServiceParams bundles the dependencies required to build an orders service.
type ServiceParams struct {
	DB *db.Client

	// Now overrides the wall clock, used by the earnings month boundary.
	Now func() time.Time
}

// NewService constructs an orders service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{db: params.DB, now: now}, nil
}

func (s *service) Create(ctx context.Context, clientID uuid.UUID, req CreateOrderRequest) (*OrderDTO, error) {
	if req.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	if req.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	var dto OrderDTO
	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		product, err := products.NewRepository(tx).FindByID(ctx, req.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
		}

		repo := NewRepository(tx)

		ok, err := repo.DecrementStock(ctx, product.ID, req.Quantity)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reserve stock")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeInsufficientStock,
				fmt.Sprintf("only %d %s available", product.Quantity, product.Unit))
		}

		order := &models.Order{
			ClientID:   clientID,
			FarmerID:   product.FarmerID,
			ProductID:  product.ID,
			Quantity:   req.Quantity,
			TotalPrice: product.Price.Mul(decimal.NewFromInt(int64(req.Quantity))),
			Status:     enums.OrderStatusPending,
		}
		if _, err := repo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
		}

		dto = orderWithProductDTO(order, product)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return &dto, nil
}

func (s *service) ListMine(ctx context.Context, clientID uuid.UUID, page pagination.Params) (*ListResult, error) {
	rows, total, err := NewRepository(s.db.DB()).ListByClient(ctx, clientID, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return buildListResult(rows, total, page), nil
}

func (s *service) ListFarmerOrders(ctx context.Context, farmerID uuid.UUID, page pagination.Params) (*ListResult, error) {
	rows, total, err := NewRepository(s.db.DB()).ListByFarmer(ctx, farmerID, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list farmer orders")
	}
	return buildListResult(rows, total, page), nil
}

func (s *service) UpdateStatus(ctx context.Context, farmerID, orderID uuid.UUID, req UpdateStatusRequest) (*OrderDTO, error) {
	next, err := enums.ParseOrderStatus(strings.TrimSpace(req.Status))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}
	if next == enums.OrderStatusCancelled {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cancellation uses the cancel endpoint")
	}

	repo := NewRepository(s.db.DB())

	order, err := repo.FindForFarmer(ctx, orderID, farmerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup order")
	}

	if !order.Status.CanTransitionTo(next) {
		return nil, invalidTransition(order.Status, next)
	}

	moved, err := repo.TransitionStatus(ctx, order.ID, order.Status, next)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update status")
	}
	if !moved {
		// Lost a race with another update; the stored status moved on.
		return nil, invalidTransition(order.Status, next)
	}

	order.Status = next
	dto := orderBasicDTO(order)
	return &dto, nil
}

func (s *service) Cancel(ctx context.Context, clientID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := NewRepository(s.db.DB()).FindForClient(ctx, orderID, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup order")
	}

	if order.Status != enums.OrderStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidTransition, "cannot cancel confirmed orders")
	}

	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)

		moved, err := repo.TransitionStatus(ctx, order.ID, enums.OrderStatusPending, enums.OrderStatusCancelled)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancel order")
		}
		if !moved {
			return pkgerrors.New(pkgerrors.CodeInvalidTransition, "cannot cancel confirmed orders")
		}

		if err := repo.RestoreStock(ctx, order.ProductID, order.Quantity); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "restore stock")
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	order.Status = enums.OrderStatusCancelled
	dto := orderBasicDTO(order)
	return &dto, nil
}

func (s *service) Earnings(ctx context.Context, farmerID uuid.UUID) (*EarningsDTO, error) {
	repo := NewRepository(s.db.DB())

	total, err := repo.SumDelivered(ctx, farmerID, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum delivered")
	}

	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthly, err := repo.SumDelivered(ctx, farmerID, &monthStart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum monthly")
	}

	pending, err := repo.SumOutstanding(ctx, farmerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum outstanding")
	}

	return &EarningsDTO{Total: total, Monthly: monthly, Pending: pending}, nil
}

func invalidTransition(from, to enums.OrderStatus) error {
	return pkgerrors.New(pkgerrors.CodeInvalidTransition,
		fmt.Sprintf("cannot move order from %s to %s", from, to))
}

func buildListResult(rows []orderRecord, total int64, page pagination.Params) *ListResult {
	page = page.Normalize()
	items := make([]OrderDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toDTO())
	}
	return &ListResult{
		Items:      items,
		Total:      total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: pagination.TotalPages(total, page.Limit),
	}
}

func orderWithProductDTO(order *models.Order, product *models.Product) OrderDTO {
	dto := orderBasicDTO(order)
	dto.ProductName = &product.Name
	dto.ProductUnit = &product.Unit
	dto.ProductImage = product.Image
	dto.FarmName = &product.FarmName
	return dto
}

func orderBasicDTO(order *models.Order) OrderDTO {
	return OrderDTO{
		ID:         order.ID,
		ProductID:  order.ProductID,
		Quantity:   order.Quantity,
		TotalPrice: order.TotalPrice,
		Status:     order.Status,
		CreatedAt:  order.CreatedAt,
		UpdatedAt:  order.UpdatedAt,
	}
}
