package orders

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farm2home/farm2home-backend/pkg/enums"
)

// CreateOrderRequest captures the payload for placing an order.
type CreateOrderRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// UpdateStatusRequest carries the target status for a farmer-side update.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderDTO is the transport shape for an order, enriched with display columns
// joined from the product and the counterparty account. Product fields are
// pointers because the listing may have been deleted since the purchase.
type OrderDTO struct {
	ID           uuid.UUID         `json:"id"`
	ProductID    uuid.UUID         `json:"product_id"`
	Quantity     int               `json:"quantity"`
	TotalPrice   decimal.Decimal   `json:"total_price"`
	Status       enums.OrderStatus `json:"status"`
	ProductName  *string           `json:"product_name,omitempty"`
	ProductUnit  *string           `json:"product_unit,omitempty"`
	ProductImage *string           `json:"product_image,omitempty"`
	FarmName     *string           `json:"farm_name,omitempty"`
	Counterparty *string           `json:"counterparty,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// ListResult is one page of orders plus the pagination envelope.
type ListResult struct {
	Items      []OrderDTO `json:"items"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"total_pages"`
}

// EarningsDTO aggregates a farmer's revenue. Total counts delivered orders,
// Monthly counts delivered orders since the first of the current month, and
// Pending counts orders that are still pending or confirmed.
type EarningsDTO struct {
	Total   decimal.Decimal `json:"total"`
	Monthly decimal.Decimal `json:"monthly"`
	Pending decimal.Decimal `json:"pending"`
}

type orderRecord struct {
	ID           uuid.UUID         `gorm:"column:id"`
	ProductID    uuid.UUID         `gorm:"column:product_id"`
	Quantity     int               `gorm:"column:quantity"`
	TotalPrice   decimal.Decimal   `gorm:"column:total_price"`
	Status       enums.OrderStatus `gorm:"column:status"`
	ProductName  sql.NullString    `gorm:"column:product_name"`
	ProductUnit  sql.NullString    `gorm:"column:product_unit"`
	ProductImage sql.NullString    `gorm:"column:product_image"`
	FarmName     sql.NullString    `gorm:"column:farm_name"`
	Counterparty string            `gorm:"column:counterparty"`
	CreatedAt    time.Time         `gorm:"column:created_at"`
	UpdatedAt    time.Time         `gorm:"column:updated_at"`
}

func (r orderRecord) toDTO() OrderDTO {
	return OrderDTO{
		ID:           r.ID,
		ProductID:    r.ProductID,
		Quantity:     r.Quantity,
		TotalPrice:   r.TotalPrice,
		Status:       r.Status,
		ProductName:  nullStringPtr(r.ProductName),
		ProductUnit:  nullStringPtr(r.ProductUnit),
		ProductImage: nullStringPtr(r.ProductImage),
		FarmName:     nullStringPtr(r.FarmName),
		Counterparty: stringPtr(r.Counterparty),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func nullStringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	v := value.String
	return &v
}

func stringPtr(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
