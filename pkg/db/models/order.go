package models

import (
	"time"

	"github.com/farm2home/farm2home-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order captures a client's purchase of one product. The farmer reference is
// denormalized from the product at creation time and the total is frozen.
type Order struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	ClientID   uuid.UUID         `gorm:"column:client_id;type:uuid;not null;index:orders_client_id_idx"`
	FarmerID   uuid.UUID         `gorm:"column:farmer_id;type:uuid;not null;index:orders_farmer_id_idx"`
	ProductID  uuid.UUID         `gorm:"column:product_id;type:uuid;not null"`
	Quantity   int               `gorm:"column:quantity;not null"`
	TotalPrice decimal.Decimal   `gorm:"column:total_price;type:numeric(12,2);not null"`
	Status     enums.OrderStatus `gorm:"column:status;not null;default:pending;index:orders_status_idx"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns the identifier app-side so every driver behaves the same.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
