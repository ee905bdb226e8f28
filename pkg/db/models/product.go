package models

import (
	"time"

	"github.com/farm2home/farm2home-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a farmer's sellable listing.
type Product struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	FarmerID    uuid.UUID             `gorm:"column:farmer_id;type:uuid;not null;index:products_farmer_id_idx"`
	Name        string                `gorm:"column:name;not null"`
	Category    enums.ProductCategory `gorm:"column:category;not null;index:products_category_idx"`
	Price       decimal.Decimal       `gorm:"column:price;type:numeric(12,2);not null"`
	Quantity    int                   `gorm:"column:quantity;not null;index:products_quantity_idx"`
	Unit        string                `gorm:"column:unit;not null"`
	Image       *string               `gorm:"column:image"`
	FarmName    string                `gorm:"column:farm_name;not null"`
	FarmAddress string                `gorm:"column:farm_address;not null"`
	FarmPhone   string                `gorm:"column:farm_phone;not null"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime;index:products_created_at_idx"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns the identifier app-side so every driver behaves the same.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
