package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FavoriteItem links an account to a favorited product.
type FavoriteItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	AccountID uuid.UUID `gorm:"column:account_id;type:uuid;not null;index:favorite_items_account_id_idx;uniqueIndex:favorite_items_account_product_key"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index:favorite_items_product_id_idx;uniqueIndex:favorite_items_account_product_key"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// BeforeCreate assigns the identifier app-side so every driver behaves the same.
func (f *FavoriteItem) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
