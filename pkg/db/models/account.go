package models

import (
	"time"

	"github.com/farm2home/farm2home-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account represents the canonical identity entity, client or farmer.
type Account struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	Name         string            `gorm:"column:name;not null"`
	Username     *string           `gorm:"column:username;uniqueIndex"`
	Email        string            `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash string            `gorm:"column:password_hash;not null"`
	Role         enums.AccountRole `gorm:"column:role;not null"`
	Phone        *string           `gorm:"column:phone"`
	Address      *string           `gorm:"column:address"`
	FarmName     *string           `gorm:"column:farm_name"`
	ProfileImage *string           `gorm:"column:profile_image"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns the identifier app-side so every driver behaves the same.
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
