package favorites

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farm2home/farm2home-backend/pkg/db"
	"github.com/farm2home/farm2home-backend/pkg/db/models"
	"github.com/farm2home/farm2home-backend/pkg/pagination"
)

// Repository encapsulates favorites persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a favorites repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Toggle removes the favorite when it exists, otherwise records it. Returns
// true when the product ends up favorited.
func (r *Repository) Toggle(ctx context.Context, accountID, productID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("account_id = ? AND product_id = ?", accountID, productID).
		Delete(&models.FavoriteItem{})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return false, nil
	}

	item := &models.FavoriteItem{AccountID: accountID, ProductID: productID}
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		// A concurrent toggle can land the row first; the end state is the same.
		if db.IsUniqueViolation(err) {
			return true, nil
		}
		return false, err
	}
	return true, nil
}

// List returns one page of the account's favorited products, most recently
// saved first. Favorites whose product has been deleted are excluded by the
// inner join.
func (r *Repository) List(ctx context.Context, accountID uuid.UUID, page pagination.Params) ([]models.Product, int64, error) {
	page = page.Normalize()

	base := r.db.WithContext(ctx).
		Table("favorite_items fi").
		Joins("JOIN products p ON p.id = fi.product_id").
		Where("fi.account_id = ?", accountID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Product
	if err := base.Session(&gorm.Session{}).
		Select("p.*").
		Order("fi.created_at DESC").
		Order("fi.id DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}
