package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farm2home/farm2home-backend/pkg/db/models"
	"github.com/farm2home/farm2home-backend/pkg/pagination"
)

// Repository encapsulates product persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a products repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new listing and returns the persisted model.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindByID loads a listing regardless of stock or ownership.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// List returns one page of in-stock listings matching the filters, newest first.
func (r *Repository) List(ctx context.Context, query ListQuery) ([]models.Product, int64, error) {
	page := query.Page.Normalize()

	base := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("quantity > 0")

	if search := strings.TrimSpace(query.Search); search != "" {
		base = base.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if category := strings.TrimSpace(query.Category); category != "" {
		base = base.Where("category = ?", category)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Product
	if err := base.Session(&gorm.Session{}).
		Order("created_at DESC").
		Order("id DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

// ListByFarmer returns one page of the farmer's own listings, including
// out-of-stock ones, newest first.
func (r *Repository) ListByFarmer(ctx context.Context, farmerID uuid.UUID, page pagination.Params) ([]models.Product, int64, error) {
	page = page.Normalize()

	base := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("farmer_id = ?", farmerID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Product
	if err := base.Session(&gorm.Session{}).
		Order("created_at DESC").
		Order("id DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

// UpdateByIDAndFarmer applies the patch only when the listing belongs to the
// farmer. Returns gorm.ErrRecordNotFound when no row matched, so callers
// cannot distinguish a missing listing from someone else's.
func (r *Repository) UpdateByIDAndFarmer(ctx context.Context, id, farmerID uuid.UUID, patch ProductPatch) (*models.Product, error) {
	updates := map[string]any{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Category != nil {
		updates["category"] = *patch.Category
	}
	if patch.Price != nil {
		updates["price"] = *patch.Price
	}
	if patch.Quantity != nil {
		updates["quantity"] = *patch.Quantity
	}
	if patch.Unit != nil {
		updates["unit"] = *patch.Unit
	}
	if patch.Image != nil {
		updates["image"] = *patch.Image
	}

	if len(updates) > 0 {
		result := r.db.WithContext(ctx).
			Model(&models.Product{}).
			Where("id = ? AND farmer_id = ?", id, farmerID).
			Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}

	var product models.Product
	if err := r.db.WithContext(ctx).
		First(&product, "id = ? AND farmer_id = ?", id, farmerID).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteByIDAndFarmer removes the listing only when the farmer owns it.
func (r *Repository) DeleteByIDAndFarmer(ctx context.Context, id, farmerID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND farmer_id = ?", id, farmerID).
		Delete(&models.Product{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
