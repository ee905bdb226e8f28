package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farm2home/farm2home-backend/pkg/db/models"
	"github.com/farm2home/farm2home-backend/pkg/enums"
	"github.com/farm2home/farm2home-backend/pkg/pagination"
)

// ProductDTO is the transport shape for a listing.
type ProductDTO struct {
	ID          uuid.UUID             `json:"id"`
	FarmerID    uuid.UUID             `json:"farmer_id"`
	Name        string                `json:"name"`
	Category    enums.ProductCategory `json:"category"`
	Price       decimal.Decimal       `json:"price"`
	Quantity    int                   `json:"quantity"`
	Unit        string                `json:"unit"`
	Image       *string               `json:"image,omitempty"`
	FarmName    string                `json:"farm_name"`
	FarmAddress string                `json:"farm_address,omitempty"`
	FarmPhone   string                `json:"farm_phone,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// CreateProductRequest captures the payload for publishing a listing. The
// pickup address and phone come from the request; the farm display name
// defaults from the account.
type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Category    string  `json:"category" validate:"required"`
	Price       string  `json:"price" validate:"required"`
	Quantity    int     `json:"quantity" validate:"required,gt=0"`
	Unit        string  `json:"unit" validate:"required"`
	Image       *string `json:"image,omitempty"`
	FarmAddress string  `json:"farm_address" validate:"required"`
	FarmPhone   string  `json:"farm_phone" validate:"required"`
}

// UpdateProductRequest enumerates the editable listing fields. Absent fields
// stay untouched; the farmer snapshot columns cannot be changed here.
type UpdateProductRequest struct {
	Name     *string `json:"name,omitempty"`
	Category *string `json:"category,omitempty"`
	Price    *string `json:"price,omitempty"`
	Quantity *int    `json:"quantity,omitempty"`
	Unit     *string `json:"unit,omitempty"`
	Image    *string `json:"image,omitempty"`
}

// ProductPatch is the repo-level projection of an update. Nil means keep.
type ProductPatch struct {
	Name     *string
	Category *enums.ProductCategory
	Price    *decimal.Decimal
	Quantity *int
	Unit     *string
	Image    *string
}

// IsEmpty reports whether the patch would change nothing.
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Category == nil && p.Price == nil &&
		p.Quantity == nil && p.Unit == nil && p.Image == nil
}

// ListQuery captures the browse filters alongside pagination.
type ListQuery struct {
	Search   string
	Category string
	Page     pagination.Params
}

// ListResult is one page of listings plus the pagination envelope.
type ListResult struct {
	Items      []ProductDTO `json:"items"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	Limit      int          `json:"limit"`
	TotalPages int          `json:"total_pages"`
}

// FromModel converts a persisted product into its transport shape.
func FromModel(p *models.Product) ProductDTO {
	return ProductDTO{
		ID:          p.ID,
		FarmerID:    p.FarmerID,
		Name:        p.Name,
		Category:    p.Category,
		Price:       p.Price,
		Quantity:    p.Quantity,
		Unit:        p.Unit,
		Image:       p.Image,
		FarmName:    p.FarmName,
		FarmAddress: p.FarmAddress,
		FarmPhone:   p.FarmPhone,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func fromModels(rows []models.Product) []ProductDTO {
	items := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		items = append(items, FromModel(&rows[i]))
	}
	return items
}
