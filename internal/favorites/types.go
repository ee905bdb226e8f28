package favorites

import (
	"github.com/farm2home/farm2home-backend/internal/products"
)

// ToggleResult reports the favorite state after a toggle.
type ToggleResult struct {
	Favorited bool `json:"favorited"`
}

// ListResult is one page of favorited listings, most recently saved first.
type ListResult struct {
	Items      []products.ProductDTO `json:"items"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	Limit      int                   `json:"limit"`
	TotalPages int                   `json:"total_pages"`
}
