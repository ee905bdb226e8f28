package favorites

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farm2home/farm2home-backend/internal/products"
	"github.com/farm2home/farm2home-backend/pkg/db/models"
	pkgerrors "github.com/farm2home/farm2home-backend/pkg/errors"
	"github.com/farm2home/farm2home-backend/pkg/pagination"
)

// Service defines the behavior needed by the favorites controller.
type Service interface {
	Toggle(ctx context.Context, accountID, productID uuid.UUID) (*ToggleResult, error)
	List(ctx context.Context, accountID uuid.UUID, page pagination.Params) (*ListResult, error)
}

type favoritesRepository interface {
	Toggle(ctx context.Context, accountID, productID uuid.UUID) (bool, error)
	List(ctx context.Context, accountID uuid.UUID, page pagination.Params) ([]models.Product, int64, error)
}

type productLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	favorites favoritesRepository
	products  productLookup
}

// ServiceParams bundles the dependencies required to build a favorites service.
type ServiceParams struct {
	FavoritesRepo favoritesRepository
	ProductRepo   productLookup
}

// NewService constructs a favorites service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.FavoritesRepo == nil {
		return nil, fmt.Errorf("favorites repository is required")
	}
	if params.ProductRepo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	return &service{
		favorites: params.FavoritesRepo,
		products:  params.ProductRepo,
	}, nil
}

func (s *service) Toggle(ctx context.Context, accountID, productID uuid.UUID) (*ToggleResult, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}

	favorited, err := s.favorites.Toggle(ctx, accountID, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "toggle favorite")
	}
	return &ToggleResult{Favorited: favorited}, nil
}

func (s *service) List(ctx context.Context, accountID uuid.UUID, page pagination.Params) (*ListResult, error) {
	rows, total, err := s.favorites.List(ctx, accountID, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list favorites")
	}

	page = page.Normalize()
	items := make([]products.ProductDTO, 0, len(rows))
	for i := range rows {
		items = append(items, products.FromModel(&rows[i]))
	}

	return &ListResult{
		Items:      items,
		Total:      total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: pagination.TotalPages(total, page.Limit),
	}, nil
}
