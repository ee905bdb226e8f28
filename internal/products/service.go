package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/farm2home/farm2home-backend/pkg/db/models"
	"github.com/farm2home/farm2home-backend/pkg/enums"
	pkgerrors "github.com/farm2home/farm2home-backend/pkg/errors"
	"github.com/farm2home/farm2home-backend/pkg/pagination"
)

// Service defines the behavior needed by the products controller.
type Service interface {
	Create(ctx context.Context, farmerID uuid.UUID, req CreateProductRequest) (*ProductDTO, error)
	List(ctx context.Context, query ListQuery) (*ListResult, error)
	ListMine(ctx context.Context, farmerID uuid.UUID, page pagination.Params) (*ListResult, error)
	Update(ctx context.Context, farmerID, productID uuid.UUID, req UpdateProductRequest) (*ProductDTO, error)
	Delete(ctx context.Context, farmerID, productID uuid.UUID) error
}

type productRepository interface {
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	List(ctx context.Context, query ListQuery) ([]models.Product, int64, error)
	ListByFarmer(ctx context.Context, farmerID uuid.UUID, page pagination.Params) ([]models.Product, int64, error)
	UpdateByIDAndFarmer(ctx context.Context, id, farmerID uuid.UUID, patch ProductPatch) (*models.Product, error)
	DeleteByIDAndFarmer(ctx context.Context, id, farmerID uuid.UUID) error
}

type farmerLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
}

type service struct {
	products productRepository
	accounts farmerLookup
}

// ServiceParams bundles the dependencies required to build a products service.
type ServiceParams struct {
	ProductRepo productRepository
	AccountRepo farmerLookup
}

// NewService constructs a products service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.ProductRepo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	if params.AccountRepo == nil {
		return nil, fmt.Errorf("account repository is required")
	}
	return &service{
		products: params.ProductRepo,
		accounts: params.AccountRepo,
	}, nil
}

func (s *service) Create(ctx context.Context, farmerID uuid.UUID, req CreateProductRequest) (*ProductDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit is required")
	}
	category, err := enums.ParseProductCategory(strings.TrimSpace(req.Category))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
	}
	price, err := parsePrice(req.Price)
	if err != nil {
		return nil, err
	}
	if req.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	farmAddress := strings.TrimSpace(req.FarmAddress)
	if farmAddress == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "farm_address is required")
	}
	farmPhone := strings.TrimSpace(req.FarmPhone)
	if farmPhone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "farm_phone is required")
	}

	farmer, err := s.accounts.FindByID(ctx, farmerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup farmer")
	}

	product := &models.Product{
		FarmerID:    farmerID,
		Name:        name,
		Category:    category,
		Price:       price,
		Quantity:    req.Quantity,
		Unit:        unit,
		Image:       req.Image,
		FarmName:    farmDisplayName(farmer),
		FarmAddress: farmAddress,
		FarmPhone:   farmPhone,
	}

	created, err := s.products.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}

	dto := FromModel(created)
	return &dto, nil
}

func (s *service) List(ctx context.Context, query ListQuery) (*ListResult, error) {
	if category := strings.TrimSpace(query.Category); category != "" {
		if _, err := enums.ParseProductCategory(category); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
		}
	}

	rows, total, err := s.products.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}

	return buildListResult(rows, total, query.Page), nil
}

func (s *service) ListMine(ctx context.Context, farmerID uuid.UUID, page pagination.Params) (*ListResult, error) {
	rows, total, err := s.products.ListByFarmer(ctx, farmerID, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list farmer products")
	}
	return buildListResult(rows, total, page), nil
}

func (s *service) Update(ctx context.Context, farmerID, productID uuid.UUID, req UpdateProductRequest) (*ProductDTO, error) {
	patch, err := buildPatch(req)
	if err != nil {
		return nil, err
	}

	updated, err := s.products.UpdateByIDAndFarmer(ctx, productID, farmerID, patch)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}

	dto := FromModel(updated)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, farmerID, productID uuid.UUID) error {
	if err := s.products.DeleteByIDAndFarmer(ctx, productID, farmerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	return nil
}

func buildPatch(req UpdateProductRequest) (ProductPatch, error) {
	patch := ProductPatch{
		Quantity: req.Quantity,
		Image:    req.Image,
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return ProductPatch{}, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		patch.Name = &name
	}
	if req.Unit != nil {
		unit := strings.TrimSpace(*req.Unit)
		if unit == "" {
			return ProductPatch{}, pkgerrors.New(pkgerrors.CodeValidation, "unit cannot be empty")
		}
		patch.Unit = &unit
	}
	if req.Category != nil {
		category, err := enums.ParseProductCategory(strings.TrimSpace(*req.Category))
		if err != nil {
			return ProductPatch{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
		}
		patch.Category = &category
	}
	if req.Price != nil {
		price, err := parsePrice(*req.Price)
		if err != nil {
			return ProductPatch{}, err
		}
		patch.Price = &price
	}
	if req.Quantity != nil && *req.Quantity < 0 {
		return ProductPatch{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}

	return patch, nil
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid price")
	}
	if price.LessThanOrEqual(decimal.Zero) {
		return decimal.Decimal{}, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	return price, nil
}

func buildListResult(rows []models.Product, total int64, page pagination.Params) *ListResult {
	page = page.Normalize()
	return &ListResult{
		Items:      fromModels(rows),
		Total:      total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: pagination.TotalPages(total, page.Limit),
	}
}

func farmDisplayName(farmer *models.Account) string {
	if farmer.FarmName != nil && strings.TrimSpace(*farmer.FarmName) != "" {
		return strings.TrimSpace(*farmer.FarmName)
	}
	return farmer.Name
}
