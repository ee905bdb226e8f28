package products

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/farm2home/farm2home-backend/pkg/db/models"
	"github.com/farm2home/farm2home-backend/pkg/enums"
	"github.com/farm2home/farm2home-backend/pkg/pagination"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	productsTable := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  farmer_id TEXT NOT NULL,
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  price NUMERIC NOT NULL,
  quantity INTEGER NOT NULL,
  unit TEXT NOT NULL,
  image TEXT,
  farm_name TEXT NOT NULL,
  farm_address TEXT NOT NULL,
  farm_phone TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(productsTable).Error)
	return db
}

func seedProduct(t *testing.T, repo *Repository, farmerID uuid.UUID, name string, category enums.ProductCategory, quantity int, createdAt time.Time) *models.Product {
	t.Helper()

	product := &models.Product{
		FarmerID:    farmerID,
		Name:        name,
		Category:    category,
		Price:       decimal.NewFromFloat(2.50),
		Quantity:    quantity,
		Unit:        "kg",
		FarmName:    "Sunrise Farm",
		FarmAddress: "Valley Road 1",
		FarmPhone:   "555-0101",
		CreatedAt:   createdAt,
	}
	created, err := repo.Create(context.Background(), product)
	require.NoError(t, err)
	return created
}

func TestRepositoryListFiltersAndOrder(t *testing.T) {
	repo := NewRepository(setupProductsTestDB(t))
	farmerID := uuid.New()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	seedProduct(t, repo, farmerID, "Cherry Tomatoes", enums.ProductCategoryVegetables, 10, base)
	newest := seedProduct(t, repo, farmerID, "Heirloom Tomatoes", enums.ProductCategoryVegetables, 4, base.Add(2*time.Hour))
	seedProduct(t, repo, farmerID, "Sold Out Tomatoes", enums.ProductCategoryVegetables, 0, base.Add(3*time.Hour))
	seedProduct(t, repo, farmerID, "Goat Cheese", enums.ProductCategoryDairy, 5, base.Add(time.Hour))

	rows, total, err := repo.List(context.Background(), ListQuery{Search: "TOMATO"})
	require.NoError(t, err)
	require.EqualValues(t, 2, total, "out-of-stock rows are invisible to browse")
	require.Len(t, rows, 2)
	require.Equal(t, newest.ID, rows[0].ID, "newest listing first")

	rows, total, err = repo.List(context.Background(), ListQuery{Category: string(enums.ProductCategoryDairy)})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "Goat Cheese", rows[0].Name)
}

func TestRepositoryListPagination(t *testing.T) {
	repo := NewRepository(setupProductsTestDB(t))
	farmerID := uuid.New()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 25; i++ {
		seedProduct(t, repo, farmerID, fmt.Sprintf("Item %02d", i), enums.ProductCategoryOthers, 3, base.Add(time.Duration(i)*time.Minute))
	}

	page1, total, err := repo.List(context.Background(), ListQuery{Page: pagination.Params{Page: 1, Limit: 12}})
	require.NoError(t, err)
	require.EqualValues(t, 25, total)
	require.Len(t, page1, 12)
	require.Equal(t, 3, pagination.TotalPages(total, 12))

	page3, _, err := repo.List(context.Background(), ListQuery{Page: pagination.Params{Page: 3, Limit: 12}})
	require.NoError(t, err)
	require.Len(t, page3, 1)
	require.Equal(t, "Item 00", page3[0].Name, "oldest item lands on the last page")
}

func TestRepositoryListByFarmerIncludesSoldOut(t *testing.T) {
	repo := NewRepository(setupProductsTestDB(t))
	mine := uuid.New()
	other := uuid.New()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	seedProduct(t, repo, mine, "Mine In Stock", enums.ProductCategoryFruits, 3, base)
	seedProduct(t, repo, mine, "Mine Sold Out", enums.ProductCategoryFruits, 0, base.Add(time.Hour))
	seedProduct(t, repo, other, "Not Mine", enums.ProductCategoryFruits, 3, base)

	rows, total, err := repo.ListByFarmer(context.Background(), mine, pagination.Params{})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, rows, 2)
	require.Equal(t, "Mine Sold Out", rows[0].Name)
}

func TestRepositoryUpdateByIDAndFarmerOwnership(t *testing.T) {
	repo := NewRepository(setupProductsTestDB(t))
	owner := uuid.New()
	product := seedProduct(t, repo, owner, "Carrots", enums.ProductCategoryVegetables, 8, time.Now().UTC())

	quantity := 20
	updated, err := repo.UpdateByIDAndFarmer(context.Background(), product.ID, owner, ProductPatch{Quantity: &quantity})
	require.NoError(t, err)
	require.Equal(t, 20, updated.Quantity)
	require.Equal(t, "Carrots", updated.Name)

	_, err = repo.UpdateByIDAndFarmer(context.Background(), product.ID, uuid.New(), ProductPatch{Quantity: &quantity})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound, "someone else's listing is indistinguishable from a missing one")
}

func TestRepositoryDeleteByIDAndFarmerOwnership(t *testing.T) {
	repo := NewRepository(setupProductsTestDB(t))
	owner := uuid.New()
	product := seedProduct(t, repo, owner, "Carrots", enums.ProductCategoryVegetables, 8, time.Now().UTC())

	err := repo.DeleteByIDAndFarmer(context.Background(), product.ID, uuid.New())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.DeleteByIDAndFarmer(context.Background(), product.ID, owner))
	_, err = repo.FindByID(context.Background(), product.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
