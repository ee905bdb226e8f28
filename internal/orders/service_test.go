package orders

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/farm2home/farm2home-backend/pkg/config"
	"github.com/farm2home/farm2home-backend/pkg/db"
	"github.com/farm2home/farm2home-backend/pkg/db/models"
	"github.com/farm2home/farm2home-backend/pkg/enums"
	pkgerrors "github.com/farm2home/farm2home-backend/pkg/errors"
	"github.com/farm2home/farm2home-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *db.Client {
	t.Helper()

	// A single pooled connection keeps every goroutine on the same in-memory
	// database and serializes transactions the way postgres row locks would.
	client, err := db.New(context.Background(), config.DBConfig{
		DSN:          "file::memory:",
		Driver:       "sqlite",
		MaxOpenConns: 1,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	statements := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  username TEXT UNIQUE,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL,
  phone TEXT,
  address TEXT,
  farm_name TEXT,
  profile_image TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS products (
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
);`,
		`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  client_id TEXT NOT NULL,
  farmer_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  total_price NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  created_at DATETIME,
  updated_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, client.DB().Exec(stmt).Error)
	}
	return client
}

func newOrdersService(t *testing.T, client *db.Client, now func() time.Time) Service {
	t.Helper()

	svc, err := NewService(ServiceParams{DB: client, Now: now})
	require.NoError(t, err)
	return svc
}

func seedOrderAccount(t *testing.T, client *db.Client, name, email string, role enums.AccountRole) uuid.UUID {
	t.Helper()

	account := &models.Account{
		Name:         name,
		Email:        email,
		PasswordHash: "hash",
		Role:         role,
	}
	require.NoError(t, client.DB().Create(account).Error)
	return account.ID
}

func seedOrderProduct(t *testing.T, client *db.Client, farmerID uuid.UUID, price string, quantity int) *models.Product {
	t.Helper()

	product := &models.Product{
		FarmerID:    farmerID,
		Name:        "Cherry Tomatoes",
		Category:    enums.ProductCategoryVegetables,
		Price:       decimal.RequireFromString(price),
		Quantity:    quantity,
		Unit:        "kg",
		FarmName:    "Sunrise Farm",
		FarmAddress: "Valley Road 1",
		FarmPhone:   "555-0101",
	}
	require.NoError(t, client.DB().Create(product).Error)
	return product
}

func productQuantity(t *testing.T, client *db.Client, productID uuid.UUID) int {
	t.Helper()

	var product models.Product
	require.NoError(t, client.DB().First(&product, "id = ?", productID).Error)
	return product.Quantity
}

func TestServiceCreateReservesStockAndFreezesTotal(t *testing.T) {
	client := setupOrdersTestDB(t)
	svc := newOrdersService(t, client, nil)

	farmerID := seedOrderAccount(t, client, "Rosa", "rosa@example.com", enums.AccountRoleFarmer)
	clientID := seedOrderAccount(t, client, "Tom", "tom@example.com", enums.AccountRoleClient)
	product := seedOrderProduct(t, client, farmerID, "2.50", 10)

	dto, err := svc.Create(context.Background(), clientID, CreateOrderRequest{
		ProductID: product.ID,
		Quantity:  4,
	})
	require.NoError(t, err)
	require.Equal(t, enums.OrderStatusPending, dto.Status)
	require.True(t, dto.TotalPrice.Equal(decimal.RequireFromString("10.00")), "total is price times quantity, got %s", dto.TotalPrice)
	require.Equal(t, 6, productQuantity(t, client, product.ID))

	// A later price change must not touch the frozen total.
	require.NoError(t, client.DB().Exec("UPDATE products SET price = ? WHERE id = ?", "9.99", product.ID).Error)
	var stored models.Order
	require.NoError(t, client.DB().First(&stored, "id = ?", dto.ID).Error)
	require.True(t, stored.TotalPrice.Equal(decimal.RequireFromString("10.00")))
}

func TestServiceCreateInsufficientStock(t *testing.T) {
	client := setupOrdersTestDB(t)
	svc := newOrdersService(t, client, nil)

	farmerID := seedOrderAccount(t, client, "Rosa", "rosa@example.com", enums.AccountRoleFarmer)
	clientID := seedOrderAccount(t, client, "Tom", "tom@example.com", enums.AccountRoleClient)
	product := seedOrderProduct(t, client, farmerID, "2.50", 3)

	_, err := svc.Create(context.Background(), clientID, CreateOrderRequest{
		ProductID: product.ID,
		Quantity:  5,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeInsufficientStock, typed.Code())
	require.Equal(t, 3, productQuantity(t, client, product.ID), "failed order leaves stock untouched")
}

func TestServiceCreateConcurrentBuyers(t *testing.T) {
	client := setupOrdersTestDB(t)
	svc := newOrdersService(t, client, nil)

	farmerID := seedOrderAccount(t, client, "Rosa", "rosa@example.com", enums.AccountRoleFarmer)
	clientID := seedOrderAccount(t, client, "Tom", "tom@example.com", enums.AccountRoleClient)
	product := seedOrderProduct(t, client, farmerID, "2.50", 5)

	// Five units, two per order: only two buyers can win, no matter how the
	// attempts interleave.
	const attempts = 8
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(context.Background(), clientID, CreateOrderRequest{
				ProductID: product.ID,
				Quantity:  2,
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var won, lost int
	for err := range results {
		if err == nil {
			won++
			continue
		}
		typed := pkgerrors.As(err)
		require.NotNil(t, typed, "unexpected error kind: %v", err)
		require.Equal(t, pkgerrors.CodeInsufficientStock, typed.Code())
		lost++
	}
	require.Equal(t, 2, won)
	require.Equal(t, attempts-2, lost)
	require.Equal(t, 1, productQuantity(t, client, product.ID), "stock never goes negative")

	var orderCount int64
	require.NoError(t, client.DB().Model(&models.Order{}).Count(&orderCount).Error)
	require.EqualValues(t, 2, orderCount)
}

func TestServiceCreateUnknownProduct(t *testing.T) {
	client := setupOrdersTestDB(t)
	svc := newOrdersService(t, client, nil)
	clientID := seedOrderAccount(t, client, "Tom", "tom@example.com", enums.AccountRoleClient)

	_, err := svc.Create(context.Background(), clientID, CreateOrderRequest{
		ProductID: uuid.New(),
		Quantity:  1,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestServiceUpdateStatusHappyPath(t *testing.T) {
	client := setupOrdersTestDB(t)
	svc := newOrdersService(t, client, nil)

	farmerID := seedOrderAccount(t, client, "Rosa", "rosa@example.com", enums.AccountRoleFarmer)
	clientID := seedOrderAccount(t, client, "Tom", "tom@example.com", enums.AccountRoleClient)
	product := seedOrderProduct(t, client, farmerID, "2.50", 10)

	dto, err := svc.Create(context.Background(), clientID, CreateOrderRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	confirmed, err := svc.UpdateStatus(context.Background(), farmerID, dto.ID, UpdateStatusRequest{Status: "confirmed"})
	require.NoError(t, err)
	require.Equal(t, enums.OrderStatusConfirmed, confirmed.Status)

	delivered, err := svc.UpdateStatus(context.Background(), farmerID, dto.ID, UpdateStatusRequest{Status: "delivered"})
	require.NoError(t, err)
	require.Equal(t, enums.OrderStatusDelivered, delivered.Status)
}

func TestServiceUpdateStatusRejectsSkippedStep(t *testing.T) {
	client := setupOrdersTestDB(t)
	svc := newOrdersService(t, client, nil)

	farmerID := seedOrderAccount(t, client, "Rosa", "rosa@example.com", enums.AccountRoleFarmer)
	clientID := seedOrderAccount(t, client, "Tom", "tom@example.com", enums.AccountRoleClient)
	product := seedOrderProduct(t, client, farmerID, "2.50", 10)

	dto, err := svc.Create(context.Background(), clientID, CreateOrderRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), farmerID, dto.ID, UpdateStatusRequest{Status: "delivered"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeInvalidTransition, typed.Code())
}

func TestServiceUpdateStatusRejectsCancelledTarget(t *testing.T) {
	client := setupOrdersTestDB(t)
	svc := newOrdersService(t, client, nil)
	farmerID := seedOrderAccount(t, client, "Rosa", "rosa@example.com", enums.AccountRoleFarmer)

	_, err := svc.UpdateStatus(context.Background(), farmerID, uuid.New(), UpdateStatusRequest{Status: "cancelled"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestServiceUpdateStatusHidesForeignOrders(t *testing.T) {
	client := setupOrdersTestDB(t)
	svc := newOrdersService(t, client, nil)

	farmerID := seedOrderAccount(t, client, "Rosa", "rosa@example.com", enums.AccountRoleFarmer)
	otherFarmer := seedOrderAccount(t, client, "Ana", "ana@example.com", enums.AccountRoleFarmer)
	clientID := seedOrderAccount(t, client, "Tom", "tom@example.com", enums.AccountRoleClient)
	product := seedOrderProduct(t, client, farmerID, "2.50", 10)

	dto, err := svc.Create(context.Background(), clientID, CreateOrderRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), otherFarmer, dto.ID, UpdateStatusRequest{Status: "confirmed"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code(), "foreign orders look missing, never forbidden")
}

func TestServiceCancelRestoresStock(t *testing.T) {
	client := setupOrdersTestDB(t)
	svc := newOrdersService(t, client, nil)

	farmerID := seedOrderAccount(t, client, "Rosa", "rosa@example.com", enums.AccountRoleFarmer)
	clientID := seedOrderAccount(t, client, "Tom", "tom@example.com", enums.AccountRoleClient)
	product := seedOrderProduct(t, client, farmerID, "2.50", 10)

	dto, err := svc.Create(context.Background(), clientID, CreateOrderRequest{ProductID: product.ID, Quantity: 4})
	require.NoError(t, err)
	require.Equal(t, 6, productQuantity(t, client, product.ID))

	cancelled, err := svc.Cancel(context.Background(), clientID, dto.ID)
	require.NoError(t, err)
	require.Equal(t, enums.OrderStatusCancelled, cancelled.Status)
	require.Equal(t, 10, productQuantity(t, client, product.ID))

	// A second cancel finds the order already out of pending.
	_, err = svc.Cancel(context.Background(), clientID, dto.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeInvalidTransition, typed.Code())
	require.Equal(t, 10, productQuantity(t, client, product.ID), "stock is restored exactly once")
}

func TestServiceCancelConfirmedOrder(t *testing.T) {
	client := setupOrdersTestDB(t)
	svc := newOrdersService(t, client, nil)

	farmerID := seedOrderAccount(t, client, "Rosa", "rosa@example.com", enums.AccountRoleFarmer)
	clientID := seedOrderAccount(t, client, "Tom", "tom@example.com", enums.AccountRoleClient)
	product := seedOrderProduct(t, client, farmerID, "2.50", 10)

	dto, err := svc.Create(context.Background(), clientID, CreateOrderRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), farmerID, dto.ID, UpdateStatusRequest{Status: "confirmed"})
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), clientID, dto.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeInvalidTransition, typed.Code())
	require.Equal(t, 8, productQuantity(t, client, product.ID), "confirmed orders keep their reservation")
}

func TestServiceEarningsBuckets(t *testing.T) {
	client := setupOrdersTestDB(t)
	now := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	svc := newOrdersService(t, client, func() time.Time { return now })

	farmerID := seedOrderAccount(t, client, "Rosa", "rosa@example.com", enums.AccountRoleFarmer)
	clientID := seedOrderAccount(t, client, "Tom", "tom@example.com", enums.AccountRoleClient)
	otherFarmer := seedOrderAccount(t, client, "Ana", "ana@example.com", enums.AccountRoleFarmer)

	seedOrder := func(farmer uuid.UUID, total string, status enums.OrderStatus, createdAt time.Time) {
		order := &models.Order{
			ClientID:   clientID,
			FarmerID:   farmer,
			ProductID:  uuid.New(),
			Quantity:   1,
			TotalPrice: decimal.RequireFromString(total),
			Status:     status,
			CreatedAt:  createdAt,
		}
		require.NoError(t, client.DB().Create(order).Error)
	}

	// Delivered before the month boundary counts toward total only.
	seedOrder(farmerID, "50.00", enums.OrderStatusDelivered, time.Date(2026, 7, 20, 0, 0, 0, 0, time.UTC))
	// Delivered this month counts toward total and monthly.
	seedOrder(farmerID, "100.00", enums.OrderStatusDelivered, time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC))
	// Pending and confirmed feed the outstanding bucket.
	seedOrder(farmerID, "20.00", enums.OrderStatusPending, now)
	seedOrder(farmerID, "10.00", enums.OrderStatusConfirmed, now)
	// Cancelled orders and other farmers never count.
	seedOrder(farmerID, "999.00", enums.OrderStatusCancelled, now)
	seedOrder(otherFarmer, "777.00", enums.OrderStatusDelivered, now)

	earnings, err := svc.Earnings(context.Background(), farmerID)
	require.NoError(t, err)
	require.True(t, earnings.Total.Equal(decimal.RequireFromString("150.00")), "total %s", earnings.Total)
	require.True(t, earnings.Monthly.Equal(decimal.RequireFromString("100.00")), "monthly %s", earnings.Monthly)
	require.True(t, earnings.Pending.Equal(decimal.RequireFromString("30.00")), "pending %s", earnings.Pending)
}

func TestServiceListsJoinDisplayColumns(t *testing.T) {
	client := setupOrdersTestDB(t)
	svc := newOrdersService(t, client, nil)

	farmerID := seedOrderAccount(t, client, "Rosa", "rosa@example.com", enums.AccountRoleFarmer)
	clientID := seedOrderAccount(t, client, "Tom", "tom@example.com", enums.AccountRoleClient)
	product := seedOrderProduct(t, client, farmerID, "2.50", 10)

	_, err := svc.Create(context.Background(), clientID, CreateOrderRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	mine, err := svc.ListMine(context.Background(), clientID, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, mine.Items, 1)
	require.NotNil(t, mine.Items[0].ProductName)
	require.Equal(t, "Cherry Tomatoes", *mine.Items[0].ProductName)
	require.NotNil(t, mine.Items[0].Counterparty)
	require.Equal(t, "Rosa", *mine.Items[0].Counterparty, "client sees the farmer's name")

	theirs, err := svc.ListFarmerOrders(context.Background(), farmerID, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, theirs.Items, 1)
	require.NotNil(t, theirs.Items[0].Counterparty)
	require.Equal(t, "Tom", *theirs.Items[0].Counterparty, "farmer sees the buyer's name")
}

func TestServiceListKeepsOrdersForDeletedProducts(t *testing.T) {
	client := setupOrdersTestDB(t)
	svc := newOrdersService(t, client, nil)

	farmerID := seedOrderAccount(t, client, "Rosa", "rosa@example.com", enums.AccountRoleFarmer)
	clientID := seedOrderAccount(t, client, "Tom", "tom@example.com", enums.AccountRoleClient)
	product := seedOrderProduct(t, client, farmerID, "2.50", 10)

	_, err := svc.Create(context.Background(), clientID, CreateOrderRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)
	require.NoError(t, client.DB().Exec("DELETE FROM products WHERE id = ?", product.ID).Error)

	mine, err := svc.ListMine(context.Background(), clientID, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, mine.Items, 1, "order history survives listing removal")
	require.Nil(t, mine.Items[0].ProductName)
}
