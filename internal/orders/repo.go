package orders

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/farm2home/farm2home-backend/pkg/db/models"
	"github.com/farm2home/farm2home-backend/pkg/enums"
	"github.com/farm2home/farm2home-backend/pkg/pagination"
)

// Repository encapsulates order persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an orders repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new order and returns the persisted model.
func (r *Repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// DecrementStock conditionally reserves quantity from a product. The guard in
// the WHERE clause makes the check-and-decrement a single atomic statement;
// false means the product is missing or has insufficient stock.
func (r *Repository) DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) (bool, error) {
	result := r.db.WithContext(ctx).
		Exec("UPDATE products SET quantity = quantity - ? WHERE id = ? AND quantity >= ?",
			quantity, productID, quantity)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// RestoreStock returns quantity to a product after a cancellation. A missing
// product (deleted listing) is not an error; the stock simply has nowhere to go.
func (r *Repository) RestoreStock(ctx context.Context, productID uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Exec("UPDATE products SET quantity = quantity + ? WHERE id = ?", quantity, productID).
		Error
}

// FindForClient loads an order only when the client placed it. A single query
// covers both existence and ownership, so callers cannot probe other
// accounts' orders.
func (r *Repository) FindForClient(ctx context.Context, id, clientID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		First(&order, "id = ? AND client_id = ?", id, clientID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindForFarmer loads an order only when it belongs to the farmer's listings.
func (r *Repository) FindForFarmer(ctx context.Context, id, farmerID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		First(&order, "id = ? AND farmer_id = ?", id, farmerID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// TransitionStatus moves an order from one status to another. The current
// status in the WHERE clause guards against concurrent updates; false means
// the order was no longer in the expected state.
func (r *Repository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListByClient returns one page of the client's orders, newest first, with
// product and farmer display columns joined in.
func (r *Repository) ListByClient(ctx context.Context, clientID uuid.UUID, page pagination.Params) ([]orderRecord, int64, error) {
	return r.listOrders(ctx, "o.client_id = ?", clientID, "o.farmer_id", page)
}

// ListByFarmer returns one page of the orders placed against the farmer's
// listings, newest first, with product and client display columns joined in.
func (r *Repository) ListByFarmer(ctx context.Context, farmerID uuid.UUID, page pagination.Params) ([]orderRecord, int64, error) {
	return r.listOrders(ctx, "o.farmer_id = ?", farmerID, "o.client_id", page)
}

func (r *Repository) listOrders(ctx context.Context, ownerClause string, ownerID uuid.UUID, counterpartyColumn string, page pagination.Params) ([]orderRecord, int64, error) {
	page = page.Normalize()

	base := r.db.WithContext(ctx).
		Table("orders o").
		Where(ownerClause, ownerID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	selectColumns := []string{
		"o.id",
		"o.product_id",
		"o.quantity",
		"o.total_price",
		"o.status",
		"o.created_at",
		"o.updated_at",
		"p.name AS product_name",
		"p.unit AS product_unit",
		"p.image AS product_image",
		"p.farm_name AS farm_name",
		"a.name AS counterparty",
	}

	var rows []orderRecord
	if err := base.Session(&gorm.Session{}).
		Select(strings.Join(selectColumns, ", ")).
		Joins("LEFT JOIN products p ON p.id = o.product_id").
		Joins("JOIN accounts a ON a.id = "+counterpartyColumn).
		Order("o.created_at DESC").
		Order("o.id DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

// SumDelivered totals the farmer's delivered orders, optionally bounded to
// those created at or after since.
func (r *Repository) SumDelivered(ctx context.Context, farmerID uuid.UUID, since *time.Time) (decimal.Decimal, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("farmer_id = ? AND status = ?", farmerID, enums.OrderStatusDelivered)
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}
	return sumTotalPrice(query)
}

// SumOutstanding totals the farmer's orders that are still pending or confirmed.
func (r *Repository) SumOutstanding(ctx context.Context, farmerID uuid.UUID) (decimal.Decimal, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("farmer_id = ? AND status IN ?", farmerID,
			[]enums.OrderStatus{enums.OrderStatusPending, enums.OrderStatusConfirmed})
	return sumTotalPrice(query)
}

func sumTotalPrice(query *gorm.DB) (decimal.Decimal, error) {
	var row struct {
		Sum decimal.Decimal `gorm:"column:sum"`
	}
	if err := query.Select("COALESCE(SUM(total_price), 0) AS sum").Scan(&row).Error; err != nil {
		return decimal.Decimal{}, err
	}
	return row.Sum, nil
}
