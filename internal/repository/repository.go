package repository

import (
	"context"

	"github.com/google/uuid"

	"storefront/internal/model"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetAll retrieves the full catalogue with media normalised.
	GetAll(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. Returns nil when
	// the product does not exist.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetStockInfo retrieves the live {id, name, stock, price} view
	// for the given product IDs. IDs without a row are simply absent
	// from the result.
	GetStockInfo(ctx context.Context, ids []string) ([]model.StockInfo, error)

	// Upsert inserts or updates a catalogue row. Used by the seed
	// importer.
	Upsert(ctx context.Context, p model.Product) error

	// DecrementStock reduces a product's stock by the given quantity,
	// refusing to go negative. Returns false when stock was
	// insufficient at write time.
	DecrementStock(ctx context.Context, id string, quantity int) (bool, error)
}

// OrderRepository defines the interface for order data access
// operations. The backing store offers no cross-call transactions, so
// order creation is two separate writes with DeleteOrder as the
// compensating action when the second write fails.
type OrderRepository interface {
	// CreateOrder inserts a new order row.
	CreateOrder(ctx context.Context, order *model.Order) error

	// CreateOrderItems inserts the order's line items.
	CreateOrderItems(ctx context.Context, items []model.OrderItem) error

	// DeleteOrder removes an order and any of its items. Compensating
	// action: no partial order may remain visible.
	DeleteOrder(ctx context.Context, id uuid.UUID) error

	// GetByID retrieves an order by its ID along with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error)
}

// DeliveryRepository reads delivery-charge override rows.
type DeliveryRepository interface {
	// GetCharges returns the override rows keyed by location type.
	// An empty map simply means no overrides exist.
	GetCharges(ctx context.Context) (model.DeliveryCharges, error)
}

// ActivityRepository records behavioural events. Best effort only.
type ActivityRepository interface {
	Insert(ctx context.Context, activity model.Activity) error
}
