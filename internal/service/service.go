package service

import (
	"context"

	"github.com/google/uuid"

	"storefront/internal/catalog"
	"storefront/internal/model"
)

// ProductService defines operations for browsing the catalogue.
type ProductService interface {
	// List returns one page of the filtered, sorted catalogue.
	List(ctx context.Context, query string, key catalog.SortKey, page int) (catalog.Page, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)
}

// CartService defines operations on the session cart. Add snapshots the
// product's name, price and thumbnail into the line at add time.
type CartService interface {
	Get(ctx context.Context, sessionID string) (model.Cart, error)
	Add(ctx context.Context, sessionID, productID string, quantity int) (model.Cart, error)
	UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (model.Cart, error)
	Remove(ctx context.Context, sessionID, productID string) (model.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

// CheckoutService reconciles a session cart against live stock and
// pricing and submits the order.
type CheckoutService interface {
	// Submit runs the full checkout: validation, stock
	// reconciliation, order persistence with compensating delete, and
	// cart clearing on success. Rejections come back as *model.DomainError.
	Submit(ctx context.Context, sessionID string, contact model.ContactInfo) (*model.CheckoutResult, error)

	// Charges returns the effective delivery charges.
	Charges() model.DeliveryCharges
}

// OrderService exposes read access to persisted orders.
type OrderService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error)
}
