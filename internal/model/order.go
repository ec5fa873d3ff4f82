package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LocationType selects the delivery zone used for the charge lookup.
type LocationType string

const (
	LocationInside  LocationType = "inside"
	LocationOutside LocationType = "outside"
)

// Valid reports whether the location type is one of the known zones.
func (l LocationType) Valid() bool {
	return l == LocationInside || l == LocationOutside
}

// Order statuses. Orders are created as pending; later transitions are
// owned by back-office tooling, not this service.
const (
	OrderStatusPending = "pending"
)

// Order represents a customer order.
type Order struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	CustomerName string          `json:"customerName" db:"customer_name"`
	Phone        string          `json:"phone" db:"phone"`
	Address      string          `json:"address" db:"address"`
	LocationType LocationType    `json:"locationType" db:"location_type"`
	TotalAmount  decimal.Decimal `json:"totalAmount" db:"total_amount"`
	Status       string          `json:"status" db:"status"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
}

// OrderItem represents a line item in a persisted order. Price is the
// live catalogue price at submission time rounded to two decimals.
type OrderItem struct {
	ID        uuid.UUID       `json:"-" db:"id"`
	OrderID   uuid.UUID       `json:"-" db:"order_id"`
	ProductID string          `json:"productId" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	Price     decimal.Decimal `json:"price" db:"price"`
}

// ContactInfo is the customer detail block submitted with a checkout.
type ContactInfo struct {
	CustomerName string       `json:"customerName"`
	Phone        string       `json:"phone"`
	Address      string       `json:"address"`
	LocationType LocationType `json:"locationType"`
}

// CheckoutResult is returned on a confirmed order.
type CheckoutResult struct {
	OrderID        uuid.UUID       `json:"orderId"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	DeliveryCharge decimal.Decimal `json:"deliveryCharge"`
	Items          []OrderItem     `json:"items"`
}

// DeliveryCharges maps delivery zones to their charge. Zones without an
// override row in the store keep the built-in defaults.
type DeliveryCharges map[LocationType]decimal.Decimal

// DefaultDeliveryCharges returns the built-in charges used when the
// store has no override rows.
func DefaultDeliveryCharges() DeliveryCharges {
	return DeliveryCharges{
		LocationInside:  decimal.NewFromInt(60),
		LocationOutside: decimal.NewFromInt(120),
	}
}
