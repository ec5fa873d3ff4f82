package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MediaKind classifies a catalogue media URL by its file extension.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// MediaItem is a single display asset attached to a product.
type MediaItem struct {
	URL  string    `json:"url"`
	Kind MediaKind `json:"kind"`
}

// DefaultPriority is assigned to products without an explicit ranking.
// Lower values sort earlier in the default catalogue order.
const DefaultPriority = 999

// Product represents a storefront catalogue entry. Media is never nil
// to callers; a product without assets carries an empty slice and the
// client renders a placeholder.
type Product struct {
	ID          string          `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description,omitempty" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Stock       int             `json:"stock" db:"stock"`
	Media       []MediaItem     `json:"media"`
	Priority    int             `json:"priority" db:"priority"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
}

// StockInfo is the narrow live view of a product used during checkout
// reconciliation.
type StockInfo struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Stock int             `json:"stock"`
	Price decimal.Decimal `json:"price"`
}

// RawProduct is a catalogue record as received from a seed file: the
// images field may be absent, a single URL, a JSON-encoded array, or a
// native array. Normalisation turns it into a Product.
type RawProduct struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Images      any             `json:"images"`
	ImageURL    string          `json:"imageUrl"`
	Priority    *int            `json:"priority"`
	CreatedAt   time.Time       `json:"createdAt"`
}
