// Package cart holds the per-session shopping cart. Contents survive
// page reloads; there is exactly one logical writer per session, so
// mutations are plain read-modify-write cycles.
package cart

import (
	"context"

	"storefront/internal/model"
)

// Store persists session carts.
//
// AddItem merges into an existing line for the same product by summing
// quantities; first-insertion order is preserved. UpdateQuantity with a
// non-positive quantity removes the line. The store enforces no upper
// bound on quantities; stock limits are applied by the checkout
// reconciler at submission time.
type Store interface {
	Get(ctx context.Context, sessionID string) (model.Cart, error)
	AddItem(ctx context.Context, sessionID string, line model.CartLine) (model.Cart, error)
	UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (model.Cart, error)
	RemoveItem(ctx context.Context, sessionID, productID string) (model.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

// applyAdd merges a line into the slice, preserving insertion order.
func applyAdd(lines []model.CartLine, line model.CartLine) []model.CartLine {
	for i := range lines {
		if lines[i].ProductID == line.ProductID {
			lines[i].Quantity += line.Quantity
			return lines
		}
	}
	return append(lines, line)
}

// applyQuantity sets a line's quantity, dropping the line when the new
// quantity is non-positive.
func applyQuantity(lines []model.CartLine, productID string, quantity int) []model.CartLine {
	if quantity <= 0 {
		return applyRemove(lines, productID)
	}
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity = quantity
			break
		}
	}
	return lines
}

func applyRemove(lines []model.CartLine, productID string) []model.CartLine {
	out := lines[:0]
	for _, l := range lines {
		if l.ProductID != productID {
			out = append(out, l)
		}
	}
	return out
}
