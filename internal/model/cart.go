package model

import "github.com/shopspring/decimal"

// CartLine is one product entry in a session cart. Name, Price and
// Thumbnail are snapshots taken when the line was added; the checkout
// reconciler revalidates them against live catalogue rows.
type CartLine struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Thumbnail string          `json:"thumbnail,omitempty"`
}

// Cart is the full contents of one session's cart in insertion order.
type Cart struct {
	SessionID string     `json:"sessionId"`
	Lines     []CartLine `json:"lines"`
}

// Total returns the exact sum of price times quantity over all lines.
// No rounding is applied here; amounts are rounded to two decimals only
// at order submission.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}
