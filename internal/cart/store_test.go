package cart

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/model"
)

func line(productID string, price float64, quantity int) model.CartLine {
	return model.CartLine{
		ProductID: productID,
		Name:      gofakeit.ProductName(),
		Price:     decimal.NewFromFloat(price),
		Quantity:  quantity,
	}
}

func TestMemoryStore_AddMergesSameProduct(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.AddItem(ctx, "s1", line("P1", 10, 1))
	require.NoError(t, err)
	c, err := store.AddItem(ctx, "s1", line("P1", 10, 2))
	require.NoError(t, err)

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 3, c.Lines[0].Quantity)
}

func TestMemoryStore_PreservesInsertionOrder(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.AddItem(ctx, "s1", line("P1", 10, 1))
	require.NoError(t, err)
	_, err = store.AddItem(ctx, "s1", line("P2", 20, 1))
	require.NoError(t, err)
	c, err := store.AddItem(ctx, "s1", line("P1", 10, 1))
	require.NoError(t, err)

	require.Len(t, c.Lines, 2)
	assert.Equal(t, "P1", c.Lines[0].ProductID)
	assert.Equal(t, "P2", c.Lines[1].ProductID)
}

func TestMemoryStore_UpdateQuantity(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.AddItem(ctx, "s1", line("P1", 10, 1))
	require.NoError(t, err)

	c, err := store.UpdateQuantity(ctx, "s1", "P1", 5)
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 5, c.Lines[0].Quantity)

	// Non-positive quantity removes the line
	c, err = store.UpdateQuantity(ctx, "s1", "P1", 0)
	require.NoError(t, err)
	assert.Empty(t, c.Lines)
}

func TestMemoryStore_RemoveAndClear(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.AddItem(ctx, "s1", line("P1", 10, 1))
	require.NoError(t, err)
	_, err = store.AddItem(ctx, "s1", line("P2", 20, 1))
	require.NoError(t, err)

	c, err := store.RemoveItem(ctx, "s1", "P1")
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, "P2", c.Lines[0].ProductID)

	require.NoError(t, store.Clear(ctx, "s1"))
	c, err = store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, c.Lines)
}

func TestMemoryStore_SessionsAreIsolated(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.AddItem(ctx, "s1", line("P1", 10, 1))
	require.NoError(t, err)

	c, err := store.Get(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, c.Lines)
}

func TestCart_TotalIsExact(t *testing.T) {
	c := model.Cart{
		Lines: []model.CartLine{
			{ProductID: "P1", Price: decimal.RequireFromString("0.1"), Quantity: 3},
			{ProductID: "P2", Price: decimal.RequireFromString("19.99"), Quantity: 2},
		},
	}

	// 0.3 + 39.98, no float drift and no premature rounding
	assert.True(t, c.Total().Equal(decimal.RequireFromString("40.28")))
}

func TestCart_TotalEmpty(t *testing.T) {
	assert.True(t, model.Cart{}.Total().IsZero())
}
