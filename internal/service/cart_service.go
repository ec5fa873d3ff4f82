package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"storefront/internal/cart"
	"storefront/internal/media"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// cartService implements CartService on top of the session cart store.
type cartService struct {
	store       cart.Store
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(store cart.Store, productRepo repository.ProductRepository, logger zerolog.Logger) CartService {
	return &cartService{
		store:       store,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

func (s *cartService) Get(ctx context.Context, sessionID string) (model.Cart, error) {
	c, err := s.store.Get(ctx, sessionID)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to get cart")
		return model.Cart{}, fmt.Errorf("failed to get cart: %w", err)
	}
	return c, nil
}

// Add snapshots the product's current name, price and thumbnail into a
// cart line. Adding a product already in the cart increments its
// quantity instead of appending a second line.
func (s *cartService) Add(ctx context.Context, sessionID, productID string, quantity int) (model.Cart, error) {
	if quantity <= 0 {
		return model.Cart{}, model.ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", productID).Msg("failed to look up product for cart add")
		return model.Cart{}, fmt.Errorf("failed to look up product: %w", err)
	}
	if product == nil {
		return model.Cart{}, model.ErrProductNotFound
	}

	line := model.CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  quantity,
		Thumbnail: media.Thumbnail(product.Media),
	}

	c, err := s.store.AddItem(ctx, sessionID, line)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to add cart line")
		return model.Cart{}, fmt.Errorf("failed to add cart line: %w", err)
	}

	s.logger.Debug().
		Str("session_id", sessionID).
		Str("product_id", productID).
		Int("quantity", quantity).
		Msg("cart line added")

	return c, nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (model.Cart, error) {
	c, err := s.store.UpdateQuantity(ctx, sessionID, productID, quantity)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to update cart quantity")
		return model.Cart{}, fmt.Errorf("failed to update cart quantity: %w", err)
	}
	return c, nil
}

func (s *cartService) Remove(ctx context.Context, sessionID, productID string) (model.Cart, error) {
	c, err := s.store.RemoveItem(ctx, sessionID, productID)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to remove cart line")
		return model.Cart{}, fmt.Errorf("failed to remove cart line: %w", err)
	}
	return c, nil
}

func (s *cartService) Clear(ctx context.Context, sessionID string) error {
	if err := s.store.Clear(ctx, sessionID); err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
