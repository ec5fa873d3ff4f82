package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"storefront/internal/catalog"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// List returns one page of the filtered, sorted catalogue. The full
// catalogue is fetched and the view derived in memory; the pipeline is
// pure, so every request recomputes it from the same inputs.
func (s *productService) List(ctx context.Context, query string, key catalog.SortKey, page int) (catalog.Page, error) {
	products, err := s.productRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load catalogue")
		return catalog.Page{}, fmt.Errorf("failed to load catalogue: %w", err)
	}

	view := catalog.View(products, query, key, page)

	s.logger.Debug().
		Str("query", query).
		Str("sort", string(key)).
		Int("page", view.Page).
		Int("total_items", view.TotalItems).
		Msg("catalogue page served")

	return view, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		s.logger.Warn().Msg("product ID is empty")
		return nil, model.ErrProductNotFound
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}
