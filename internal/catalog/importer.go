package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"storefront/internal/media"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// Importer loads a catalogue seed file, canonicalises each record and
// upserts it into the products table.
type Importer struct {
	loader Loader
	repo   repository.ProductRepository
	logger zerolog.Logger
}

// NewImporter creates a seed importer.
func NewImporter(loader Loader, repo repository.ProductRepository, logger zerolog.Logger) *Importer {
	return &Importer{
		loader: loader,
		repo:   repo,
		logger: logger.With().Str("component", "seed-importer").Logger(),
	}
}

// Import runs one seed file. Records without an ID or name are skipped
// rather than failing the run; a seed file is bulk data, not a
// transaction.
func (i *Importer) Import(ctx context.Context, path string) (int, error) {
	records, err := i.loader.Load(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("failed to load seed: %w", err)
	}

	imported := 0
	for _, raw := range records {
		product, ok := FromRaw(raw)
		if !ok {
			i.logger.Warn().Str("product_id", raw.ID).Msg("skipping invalid seed record")
			continue
		}

		if err := i.repo.Upsert(ctx, product); err != nil {
			return imported, fmt.Errorf("failed to upsert product %s: %w", product.ID, err)
		}
		imported++
	}

	i.logger.Info().
		Str("path", path).
		Int("imported", imported).
		Int("skipped", len(records)-imported).
		Msg("seed import finished")

	return imported, nil
}

// FromRaw canonicalises a raw seed record. Returns false when the
// record lacks an identity or carries a negative price or stock.
func FromRaw(raw model.RawProduct) (model.Product, bool) {
	id := strings.TrimSpace(raw.ID)
	name := strings.TrimSpace(raw.Name)
	if id == "" || name == "" {
		return model.Product{}, false
	}
	if raw.Price.IsNegative() || raw.Stock < 0 {
		return model.Product{}, false
	}

	priority := model.DefaultPriority
	if raw.Priority != nil {
		priority = *raw.Priority
	}

	createdAt := raw.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	items := media.Normalize(raw.Images, raw.ImageURL)
	if items == nil {
		items = []model.MediaItem{}
	}

	return model.Product{
		ID:          id,
		Name:        name,
		Description: strings.TrimSpace(raw.Description),
		Price:       raw.Price,
		Stock:       raw.Stock,
		Media:       items,
		Priority:    priority,
		CreatedAt:   createdAt,
	}, true
}
