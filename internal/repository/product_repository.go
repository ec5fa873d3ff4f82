package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"storefront/internal/media"
	"storefront/internal/model"
)

// SQLSTATE for "column does not exist". Older deployments miss the
// optional images and priority columns; queries against them are
// retried with the narrow column set instead.
const undefinedColumnCode = "42703"

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

func isUndefinedColumn(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == undefinedColumnCode
}

// GetAll retrieves the full catalogue. It probes for the optional
// columns first and falls back to the narrow shape on schema mismatch.
func (r *productRepository) GetAll(ctx context.Context) ([]model.Product, error) {
	products, err := r.queryWide(ctx)
	if err != nil {
		if !isUndefinedColumn(err) {
			r.logger.Error().Err(err).Msg("failed to query products")
			return nil, fmt.Errorf("failed to query products: %w", err)
		}
		r.logger.Warn().Err(err).Msg("optional columns missing, retrying narrow query")
		products, err = r.queryNarrow(ctx)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to query products with narrow column set")
			return nil, fmt.Errorf("failed to query products: %w", err)
		}
	}
	return products, nil
}

func (r *productRepository) queryWide(ctx context.Context) ([]model.Product, error) {
	query := `
		SELECT id, name, COALESCE(description, ''), price, stock, images, image_url, priority, created_at
		FROM products
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var (
			p        model.Product
			images   *string
			imageURL *string
		)
		err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &images, &imageURL, &p.Priority, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		p.Media = normaliseMedia(images, imageURL)
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

func (r *productRepository) queryNarrow(ctx context.Context) ([]model.Product, error) {
	query := `
		SELECT id, name, COALESCE(description, ''), price, stock, image_url, created_at
		FROM products
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var (
			p        model.Product
			imageURL *string
		)
		err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &imageURL, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		p.Priority = model.DefaultPriority
		p.Media = normaliseMedia(nil, imageURL)
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	query := `
		SELECT id, name, COALESCE(description, ''), price, stock, images, image_url, priority, created_at
		FROM products
		WHERE id = $1
	`

	var (
		p        model.Product
		images   *string
		imageURL *string
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &images, &imageURL, &p.Priority, &p.CreatedAt,
	)
	if err == nil {
		p.Media = normaliseMedia(images, imageURL)
		return &p, nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		r.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, nil
	}

	if !isUndefinedColumn(err) {
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	r.logger.Warn().Err(err).Str("product_id", id).Msg("optional columns missing, retrying narrow query")

	narrowQuery := `
		SELECT id, name, COALESCE(description, ''), price, stock, image_url, created_at
		FROM products
		WHERE id = $1
	`
	err = r.pool.QueryRow(ctx, narrowQuery, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &imageURL, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product with narrow column set")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	p.Priority = model.DefaultPriority
	p.Media = normaliseMedia(nil, imageURL)
	return &p, nil
}

// GetStockInfo retrieves the live stock view for the given product IDs.
func (r *productRepository) GetStockInfo(ctx context.Context, ids []string) ([]model.StockInfo, error) {
	if len(ids) == 0 {
		return []model.StockInfo{}, nil
	}

	query := `
		SELECT id, name, stock, price
		FROM products
		WHERE id = ANY($1)
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query stock info")
		return nil, fmt.Errorf("failed to query stock info: %w", err)
	}
	defer rows.Close()

	var infos []model.StockInfo
	for rows.Next() {
		var info model.StockInfo
		if err := rows.Scan(&info.ID, &info.Name, &info.Stock, &info.Price); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan stock info row")
			return nil, fmt.Errorf("failed to scan stock info: %w", err)
		}
		infos = append(infos, info)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating stock info rows")
		return nil, fmt.Errorf("error iterating stock info: %w", err)
	}

	return infos, nil
}

// Upsert inserts or updates a catalogue row from the seed importer.
func (r *productRepository) Upsert(ctx context.Context, p model.Product) error {
	query := `
		INSERT INTO products (id, name, description, price, stock, images, image_url, priority, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			stock = EXCLUDED.stock,
			images = EXCLUDED.images,
			image_url = EXCLUDED.image_url,
			priority = EXCLUDED.priority
	`

	images := mediaURLsJSON(p.Media)
	var imageURL *string
	if len(p.Media) > 0 {
		imageURL = &p.Media[0].URL
	}

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.Price, p.Stock, images, imageURL, p.Priority, p.CreatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", p.ID).Msg("failed to upsert product")
		return fmt.Errorf("failed to upsert product: %w", err)
	}

	return nil
}

// DecrementStock reduces stock, never below zero.
func (r *productRepository) DecrementStock(ctx context.Context, id string, quantity int) (bool, error) {
	query := `
		UPDATE products
		SET stock = stock - $2
		WHERE id = $1 AND stock >= $2
	`

	tag, err := r.pool.Exec(ctx, query, id, quantity)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to decrement stock")
		return false, fmt.Errorf("failed to decrement stock: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// normaliseMedia funnels the raw columns through the media normaliser,
// guaranteeing the never-nil Media invariant on the way out.
func normaliseMedia(images, imageURL *string) []model.MediaItem {
	var raw any
	if images != nil {
		raw = *images
	}
	var legacy string
	if imageURL != nil {
		legacy = *imageURL
	}
	items := media.Normalize(raw, legacy)
	if items == nil {
		items = []model.MediaItem{}
	}
	return items
}

func mediaURLsJSON(items []model.MediaItem) string {
	urls := make([]string, 0, len(items))
	for _, item := range items {
		urls = append(urls, item.URL)
	}
	data, err := json.Marshal(urls)
	if err != nil {
		return "[]"
	}
	return string(data)
}
