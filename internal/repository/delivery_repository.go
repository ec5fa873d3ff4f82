package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"storefront/internal/model"
)

// deliveryRepository reads delivery-charge override rows from PostgreSQL.
type deliveryRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewDeliveryRepository creates a new PostgreSQL-backed delivery repository.
func NewDeliveryRepository(pool *pgxpool.Pool, logger zerolog.Logger) DeliveryRepository {
	return &deliveryRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "delivery").Logger(),
	}
}

// GetCharges returns the override rows keyed by location type. Unknown
// location types and negative charges are skipped.
func (r *deliveryRepository) GetCharges(ctx context.Context) (model.DeliveryCharges, error) {
	query := `
		SELECT location_type, charge
		FROM delivery_charges
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query delivery charges")
		return nil, fmt.Errorf("failed to query delivery charges: %w", err)
	}
	defer rows.Close()

	charges := model.DeliveryCharges{}
	for rows.Next() {
		var (
			locationType string
			charge       decimal.Decimal
		)
		if err := rows.Scan(&locationType, &charge); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan delivery charge row")
			return nil, fmt.Errorf("failed to scan delivery charge: %w", err)
		}

		lt := model.LocationType(locationType)
		if !lt.Valid() || charge.IsNegative() {
			r.logger.Warn().
				Str("location_type", locationType).
				Str("charge", charge.String()).
				Msg("skipping invalid delivery charge row")
			continue
		}
		charges[lt] = charge
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating delivery charge rows")
		return nil, fmt.Errorf("error iterating delivery charges: %w", err)
	}

	return charges, nil
}
