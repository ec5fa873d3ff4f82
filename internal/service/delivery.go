package service

import (
	"context"

	"github.com/rs/zerolog"

	"storefront/internal/model"
	"storefront/internal/repository"
)

// FetchDeliveryOverrides reads the delivery-charge override rows at
// startup. An unreachable store is not an error: the built-in defaults
// apply silently.
func FetchDeliveryOverrides(ctx context.Context, repo repository.DeliveryRepository, logger zerolog.Logger) model.DeliveryCharges {
	overrides, err := repo.GetCharges(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("delivery charge lookup failed, using defaults")
		return model.DeliveryCharges{}
	}
	return overrides
}
