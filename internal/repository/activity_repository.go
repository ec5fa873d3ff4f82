package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"storefront/internal/model"
)

// activityRepository writes behavioural events to PostgreSQL. Callers
// are expected to treat failures as non-fatal.
type activityRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewActivityRepository creates a new PostgreSQL-backed activity repository.
func NewActivityRepository(pool *pgxpool.Pool, logger zerolog.Logger) ActivityRepository {
	return &activityRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "activity").Logger(),
	}
}

// Insert writes a single activity row.
func (r *activityRepository) Insert(ctx context.Context, activity model.Activity) error {
	query := `
		INSERT INTO user_activity (session_id, user_agent, ip_address, activity_type, page_path, product_id, product_name, metadata, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	var metadata []byte
	if len(activity.Metadata) > 0 {
		var err error
		metadata, err = json.Marshal(activity.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode activity metadata: %w", err)
		}
	}

	_, err := r.pool.Exec(ctx, query,
		activity.SessionID,
		activity.UserAgent,
		activity.IPAddress,
		activity.ActivityType,
		activity.PagePath,
		nullable(activity.ProductID),
		nullable(activity.ProductName),
		metadata,
		activity.Timestamp,
	)
	if err != nil {
		r.logger.Debug().Err(err).Str("activity_type", activity.ActivityType).Msg("failed to insert activity")
		return fmt.Errorf("failed to insert activity: %w", err)
	}

	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
