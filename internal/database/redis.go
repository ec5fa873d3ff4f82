package database

import (
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"storefront/internal/config"
)

// NewRedisClient creates a Redis client for the session cart store.
func NewRedisClient(cfg config.RedisConfig, logger zerolog.Logger) *redis.Client {
	logger.Info().
		Str("addr", cfg.Addr).
		Int("db", cfg.DB).
		Msg("creating redis client")

	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}
