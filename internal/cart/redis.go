package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"storefront/internal/model"
)

// redisStore persists carts in Redis so they survive page reloads and
// process restarts. One JSON document per session, refreshed with a TTL
// on every write.
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisStore creates a Redis-backed cart store. It pings the server
// to verify connectivity.
func NewRedisStore(ctx context.Context, client *redis.Client, ttl time.Duration, logger zerolog.Logger) (Store, error) {
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &redisStore{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "cart-store").Logger(),
	}, nil
}

func cartKey(sessionID string) string {
	return "cart:" + sessionID
}

func (s *redisStore) Get(ctx context.Context, sessionID string) (model.Cart, error) {
	lines, err := s.load(ctx, sessionID)
	if err != nil {
		return model.Cart{}, err
	}
	return model.Cart{SessionID: sessionID, Lines: lines}, nil
}

func (s *redisStore) AddItem(ctx context.Context, sessionID string, line model.CartLine) (model.Cart, error) {
	return s.mutate(ctx, sessionID, func(lines []model.CartLine) []model.CartLine {
		return applyAdd(lines, line)
	})
}

func (s *redisStore) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (model.Cart, error) {
	return s.mutate(ctx, sessionID, func(lines []model.CartLine) []model.CartLine {
		return applyQuantity(lines, productID, quantity)
	})
}

func (s *redisStore) RemoveItem(ctx context.Context, sessionID, productID string) (model.Cart, error) {
	return s.mutate(ctx, sessionID, func(lines []model.CartLine) []model.CartLine {
		return applyRemove(lines, productID)
	})
}

func (s *redisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (s *redisStore) mutate(ctx context.Context, sessionID string, fn func([]model.CartLine) []model.CartLine) (model.Cart, error) {
	lines, err := s.load(ctx, sessionID)
	if err != nil {
		return model.Cart{}, err
	}

	lines = fn(lines)

	if len(lines) == 0 {
		if err := s.Clear(ctx, sessionID); err != nil {
			return model.Cart{}, err
		}
		return model.Cart{SessionID: sessionID, Lines: nil}, nil
	}

	data, err := json.Marshal(lines)
	if err != nil {
		return model.Cart{}, fmt.Errorf("failed to encode cart: %w", err)
	}

	if err := s.client.Set(ctx, cartKey(sessionID), data, s.ttl).Err(); err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to save cart")
		return model.Cart{}, fmt.Errorf("failed to save cart: %w", err)
	}

	return model.Cart{SessionID: sessionID, Lines: lines}, nil
}

func (s *redisStore) load(ctx context.Context, sessionID string) ([]model.CartLine, error) {
	data, err := s.client.Get(ctx, cartKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to load cart")
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var lines []model.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		// A corrupt cart document is unrecoverable; start the
		// session over rather than failing every request.
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("discarding unreadable cart")
		return nil, nil
	}

	return lines, nil
}
