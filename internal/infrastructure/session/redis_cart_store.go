package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/joyeria/backend/internal/domain/ordering"
	"github.com/joyeria/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisCartStore implements ordering.CartStore using Redis. Carts are
// serialized as JSON and expire after the configured TTL of inactivity;
// an abandoned cart simply disappears.
type RedisCartStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
	logger    *zap.Logger
}

// NewRedisCartStore creates a cart store with an existing Redis client
func NewRedisCartStore(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisCartStore {
	return &RedisCartStore{
		client:    client,
		keyPrefix: "cart:",
		ttl:       ttl,
		logger:    logger,
	}
}

func (s *RedisCartStore) key(userID uuid.UUID) string {
	return s.keyPrefix + userID.String()
}

// Get loads the cart for a user, returning an empty cart when none exists
func (s *RedisCartStore) Get(ctx context.Context, userID uuid.UUID) (ordering.Cart, error) {
	payload, err := s.client.Get(ctx, s.key(userID)).Bytes()
	if err == redis.Nil {
		return ordering.NewCart(), nil
	}
	if err != nil {
		return ordering.Cart{}, shared.ErrStoreUnavailable.WithMeta("cause", err.Error())
	}

	var cart ordering.Cart
	if err := json.Unmarshal(payload, &cart); err != nil {
		// A corrupt entry is unrecoverable; drop it rather than brick the session
		s.logger.Warn("dropping corrupt cart entry",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		if delErr := s.client.Del(ctx, s.key(userID)).Err(); delErr != nil {
			return ordering.Cart{}, shared.ErrStoreUnavailable.WithMeta("cause", delErr.Error())
		}
		return ordering.NewCart(), nil
	}

	return cart, nil
}

// Save stores the cart for a user and resets its TTL
func (s *RedisCartStore) Save(ctx context.Context, userID uuid.UUID, cart ordering.Cart) error {
	payload, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to serialize cart: %w", err)
	}
	if err := s.client.Set(ctx, s.key(userID), payload, s.ttl).Err(); err != nil {
		return shared.ErrStoreUnavailable.WithMeta("cause", err.Error())
	}
	return nil
}

// Clear deletes the cart for a user
func (s *RedisCartStore) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return shared.ErrStoreUnavailable.WithMeta("cause", err.Error())
	}
	return nil
}

var _ ordering.CartStore = (*RedisCartStore)(nil)
