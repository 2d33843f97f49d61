package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/StorefrontGo/internal/domain"
	apperrors "github.com/utafrali/StorefrontGo/pkg/errors"
)

const cartKey = "storefront:cart"

// RedisRepository implements Repository using Redis.
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRepository creates a Redis-backed cart repository. Saved carts
// expire after the given TTL so abandoned selections age out.
func NewRedisRepository(client *redis.Client, ttl time.Duration) *RedisRepository {
	return &RedisRepository{client: client, ttl: ttl}
}

// Load retrieves the persisted cart.
func (r *RedisRepository) Load(ctx context.Context) (*domain.Cart, error) {
	data, err := r.client.Get(ctx, cartKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("cart", "current")
		}
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}

	return &cart, nil
}

// Save persists the cart with the configured TTL. The drawer open state is
// ephemeral and not persisted.
func (r *RedisRepository) Save(ctx context.Context, cart domain.Cart) error {
	cart.IsOpen = false

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	if err := r.client.Set(ctx, cartKey, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}

	return nil
}

// Delete removes the persisted cart.
func (r *RedisRepository) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, cartKey).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}
	return nil
}
