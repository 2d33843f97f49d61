package session

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"github.com/utafrali/StorefrontGo/internal/gateway"
)

const (
	accessKey  = "storefront:token:access"
	refreshKey = "storefront:token:refresh"
)

// RedisTokenRepository persists the credential pair in Redis so the session
// survives process restarts. Each token expires from Redis when the JWT
// itself expires, so a restore never finds credentials the backend would
// reject on sight.
type RedisTokenRepository struct {
	client *redis.Client
}

// NewRedisTokenRepository creates a Redis-backed token repository.
func NewRedisTokenRepository(client *redis.Client) *RedisTokenRepository {
	return &RedisTokenRepository{client: client}
}

// Tokens returns the stored pair. Missing keys yield empty fields.
func (r *RedisTokenRepository) Tokens(ctx context.Context) (gateway.TokenPair, error) {
	var pair gateway.TokenPair

	access, err := r.client.Get(ctx, accessKey).Result()
	if err != nil && err != redis.Nil {
		return gateway.TokenPair{}, fmt.Errorf("redis get access token: %w", err)
	}
	pair.Access = access

	refresh, err := r.client.Get(ctx, refreshKey).Result()
	if err != nil && err != redis.Nil {
		return gateway.TokenPair{}, fmt.Errorf("redis get refresh token: %w", err)
	}
	pair.Refresh = refresh

	return pair, nil
}

// Store persists a complete token pair.
func (r *RedisTokenRepository) Store(ctx context.Context, pair gateway.TokenPair) error {
	if err := r.client.Set(ctx, accessKey, pair.Access, tokenTTL(pair.Access)).Err(); err != nil {
		return fmt.Errorf("redis set access token: %w", err)
	}
	if err := r.client.Set(ctx, refreshKey, pair.Refresh, tokenTTL(pair.Refresh)).Err(); err != nil {
		return fmt.Errorf("redis set refresh token: %w", err)
	}
	return nil
}

// StoreAccess replaces only the access token after a refresh.
func (r *RedisTokenRepository) StoreAccess(ctx context.Context, access string) error {
	if err := r.client.Set(ctx, accessKey, access, tokenTTL(access)).Err(); err != nil {
		return fmt.Errorf("redis set access token: %w", err)
	}
	return nil
}

// Clear drops both tokens.
func (r *RedisTokenRepository) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, accessKey, refreshKey).Err(); err != nil {
		return fmt.Errorf("redis del tokens: %w", err)
	}
	return nil
}

// tokenTTL derives a Redis TTL from the JWT's exp claim. The signature is not
// verified; the backend does that. Tokens without a readable expiry are kept
// for a day as a safety bound.
func tokenTTL(token string) time.Duration {
	const fallback = 24 * time.Hour

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return fallback
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return fallback
	}

	ttl := time.Until(exp.Time)
	if ttl <= 0 {
		// Already expired; keep it just long enough for the caller to see
		// the rejection path rather than a silent disappearance.
		return time.Minute
	}
	return ttl
}
