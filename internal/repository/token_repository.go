package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const refreshTokenKeyPrefix = "refresh_token:"

// TokenRepository stores opaque refresh tokens in Redis. The TTL doubles
// as the token expiry, so expired tokens vanish without a sweeper.
type TokenRepository struct {
	client *redis.Client
}

// NewTokenRepository constructs a token repository.
func NewTokenRepository(client *redis.Client) *TokenRepository {
	return &TokenRepository{client: client}
}

// Store associates a refresh token with a user id for the given lifetime.
func (r *TokenRepository) Store(ctx context.Context, token, userID string, ttl time.Duration) error {
	if err := r.client.Set(ctx, refreshTokenKeyPrefix+token, userID, ttl).Err(); err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}
	return nil
}

// Resolve returns the user id a refresh token belongs to, or "" when the
// token is unknown or expired.
func (r *TokenRepository) Resolve(ctx context.Context, token string) (string, error) {
	userID, err := r.client.Get(ctx, refreshTokenKeyPrefix+token).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", fmt.Errorf("resolve refresh token: %w", err)
	}
	return userID, nil
}

// Revoke invalidates a refresh token.
func (r *TokenRepository) Revoke(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, refreshTokenKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}
