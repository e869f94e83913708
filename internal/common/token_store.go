package common

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"riverbend/portal/internal/constants"
)

// TokenStore issues single-use tokens (email verification, password reset)
// that map back to a user id.
type TokenStore struct {
	cache CacheInterface
}

func NewTokenStore(cache CacheInterface) *TokenStore {
	return &TokenStore{cache: cache}
}

func (s *TokenStore) Issue(ctx context.Context, prefix constants.CachePrefix, userID string, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	if err := s.cache.Set(ctx, string(prefix)+token, []byte(userID), ttl); err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}
	return token, nil
}

// Consume returns the user id for token and invalidates it.
func (s *TokenStore) Consume(ctx context.Context, prefix constants.CachePrefix, token string) (string, bool) {
	if token == "" {
		return "", false
	}
	data, ok := s.cache.Take(ctx, string(prefix)+token)
	if !ok || len(data) == 0 {
		return "", false
	}
	return string(data), true
}
