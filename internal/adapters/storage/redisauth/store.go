package redisauth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/maumlog/maum-api/internal/domain"
)

const (
	keyPrefix  = "authsession:"
	defaultTTL = 24 * time.Hour
)

// Store resolves opaque auth tokens to user ids via Redis. Tokens expire on
// TTL; reads refresh it.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Store{client: client, ttl: ttl}
}

func (s *Store) key(token string) string {
	return keyPrefix + token
}

// Put registers a token for a user with the configured TTL.
func (s *Store) Put(ctx context.Context, token string, userID domain.UserID) error {
	if err := s.client.Set(ctx, s.key(token), string(userID), s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set auth session: %w", err)
	}
	return nil
}

// FindUserID implements domain.AuthSessionStore. An unknown or expired token
// resolves to "".
func (s *Store) FindUserID(ctx context.Context, token string) (domain.UserID, error) {
	val, err := s.client.Get(ctx, s.key(token)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get auth session: %w", err)
	}

	// Sliding expiry: a token stays valid while in use.
	_ = s.client.Expire(ctx, s.key(token), s.ttl).Err()

	return domain.UserID(val), nil
}

// Delete revokes a token (logout).
func (s *Store) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("redis delete auth session: %w", err)
	}
	return nil
}
