// Package redis stores the key-value substrate in Redis.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/msomdec/novacart/internal/domain"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "novacart"

// Substrate maps scope and key onto one Redis string key each.
type Substrate struct {
	client *redis.Client
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, addr, password string, db int) (*Substrate, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Substrate{client: client}, nil
}

// Scope returns the store for one scope.
func (s *Substrate) Scope(name string) domain.KeyValueStore {
	return &kvStore{client: s.client, scope: name}
}

// Migrate is a no-op; Redis keys need no schema.
func (s *Substrate) Migrate(context.Context) error { return nil }

// Ping reports whether Redis is reachable.
func (s *Substrate) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the client's connections.
func (s *Substrate) Close() error {
	return s.client.Close()
}

type kvStore struct {
	client *redis.Client
	scope  string
}

func (s *kvStore) redisKey(key string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, s.scope, key)
}

func (s *kvStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, s.redisKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("redis get: %w", err)
	}
	return v, nil
}

func (s *kvStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.redisKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *kvStore) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
