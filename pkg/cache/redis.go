package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/arkiva/doc-registry/pkg/config"
	appErrors "github.com/arkiva/doc-registry/pkg/errors"
)

// NewRedis returns a configured Redis client.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}

// Repository stores JSON payloads in Redis under a namespace prefix.
type Repository struct {
	client *redis.Client
	prefix string
}

// NewRepository builds a Redis-backed cache repository.
func NewRepository(client *redis.Client, prefix string) *Repository {
	if prefix == "" {
		prefix = "docreg"
	}
	return &Repository{client: client, prefix: prefix}
}

func (r *Repository) key(key string) string {
	return r.prefix + ":" + key
}

// Get unmarshals the cached JSON payload into dest.
func (r *Repository) Get(ctx context.Context, key string, dest interface{}) error {
	raw, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return appErrors.ErrCacheMiss
		}
		return err
	}
	return json.Unmarshal(raw, dest)
}

// Set marshals value to JSON and stores it with the given TTL.
func (r *Repository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(key), raw, ttl).Err()
}

// Delete removes a single cached entry.
func (r *Repository) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}
