package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a KV backed by plain redis string keys.
type Redis struct {
	client *redis.Client
}

// OpenRedis connects to rawURL and pings the server. A bare host:port is accepted.
func OpenRedis(ctx context.Context, rawURL string) (*Redis, error) {
	if rawURL == "" {
		rawURL = "localhost:6379"
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "redis://" + rawURL
	}

	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	return NewRedis(ctx, redis.NewClient(opt))
}

// NewRedis wraps an existing client and checks connectivity.
func NewRedis(ctx context.Context, client *redis.Client) (*Redis, error) {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &Redis{client: client}, nil
}

// Close closes the client.
func (r *Redis) Close() error {
	return r.client.Close()
}

// Get returns the value stored under key.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return value, err
}

// Put replaces the value stored under key with no expiry.
func (r *Redis) Put(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, key, value, 0).Err()
}
