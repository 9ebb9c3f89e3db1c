package persist

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis adapts a Redis instance to the KV contract. Values map to plain
// string keys; Append pushes onto a Redis list so the history log keeps
// entry order.
type Redis struct {
	client *redis.Client
}

// NewRedis parses redisURL, verifies connectivity and returns the adapter.
func NewRedis(ctx context.Context, redisURL string) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &Redis{client: client}, nil
}

// Client exposes the underlying connection for the event publisher.
func (r *Redis) Client() *redis.Client { return r.client }

// Close releases the connection.
func (r *Redis) Close() error { return r.client.Close() }

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %q: %w", key, err)
	}
	return data, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

func (r *Redis) Append(ctx context.Context, key string, entry []byte) error {
	if err := r.client.RPush(ctx, key, entry).Err(); err != nil {
		return fmt.Errorf("redis rpush %q: %w", key, err)
	}
	return nil
}
