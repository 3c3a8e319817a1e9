//go:build integration

package containers

import (
	"context"
	"fmt"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// RedisContainer wraps a testcontainers Redis instance used by the stream
// ledger suites.
type RedisContainer struct {
	Container testcontainers.Container
	URL       string
	Client    *redis.Client
}

// NewRedisContainer starts Redis and returns a connected client.
func NewRedisContainer(t *testing.T) *RedisContainer {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Fatalf("start redis container: %v", err)
	}

	url, err := container.ConnectionString(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("redis connection string: %v", err)
	}

	client, err := connectRedis(ctx, url)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("%v", err)
	}

	// No t.Cleanup: the Manager shares this container across suites and Ryuk
	// reaps it at process exit.
	return &RedisContainer{Container: container, URL: url, Client: client}
}

func connectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// DeleteStreams drops the given stream keys so each test starts empty.
func (r *RedisContainer) DeleteStreams(ctx context.Context, streams ...string) error {
	if len(streams) == 0 {
		return nil
	}
	return r.Client.Del(ctx, streams...).Err()
}

// StreamEntries returns every entry of stream in insertion order.
func (r *RedisContainer) StreamEntries(ctx context.Context, stream string) ([]redis.XMessage, error) {
	return r.Client.XRange(ctx, stream, "-", "+").Result()
}
