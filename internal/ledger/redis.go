package ledger

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisWriter appends rows to a Redis stream, one entry per registration
// with one field per column.
type RedisWriter struct {
	client *redis.Client
	stream string
}

// NewRedis parses url, pings the server and returns a writer.
func NewRedis(ctx context.Context, url, stream string) (*RedisWriter, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewRedisFromClient(client, stream), nil
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(client *redis.Client, stream string) *RedisWriter {
	if stream == "" {
		stream = "registrations"
	}
	return &RedisWriter{client: client, stream: stream}
}

func (w *RedisWriter) Name() string {
	return "redis"
}

// Append adds one stream entry.
func (w *RedisWriter) Append(ctx context.Context, row Row) error {
	if len(row) != len(Columns) {
		return fmt.Errorf("ledger row has %d cells, want %d", len(row), len(Columns))
	}
	values := make(map[string]any, len(Columns))
	for i, col := range Columns {
		values[col] = row[i]
	}
	if err := w.client.XAdd(ctx, &redis.XAddArgs{Stream: w.stream, Values: values}).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", w.stream, err)
	}
	return nil
}

// Close closes the client.
func (w *RedisWriter) Close() error {
	return w.client.Close()
}
