package redis

import (
	"context"
	"time"

	v9 "github.com/redis/go-redis/v9"
)

// Client defines the interface for a Redis client.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=redis_mock
type Client interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Ping(ctx context.Context) error
	Reconnect(ctx context.Context) bool

	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)

	HSet(ctx context.Context, key string, values map[string]any) (int64, error)

	ZAdd(ctx context.Context, key string, members ...v9.Z) (int64, error)
}
