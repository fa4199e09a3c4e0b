// Package cache provides a small read-through cache used for hot lookups
// such as staff profiles. The noop implementation keeps the dependency
// optional in tests and in deployments without Redis.
package cache

import (
	"context"
	"time"
)

// Cache is a string key-value cache with TTL.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

// Noop is a cache that stores nothing.
type Noop struct{}

func (Noop) Get(context.Context, string) (string, bool)         { return "", false }
func (Noop) Set(context.Context, string, string, time.Duration) {}
func (Noop) Delete(context.Context, string)                     {}
