package cache

import (
	"context"
	"time"
)

// Store кэш с TTL. Значения сериализуются в JSON.
type Store interface {
	// Get заполняет dst и возвращает true, если ключ найден и не истёк.
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
