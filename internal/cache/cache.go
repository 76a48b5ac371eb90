package cache

import (
	"context"
	"time"
)

// Cache is the byte cache shared by the forms cache and the session store.
// Misses and backend failures both read as a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
}
