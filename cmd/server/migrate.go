package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/soaringjerry/Candor/internal/cache"
	"github.com/soaringjerry/Candor/internal/db"
	"github.com/soaringjerry/Candor/internal/logging"
)

// openStore opens the local SQLite database and brings its schema up to date.
func openStore(path string) (*db.SQLiteStore, error) {
	conn, err := db.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store, err := db.NewSQLiteStore(conn)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("init sqlite store: %w", err)
	}
	return store, nil
}

// openCache prefers Redis and falls back to process memory when Redis is not
// configured or unreachable. The returned func releases the connection.
func openCache(ctx context.Context, logger *logging.Logger, url string) (cache.Cache, func()) {
	if url == "" {
		logger.Info(ctx, "redis not configured, using in-memory cache")
		return cache.NewMemoryCache(), func() {}
	}
	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rdb, err := cache.Dial(dialCtx, url)
	if err != nil {
		logger.Warn(ctx, "redis unavailable, using in-memory cache", zap.Error(err))
		return cache.NewMemoryCache(), func() {}
	}
	return cache.NewRedisCache(rdb), func() {
		if err := rdb.Close(); err != nil {
			logger.Warn(ctx, "failed to close redis", zap.Error(err))
		}
	}
}
