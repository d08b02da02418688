package cache

import (
	"os"

	"github.com/umakantv/go-utils/cache"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// InitializeCache connects the redis-backed cache used for the
// read-heavy catalogue lookups.
func InitializeCache(redisAddr string) cache.Cache {
	cache, err := cache.New(cache.Config{
		Type:          "redis",
		RedisAddr:     redisAddr,
		RedisPassword: "",
		RedisDB:       0,
	})
	if err != nil {
		logger.Error("Failed to initialize cache:", zap.Error(err))
		os.Exit(1)
	}
	return cache
}
