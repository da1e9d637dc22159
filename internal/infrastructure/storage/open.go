// internal/infrastructure/storage/open.go
package storage

import (
	"fmt"

	"github.com/nishantmakwanaa/clothing-store/internal/config"
	"github.com/redis/go-redis/v9"
)

// Open returns the store selected by the client configuration.
// rdb may be nil unless the redis provider is selected.
func Open(cfg config.ClientConfig, rdb *redis.Client) (Store, error) {
	switch cfg.StorageProvider {
	case "file":
		return NewFileStore(cfg.StoragePath)
	case "redis":
		if rdb == nil {
			return nil, fmt.Errorf("redis storage selected but no redis client configured")
		}
		return NewRedisStore(rdb, cfg.RedisKeyPrefix), nil
	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", cfg.StorageProvider)
	}
}
