package cache

import (
	"context"
	"time"

	"github.com/SandroNardi/wireless-client-graph/config"
	"github.com/SandroNardi/wireless-client-graph/log"
)

const (
	keyName     = "key"
	payloadName = "payload"
)

// External is a key/value store holding cached Meraki API responses.
// Implementations must be safe for concurrent use.
type External interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Shutdown()
}

// SetupExternalCache builds the configured cache backend. When no backend
// is enabled it returns nil without error and callers fall back to the
// in-memory store.
func SetupExternalCache(conf *config.CacheConfig, log log.Logger) (External, error) {
	cacheLog := log.WithPrefix("cache")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second) // give 15 sec to spin up the cache connection
	defer cancel()

	if conf.Redis.Enabled {
		redis, err := newRedis(&conf.Redis, cacheLog)
		if err != nil {
			return nil, err
		}
		return redis, nil
	} else if conf.MongoDb.Enabled {
		mongoDb, err := newMongoDb(ctx, &conf.MongoDb, cacheLog)
		if err != nil {
			return nil, err
		}
		return mongoDb, nil
	} else if conf.DynamoDb.Enabled {
		dynamoDb, err := newDynamoDb(ctx, &conf.DynamoDb, cacheLog)
		if err != nil {
			return nil, err
		}
		return dynamoDb, nil
	}
	return nil, nil
}
