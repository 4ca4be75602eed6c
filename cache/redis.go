package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/SandroNardi/wireless-client-graph/config"
	"github.com/SandroNardi/wireless-client-graph/log"
	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	redisDb redis.UniversalClient
	log     log.Logger
}

func newRedis(conf *config.RedisConfig, log log.Logger) (External, error) {
	opts := &redis.UniversalOptions{
		Addrs:    conf.Addresses,
		Password: conf.Password,
		Username: conf.User,
		DB:       conf.DB,
	}
	if conf.Tls.Enabled {
		t, err := conf.Tls.LoadTlsOptions()
		if err != nil {
			log.Errorf("failed to load certificate and key files: %s", err)
			return nil, fmt.Errorf("failed to load certificate and key files: %s", err)
		}
		opts.TLSConfig = t
	}
	log.Reportf("using Redis for cache storage")
	return &redisStore{
		redisDb: redis.NewUniversalClient(opts),
		log:     log,
	}, nil
}

func (r *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	payload, err := r.redisDb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrEntryNotFound
	}
	return payload, err
}

func (r *redisStore) Set(ctx context.Context, key string, value []byte) error {
	return r.redisDb.Set(ctx, key, value, 0).Err()
}

func (r *redisStore) Shutdown() {
	err := r.redisDb.Close()
	if err != nil {
		r.log.Errorf("shutdown error: %s", err)
	}
	r.log.Reportf("shutdown complete")
}
