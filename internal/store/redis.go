package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/musedating/muse-engine/internal/config"
)

// RedisStore persists the snapshot as a single redis key with no TTL.
type RedisStore struct {
	Client *redis.Client
	key    string
}

// NewRedisStore initializes the redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisStore(cfg *config.Config) *RedisStore {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisStore{Client: redis.NewClient(opts), key: cfg.Store.Key}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx).Err()
}

func (s *RedisStore) Load(ctx context.Context) ([]byte, error) {
	val, err := s.Client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (s *RedisStore) Save(ctx context.Context, blob []byte) error {
	return s.Client.Set(ctx, s.key, blob, 0).Err()
}
