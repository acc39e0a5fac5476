package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/adl-parti/membership-backend/internal/config"
	"github.com/adl-parti/membership-backend/pkg/logger"
	rds "github.com/redis/go-redis/v9"
)

type Redis struct {
	Client *rds.Client
	Logger *logger.Logger
}

var ErrCacheMiss = errors.New("cache miss")

func New(config *config.Config, logger *logger.Logger) (*Redis, func()) {
	ops, err := rds.ParseURL(config.Redis.URI)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse redis url")
	}

	redis := &Redis{
		Client: rds.NewClient(ops),
		Logger: logger,
	}

	err = redis.Ping()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to ping redis")
	}

	cleanUp := func() {
		_ = redis.Close()
	}

	return redis, cleanUp
}

func (r *Redis) Ping() error {
	return r.Client.Ping(context.Background()).Err()
}

func (r *Redis) Close() error {
	return r.Client.Close()
}

func (r *Redis) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	v, err := json.Marshal(value)
	if err != nil {
		return err
	}

	r.Logger.Debug().Str("key", key).Msg("setting cache value")
	return r.Client.Set(ctx, key, v, expiration).Err()
}

func (r *Redis) Get(ctx context.Context, key string, dest any) error {
	v, err := r.Client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, rds.Nil) {
			return ErrCacheMiss
		}
		return err
	}

	return json.Unmarshal([]byte(v), dest)
}

func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.Client.Del(ctx, keys...).Err()
}
