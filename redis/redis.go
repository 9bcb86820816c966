package redis

import (
	"context"
	"time"

	"portfolio-backend/config"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

// NewClient creates a Redis client from configuration. A failed initial ping
// is logged but not fatal: the server keeps running and serves health
// endpoints while data endpoints return 503 until the store comes back.
func NewClient(cfg config.RedisConfig) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Error().Err(err).Str("address", cfg.Address).
			Msg("Failed to connect to Redis - data endpoints unavailable until connection is established")
		return rdb
	}

	log.Info().Msg("Connected to Redis successfully")
	return rdb
}
