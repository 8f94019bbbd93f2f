package config

// This file defines the Redis client constructor. Redis backs the response
// cache and the rate limiter. When Addr is empty, or the server cannot be
// reached at startup, no client is returned and both features degrade to
// pass-through middleware.

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds Redis connection details. Addr is host:port; an empty
// Addr disables Redis.
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db" validate:"gte=0"`
	TLS      bool   `koanf:"tls"`
}

func defaultRedisConfig() RedisConfig {
	return RedisConfig{}
}

// NewRedisClient instantiates a Redis client from cfg. It returns nil when
// Redis is not configured or does not answer a ping within two seconds.
func NewRedisClient(cfg RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}
	var tlsConf *tls.Config
	if cfg.TLS {
		tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(&redis.Options{
		Addr:      cfg.Addr,
		Password:  cfg.Password,
		DB:        cfg.DB,
		TLSConfig: tlsConf,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}
