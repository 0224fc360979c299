package shared

import (
	"net"

	"github.com/redis/go-redis/v9"
)

// NewRedis returns nil when no REDIS_HOST is configured.
func NewRedis(cfg *Config) *redis.Client {
	if cfg.RedisHost == "" {
		return nil
	}

	port := cfg.RedisPort
	if port == "" {
		port = "6379"
	}

	return redis.NewClient(&redis.Options{
		Addr: net.JoinHostPort(cfg.RedisHost, port),
		DB:   0,
	})
}
