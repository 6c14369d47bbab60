package config

import (
	"context"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to the Redis instance named by REDIS_ADDR. Returns
// nil when REDIS_ADDR is unset or the server is unreachable; callers treat a
// nil client as "Redis disabled".
func NewRedisClient() *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		log.Printf("WARNING: Failed to connect to Redis at %s: %v. Falling back to in-memory rate limiting.", addr, err)
		return nil
	}

	log.Println("Redis connected successfully")
	return client
}
