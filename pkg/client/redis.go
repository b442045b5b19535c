package client

import (
	"context"
	"time"

	"carpark/pkg/logger"

	"github.com/go-redis/redis/v8"
)

func (c *Client) SetRedis(log *logger.Logger, addr, password string, db int) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to ping Redis",
			"error", err,
			"addr", addr,
		)
	}

	log.Info("Successfully connected to Redis")
	c.Redis = redisClient
	c.log = log
}
