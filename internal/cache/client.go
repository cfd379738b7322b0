package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"print_shop_sync/internal/models"

	"github.com/go-redis/redis/v8"
)

// ErrCacheMiss is returned when a key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

const orderStatsKey = "orders:stats"

type Client struct {
	rdb *redis.Client
}

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Order stats caching. The dashboard polls stats far more often than they
// change, so they are held under a short TTL and dropped after any write.
func (c *Client) SetOrderStats(ctx context.Context, stats *models.OrderStats, ttl time.Duration) error {
	jsonData, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal order stats: %w", err)
	}

	return c.rdb.Set(ctx, orderStatsKey, jsonData, ttl).Err()
}

func (c *Client) GetOrderStats(ctx context.Context) (*models.OrderStats, error) {
	val, err := c.rdb.Get(ctx, orderStatsKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get order stats: %w", err)
	}

	var stats models.OrderStats
	if err := json.Unmarshal([]byte(val), &stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order stats: %w", err)
	}

	return &stats, nil
}

func (c *Client) InvalidateOrderStats(ctx context.Context) error {
	return c.rdb.Del(ctx, orderStatsKey).Err()
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
