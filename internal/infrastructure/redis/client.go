package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Config は Redis 接続設定。
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Client は go-redis クライアントの薄いラッパー。
type Client struct {
	client *redis.Client
}

// NewClient は接続を確立し、Ping で疎通を確認してから返す。
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &Client{client: client}, nil
}

// Client returns the underlying Redis client
func (c *Client) Client() *redis.Client {
	return c.client
}

func (c *Client) Close() error {
	return c.client.Close()
}
