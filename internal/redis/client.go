package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/convoflow/crm-bridge-go/internal/config"
)

type Client struct {
	*redis.Client
}

// NewClient parses redisURL (redis:// or rediss://) and checks the server
// answers before returning.
func NewClient(ctx context.Context, redisURL string) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, config.PingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Client{client}, nil
}

func (c *Client) Close() error {
	return c.Client.Close()
}
