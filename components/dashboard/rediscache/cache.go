// Package rediscache shares chart markup and widget events between studio
// server instances through Redis.
package rediscache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/goliatone/go-studio/components/dashboard"
)

const defaultPrefix = "studio:chart:"

// Options configures a Cache.
type Options struct {
	TTL    time.Duration
	Prefix string
	Logger *zap.Logger
}

// Cache implements dashboard.RenderCache on top of a Redis client. Redis
// failures never fail a render: the chart is drawn and the error logged.
type Cache struct {
	client redis.UniversalClient
	ttl    time.Duration
	prefix string
	log    *zap.Logger
}

var _ dashboard.RenderCache = (*Cache)(nil)

func NewCache(client redis.UniversalClient, opts Options) (*Cache, error) {
	if client == nil {
		return nil, errors.New("rediscache: client required")
	}
	if opts.Prefix == "" {
		opts.Prefix = defaultPrefix
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Cache{client: client, ttl: opts.TTL, prefix: opts.Prefix, log: opts.Logger.Named("rediscache")}, nil
}

// GetOrRender returns the stored markup for key or renders and stores it.
// A zero TTL bypasses Redis entirely.
func (c *Cache) GetOrRender(ctx context.Context, key string, render func() (string, error)) (string, error) {
	if c.ttl <= 0 {
		return render()
	}
	full := c.prefix + key
	html, err := c.client.Get(ctx, full).Result()
	switch {
	case err == nil:
		return html, nil
	case !errors.Is(err, redis.Nil):
		c.log.Warn("chart cache read failed", zap.String("key", full), zap.Error(err))
	}

	html, err = render()
	if err != nil {
		return "", err
	}
	if err := c.client.Set(ctx, full, html, c.ttl).Err(); err != nil {
		c.log.Warn("chart cache write failed", zap.String("key", full), zap.Error(err))
	}
	return html, nil
}
