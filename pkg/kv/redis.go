// Package kv is a thin read-only Redis client with key prefixing.
package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a key does not exist.
var ErrNotFound = errors.New("kv: key not found")

// Option configures the Redis client.
type Option func(*Config)

// Config holds Redis configuration.
type Config struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	PoolTimeout  time.Duration
	MinIdleConns int
	Prefix       string
}

// WithAddr sets the host:port address.
func WithAddr(addr string) Option {
	return func(c *Config) { c.Addr = addr }
}

// WithPassword sets the password.
func WithPassword(password string) Option {
	return func(c *Config) { c.Password = password }
}

// WithDB selects the database.
func WithDB(db int) Option {
	return func(c *Config) { c.DB = db }
}

// WithPrefix sets the key prefix. Keys are stored as "<prefix>:<key>".
func WithPrefix(prefix string) Option {
	return func(c *Config) { c.Prefix = prefix }
}

// Client reads sets and lists under a key prefix.
type Client struct {
	client redis.Cmdable
	closer func() error
	prefix string
}

// New connects and pings Redis.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &Config{
		Addr:         "localhost:6379",
		PoolSize:     10,
		PoolTimeout:  30 * time.Second,
		MinIdleConns: 1,
		Prefix:       "marketgate",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	rc := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		PoolTimeout:  cfg.PoolTimeout,
		MinIdleConns: cfg.MinIdleConns,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Client{client: rc, closer: rc.Close, prefix: cfg.Prefix}, nil
}

// NewWithCmdable wraps an existing client.
func NewWithCmdable(c redis.Cmdable, prefix string) *Client {
	return &Client{client: c, prefix: prefix}
}

// Close closes the connection when the client owns it.
func (c *Client) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer()
}

// Members returns the members of a set in no particular order. A missing key
// yields an empty slice.
func (c *Client) Members(ctx context.Context, key string) ([]string, error) {
	out, err := c.client.SMembers(ctx, c.wrapKey(key)).Result()
	if err != nil {
		return nil, fmt.Errorf("smembers %s: %w", key, err)
	}
	return out, nil
}

// List returns every element of a list in order.
func (c *Client) List(ctx context.Context, key string) ([]string, error) {
	full := c.wrapKey(key)
	n, err := c.client.Exists(ctx, full).Result()
	if err != nil {
		return nil, fmt.Errorf("exists %s: %w", key, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	out, err := c.client.LRange(ctx, full, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", key, err)
	}
	return out, nil
}

func (c *Client) wrapKey(key string) string {
	if c.prefix == "" {
		return key
	}
	return fmt.Sprintf("%s:%s", c.prefix, key)
}
