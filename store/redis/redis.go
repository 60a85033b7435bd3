package redis

import (
	"context"
	"errors"
	"runtime"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrClientNotInitialized = errors.New("redis client not initialized")

// Nil is the reply returned when a key does not exist.
const Nil = redis.Nil

// Client wraps a single-node Redis client.
type Client struct {
	Client *redis.Client
	config *Config
}

// NewClient creates a Redis client and verifies the connection.
func NewClient(config *Config) (*Client, error) {
	c := &Client{config: config}
	config.applyDefaults()

	poolSize := config.PoolSize
	if poolSize == 0 {
		poolSize = 10 * runtime.GOMAXPROCS(0)
	}

	c.Client = redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     poolSize,
		DialTimeout:  time.Duration(config.DialTimeout) * time.Second,
		ReadTimeout:  time.Duration(config.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(config.WriteTimeout) * time.Second,
		MaxRetries:   config.MaxRetries,
	})

	if err := c.Ping(context.Background()); err != nil {
		_ = c.Close()
		return nil, err
	}

	return c, nil
}

// Ping verifies the Redis connection.
func (c *Client) Ping(ctx context.Context) error {
	if c.Client == nil {
		return ErrClientNotInitialized
	}

	_, err := c.Client.Ping(ctx).Result()
	return err
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	if c.Client == nil {
		return nil
	}

	err := c.Client.Close()
	c.Client = nil // avoid double close
	return err
}

// GetClient returns the underlying Redis client instance.
func (c *Client) GetClient() *redis.Client {
	return c.Client
}

// Config configures the Redis client.
type Config struct {
	Addr         string `json:"addr" mapstructure:"addr" validate:"required"`
	Password     string `json:"password" mapstructure:"password"`
	DB           int    `json:"db" mapstructure:"db"`
	PoolSize     int    `json:"pool_size" mapstructure:"pool_size"`
	DialTimeout  int    `json:"dial_timeout" mapstructure:"dial_timeout"`   // seconds
	ReadTimeout  int    `json:"read_timeout" mapstructure:"read_timeout"`   // seconds
	WriteTimeout int    `json:"write_timeout" mapstructure:"write_timeout"` // seconds
	MaxRetries   int    `json:"max_retries" mapstructure:"max_retries"`
}

func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = "localhost:6379"
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = 5
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 3
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 3
	}
}
