package config

import (
	"sync"

	"github.com/spf13/viper"

	"github.com/kochabx/campus/log"
	"github.com/kochabx/campus/validator"
)

// Config manages application configuration.
type Config struct {
	mu       sync.RWMutex
	viper    *viper.Viper
	validate validator.Validator
	target   any
	loader   Loader
}

// New creates a Config that unmarshals into target. Without an explicit
// loader, a FileLoader reading "config.yaml" from the working directory is
// used.
func New(target any, opts ...Option) *Config {
	c := &Config{
		viper:    viper.New(),
		validate: validator.Validate,
		target:   target,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.loader == nil {
		c.loader = NewFileLoader("config.yaml", []string{"."}, c.viper, c.validate)
	}

	return c
}

// Load reads the configuration using the configured loader.
func (c *Config) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.loader.Load(c.target)
}

// Watch reloads the configuration when the loader detects a change.
func (c *Config) Watch() error {
	return c.loader.Watch(func() {
		log.Info().Msg("config change detected")

		c.mu.Lock()
		err := c.loader.Load(c.target)
		c.mu.Unlock()

		if err != nil {
			log.Error().Err(err).Msg("failed to reload config after change")
			return
		}

		log.Info().Msg("config reloaded successfully")
	})
}

// Loader loads configuration into a target struct.
type Loader interface {
	Load(target any) error

	// Watch starts watching for configuration changes. The callback is
	// invoked when a change is detected.
	Watch(callback func()) error
}

// Option configures a Config.
type Option func(*Config)

// WithLoader sets the configuration loader.
func WithLoader(loader Loader) Option {
	return func(c *Config) {
		c.loader = loader
	}
}

// WithValidator sets a custom validator.
func WithValidator(v validator.Validator) Option {
	return func(c *Config) {
		c.validate = v
	}
}
