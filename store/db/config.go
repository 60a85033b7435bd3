package db

import (
	"strings"

	"gorm.io/gorm/logger"
)

// Driver is the database driver type.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

// Config configures the database client.
type Config struct {
	Driver          Driver `json:"driver" mapstructure:"driver" validate:"required,oneof=postgres sqlite"`
	DSN             string `json:"dsn" mapstructure:"dsn" validate:"required"`
	LogLevel        string `json:"log_level" mapstructure:"log_level"`
	MaxIdleConns    int    `json:"max_idle_conns" mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `json:"max_open_conns" mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `json:"conn_max_lifetime" mapstructure:"conn_max_lifetime"` // seconds
}

func (c *Config) applyDefaults() {
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = 10
	}
	if c.MaxOpenConns == 0 {
		c.MaxOpenConns = 100
	}
	if c.ConnMaxLifetime == 0 {
		c.ConnMaxLifetime = 3600
	}
}

func (c *Config) gormLogLevel() logger.LogLevel {
	switch strings.ToLower(c.LogLevel) {
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return logger.Silent
	}
}
