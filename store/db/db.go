package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	ErrUnsupportedDriver = errors.New("unsupported database driver")
	ErrInvalidConfig     = errors.New("invalid database configuration")
	ErrNotInitialized    = errors.New("database client not initialized")
)

// Client wraps a GORM database connection.
type Client struct {
	config *Config
	DB     *gorm.DB
}

// NewClient opens a database connection and verifies it with a ping.
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		return nil, ErrInvalidConfig
	}
	config.applyDefaults()

	c := &Client{config: config}

	gormDB, err := c.createDB()
	if err != nil {
		return nil, err
	}
	c.DB = gormDB

	if err := c.Ping(context.Background()); err != nil {
		_ = c.Close()
		return nil, err
	}

	return c, nil
}

func (c *Client) createDB() (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(c.config.gormLogLevel()),
	}

	var db *gorm.DB
	var err error

	switch c.config.Driver {
	case DriverPostgres:
		db, err = gorm.Open(postgres.Open(c.config.DSN), gormConfig)
	case DriverSQLite:
		db, err = gorm.Open(sqlite.Open(c.config.DSN), gormConfig)
	default:
		return nil, ErrUnsupportedDriver
	}

	if err != nil {
		return nil, err
	}

	if err := c.setConnectionPool(db); err != nil {
		return nil, err
	}

	return db, nil
}

func (c *Client) setConnectionPool(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	sqlDB.SetMaxIdleConns(c.config.MaxIdleConns)
	sqlDB.SetMaxOpenConns(c.config.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(c.config.ConnMaxLifetime) * time.Second)

	return nil
}

// Ping verifies the database connection.
func (c *Client) Ping(ctx context.Context) error {
	if c.DB == nil {
		return ErrNotInitialized
	}

	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.PingContext(ctx)
}

// Close closes the database connection.
func (c *Client) Close() error {
	if c.DB == nil {
		return nil
	}

	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}

	if err := sqlDB.Close(); err != nil {
		return err
	}

	c.DB = nil // avoid double close
	return nil
}

// Stats returns connection pool statistics.
func (c *Client) Stats() (sql.DBStats, error) {
	if c.DB == nil {
		return sql.DBStats{}, ErrNotInitialized
	}

	sqlDB, err := c.DB.DB()
	if err != nil {
		return sql.DBStats{}, err
	}

	return sqlDB.Stats(), nil
}
