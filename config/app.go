package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/kochabx/campus/auth"
	"github.com/kochabx/campus/log"
	"github.com/kochabx/campus/store/db"
	"github.com/kochabx/campus/store/redis"
	transporthttp "github.com/kochabx/campus/transport/http"
)

// App is the full service configuration.
type App struct {
	Server  Server           `json:"server" mapstructure:"server"`
	Log     Log              `json:"log" mapstructure:"log"`
	Auth    Auth             `json:"auth" mapstructure:"auth"`
	DB      db.Config        `json:"db" mapstructure:"db"`
	Redis   redis.Config     `json:"redis" mapstructure:"redis"`
	Metrics MetricsAndHealth `json:"metrics" mapstructure:"metrics"`
}

// Server configures the HTTP listener.
type Server struct {
	Addr            string `json:"addr" mapstructure:"addr"`
	ShutdownTimeout int64  `json:"shutdown_timeout" mapstructure:"shutdown_timeout"` // seconds
}

// Log configures logging output.
type Log struct {
	Level string         `json:"level" mapstructure:"level"`
	File  bool           `json:"file" mapstructure:"file"`
	Files log.FileConfig `json:"files" mapstructure:"files"`
}

// Auth configures the token and session layer.
type Auth struct {
	Token auth.TokenConfig `json:"token" mapstructure:"token"`

	// RevokedTTL is the retention window of the revoked set, in seconds.
	// Must be at least the token TTL, or an evicted revocation would
	// re-admit a still-live token.
	RevokedTTL int64 `json:"revoked_ttl" mapstructure:"revoked_ttl" validate:"gt=0"`

	// AdminInviteCode guards Admin self-registration.
	AdminInviteCode string `json:"admin_invite_code" mapstructure:"admin_invite_code"`
}

// RevokedRetention returns the revoked-set retention as a duration.
func (a *Auth) RevokedRetention() time.Duration {
	return time.Duration(a.RevokedTTL) * time.Second
}

// MetricsAndHealth configures the ambient endpoints.
type MetricsAndHealth struct {
	Metrics transporthttp.MetricsOption `json:"metrics" mapstructure:"metrics"`
	Health  transporthttp.HealthOption  `json:"health" mapstructure:"health"`
}

// SetDefaults registers defaults with viper before unmarshalling.
func (a *App) SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("auth.token.token_ttl", 3600)
	v.SetDefault("auth.revoked_ttl", 7200)
	v.SetDefault("metrics.metrics.enabled", true)
	v.SetDefault("metrics.health.enabled", true)
}

// Validate enforces the cross-field constraints the struct tags cannot.
func (a *App) Validate() error {
	if a.Auth.RevokedTTL < a.Auth.Token.TokenTTL {
		return fmt.Errorf("auth.revoked_ttl (%ds) must be at least auth.token.token_ttl (%ds)",
			a.Auth.RevokedTTL, a.Auth.Token.TokenTTL)
	}
	return nil
}

// ShutdownGrace returns the server shutdown timeout as a duration.
func (s *Server) ShutdownGrace() time.Duration {
	return time.Duration(s.ShutdownTimeout) * time.Second
}
