package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kochabx/campus/log"
)

// LoggerConfig configures the request logging middleware.
type LoggerConfig struct {
	SkipPaths []string
	Logger    *log.Logger
}

// Logger logs one line per request. Request bodies are never recorded; the
// login route carries plaintext credentials.
func Logger(cfgs ...LoggerConfig) gin.HandlerFunc {
	cfg := LoggerConfig{}
	if len(cfgs) > 0 {
		cfg = cfgs[0]
	}
	if cfg.Logger == nil {
		cfg.Logger = log.G
	}

	matcher := NewPathMatcher(cfg.SkipPaths)

	return func(c *gin.Context) {
		if shouldSkip(c, matcher) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		cfg.Logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}
