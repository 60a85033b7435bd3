package middleware

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kochabx/campus/log"
)

// RecoveryConfig configures the panic recovery middleware.
type RecoveryConfig struct {
	StackTrace bool
	Logger     *log.Logger
}

// Recovery converts panics into 500 responses.
func Recovery(cfgs ...RecoveryConfig) gin.HandlerFunc {
	cfg := RecoveryConfig{
		StackTrace: true,
	}
	if len(cfgs) > 0 {
		cfg = cfgs[0]
	}
	if cfg.Logger == nil {
		cfg.Logger = log.G
	}

	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				if isBrokenPipe(err) {
					cfg.Logger.Warn().
						Str("error", fmt.Sprintf("%v", err)).
						Str("path", c.Request.URL.Path).
						Msg("broken pipe")
					_ = c.Error(fmt.Errorf("%v", err))
					c.Abort()
					return
				}

				event := cfg.Logger.Error().
					Str("error", fmt.Sprintf("%v", err)).
					Str("path", c.Request.URL.Path)

				if cfg.StackTrace {
					event = event.Bytes("stack", debug.Stack())
				}

				event.Msg("panic recovered")
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}

func isBrokenPipe(err any) bool {
	if ne, ok := err.(*net.OpError); ok {
		if se, ok := ne.Err.(*os.SyscallError); ok {
			errStr := strings.ToLower(se.Error())
			return strings.Contains(errStr, "broken pipe") ||
				strings.Contains(errStr, "connection reset by peer")
		}
	}
	return false
}
