package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kochabx/campus/auth"
	"github.com/kochabx/campus/errors"
	"github.com/kochabx/campus/log"
	"github.com/kochabx/campus/transport/http"
)

// ClaimsKey is the gin context key the authenticated claims live under.
const ClaimsKey = "claims"

// ErrReauthenticate is the single caller-facing authentication failure. The
// client gets no signal distinguishing expired, invalid and revoked tokens.
var ErrReauthenticate = errors.Unauthorized("please re-authenticate")

// AuthConfig configures the bearer-token gate.
type AuthConfig struct {
	Sessions  *auth.Sessions
	SkipPaths []string
	Logger    *log.Logger
}

// Auth gates every protected route: it extracts the bearer token, runs the
// request authenticator and stores the claims in the context. All failure
// modes, including a revocation-store outage, answer with the same generic
// 401.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	if cfg.Sessions == nil {
		panic("middleware: Sessions is required")
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

		token := bearerToken(c)
		if token == "" {
			http.GinJSONE(c, ErrReauthenticate)
			return
		}

		claims, err := cfg.Sessions.Authenticate(c.Request.Context(), token)
		if err != nil {
			cfg.Logger.Warn().
				Err(err).
				Str("path", c.Request.URL.Path).
				Msg("auth: request rejected")
			http.GinJSONE(c, ErrReauthenticate)
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// ClaimsFromContext returns the authenticated claims stored by Auth.
func ClaimsFromContext(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
