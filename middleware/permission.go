package middleware

import (
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/kochabx/campus/errors"
	"github.com/kochabx/campus/model"
	"github.com/kochabx/campus/transport/http"
)

// ErrForbidden is the caller-facing authorization failure: the identity is
// valid, the role is not sufficient.
var ErrForbidden = errors.Forbidden("forbidden")

// RequireRoles restricts a route group to the given roles. It must run after
// Auth; a request with no claims in context is treated as unauthenticated.
func RequireRoles(allowed ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			http.GinJSONE(c, ErrReauthenticate)
			return
		}

		if !slices.Contains(allowed, claims.Role) {
			http.GinJSONE(c, ErrForbidden)
			return
		}

		c.Next()
	}
}
