package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/kochabx/campus/auth"
	"github.com/kochabx/campus/errors"
	"github.com/kochabx/campus/log"
	"github.com/kochabx/campus/middleware"
	"github.com/kochabx/campus/repository"
	"github.com/kochabx/campus/transport/http"
)

// UserHandler serves the protected principal routes.
type UserHandler struct {
	users    *repository.UserRepo
	sessions *auth.Sessions
	logger   *log.Logger
}

// NewUserHandler creates the user handler.
func NewUserHandler(users *repository.UserRepo, sessions *auth.Sessions) *UserHandler {
	return &UserHandler{
		users:    users,
		sessions: sessions,
		logger:   log.G,
	}
}

// Me returns the authenticated principal with its profile.
func (h *UserHandler) Me(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		http.GinJSONE(c, errors.Unauthorized("please re-authenticate"))
		return
	}

	user, err := h.users.FindByHandle(c.Request.Context(), claims.Handle)
	if err != nil {
		http.GinJSONE(c, err)
		return
	}

	http.GinJSON(c, user)
}

// List returns all principals. Admin only; enforced by the route group.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		http.GinJSONE(c, err)
		return
	}

	http.GinJSON(c, users)
}

// Delete removes a principal, cascades its relational rows and clears its
// session state so outstanding tokens stop working.
func (h *UserHandler) Delete(c *gin.Context) {
	handle := c.Param("handle")
	if handle == "" {
		http.GinJSONE(c, errors.BadRequest("handle is required"))
		return
	}

	ctx := c.Request.Context()

	if err := h.users.Delete(ctx, handle); err != nil {
		http.GinJSONE(c, err)
		return
	}

	if err := h.sessions.PurgeHandle(ctx, handle); err != nil {
		// The principal is gone; session state expires on its own via TTL.
		h.logger.Warn().Err(err).Str("handle", handle).Msg("purge sessions after delete")
	}

	h.logger.Info().Str("handle", handle).Msg("user deleted")
	http.GinJSON(c, gin.H{"message": "user deleted"})
}

func claimsFrom(c *gin.Context) (*auth.Claims, bool) {
	return middleware.ClaimsFromContext(c)
}
