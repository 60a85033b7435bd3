package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/kochabx/campus/auth"
	"github.com/kochabx/campus/log"
	"github.com/kochabx/campus/middleware"
	"github.com/kochabx/campus/model"
)

// RouterConfig carries the dependencies of the HTTP surface.
type RouterConfig struct {
	Auth     *AuthHandler
	Users    *UserHandler
	Sessions *auth.Sessions
	Logger   *log.Logger
}

// NewRouter assembles the gin engine: public auth routes, the bearer-token
// gate on everything else, and the admin-only group on top of that.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = log.G
	}

	r := gin.New()
	r.Use(
		middleware.Recovery(middleware.RecoveryConfig{Logger: cfg.Logger}),
		middleware.Logger(middleware.LoggerConfig{
			Logger:    cfg.Logger,
			SkipPaths: []string{"/health", "/metrics"},
		}),
	)

	r.POST("/auth/register", cfg.Auth.Register)
	r.POST("/auth/login", cfg.Auth.Login)

	protected := r.Group("")
	protected.Use(middleware.Auth(middleware.AuthConfig{
		Sessions: cfg.Sessions,
		Logger:   cfg.Logger,
	}))

	protected.POST("/auth/logout", cfg.Auth.Logout)
	protected.GET("/users/me", cfg.Users.Me)

	admin := protected.Group("")
	admin.Use(middleware.RequireRoles(model.RoleAdmin))
	admin.GET("/users", cfg.Users.List)
	admin.DELETE("/users/:handle", cfg.Users.Delete)

	return r
}
