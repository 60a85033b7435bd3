package handler

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kochabx/campus/auth"
	"github.com/kochabx/campus/errors"
	"github.com/kochabx/campus/log"
	"github.com/kochabx/campus/model"
	"github.com/kochabx/campus/repository"
	"github.com/kochabx/campus/transport/http"
	"github.com/kochabx/campus/validator"
)

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	users           *repository.UserRepo
	sessions        *auth.Sessions
	validate        validator.Validator
	adminInviteCode string
	logger          *log.Logger
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(users *repository.UserRepo, sessions *auth.Sessions, adminInviteCode string) *AuthHandler {
	return &AuthHandler{
		users:           users,
		sessions:        sessions,
		validate:        validator.Validate,
		adminInviteCode: adminInviteCode,
		logger:          log.G,
	}
}

// RegisterRequest is the registration payload. Unknown fields are rejected.
type RegisterRequest struct {
	Handle         string `json:"handle" validate:"required,alphanum,min=3,max=64"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=8"`
	Role           string `json:"role" validate:"required"`
	FirstName      string `json:"first_name" validate:"required"`
	LastName       string `json:"last_name" validate:"required"`
	Bio            string `json:"bio,omitempty" validate:"omitempty,max=1024"`
	ProfilePicture string `json:"profile_picture,omitempty"`
	AdditionalInfo string `json:"additional_info,omitempty"`
	InviteCode     string `json:"invite_code,omitempty"`
}

// Register creates a principal and its profile.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest

	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		http.GinJSONE(c, errors.BadRequest("malformed request body"))
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		http.GinJSONE(c, errors.BadRequest("%s", err.Error()))
		return
	}

	role, err := model.ParseRole(req.Role)
	if err != nil {
		http.GinJSONE(c, errors.BadRequest("role does not exist"))
		return
	}

	if role == model.RoleAdmin && req.InviteCode != h.adminInviteCode {
		http.GinJSONE(c, errors.Forbidden("invalid or missing admin invite code"))
		return
	}

	ctx := c.Request.Context()

	exists, err := h.users.Exists(ctx, req.Handle, req.Email)
	if err != nil {
		http.GinJSONE(c, err)
		return
	}
	if exists {
		http.GinJSONE(c, errors.BadRequest("user already exists"))
		return
	}

	roleRecord, err := h.users.FindRole(ctx, role)
	if err != nil {
		http.GinJSONE(c, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		http.GinJSONE(c, errors.Internal("hash credential").WithCause(err))
		return
	}

	user := &model.User{
		Handle:       req.Handle,
		Email:        req.Email,
		PasswordHash: hash,
		RoleID:       roleRecord.ID,
	}
	profile := &model.Profile{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Bio:            req.Bio,
		ProfilePicture: req.ProfilePicture,
		AdditionalInfo: req.AdditionalInfo,
	}

	if err := h.users.Create(ctx, user, profile); err != nil {
		http.GinJSONE(c, err)
		return
	}

	h.logger.Info().Str("handle", user.Handle).Str("role", role.String()).Msg("user registered")
	http.GinJSONS(c, 201, gin.H{"handle": user.Handle})
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Handle   string `json:"handle" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the bearer token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login verifies the credentials, supersedes the device's previous session
// and returns a fresh token. Bad handle and bad password answer identically.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		http.GinJSONE(c, errors.BadRequest("malformed request body"))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.GinJSONE(c, errors.BadRequest("%s", err.Error()))
		return
	}

	ctx := c.Request.Context()

	user, err := h.users.FindByHandle(ctx, req.Handle)
	if err != nil {
		if errors.Code(err) == 404 {
			http.GinJSONE(c, errors.Unauthorized("invalid credentials"))
			return
		}
		http.GinJSONE(c, err)
		return
	}

	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		http.GinJSONE(c, errors.Unauthorized("invalid credentials"))
		return
	}

	role, err := model.ParseRole(user.Role.Name)
	if err != nil {
		http.GinJSONE(c, errors.Internal("principal carries unknown role").WithCause(err))
		return
	}

	fingerprint := auth.Fingerprint(c.ClientIP(), c.Request.UserAgent())

	issued, err := h.sessions.Login(ctx, user.Handle, role, fingerprint)
	if err != nil {
		http.GinJSONE(c, errors.Internal("login unavailable, please retry").WithCause(err))
		return
	}

	h.logger.Info().Str("handle", user.Handle).Msg("login")
	http.GinJSON(c, LoginResponse{
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt,
	})
}

// Logout revokes the presented token and frees the device's active slot.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		http.GinJSONE(c, errors.Unauthorized("please re-authenticate"))
		return
	}

	fingerprint := auth.Fingerprint(c.ClientIP(), c.Request.UserAgent())

	if err := h.sessions.Logout(c.Request.Context(), claims, fingerprint); err != nil {
		http.GinJSONE(c, errors.Internal("logout unavailable, please retry").WithCause(err))
		return
	}

	h.logger.Info().Str("handle", claims.Handle).Msg("logout")
	http.GinJSON(c, gin.H{"message": "successfully logged out"})
}
