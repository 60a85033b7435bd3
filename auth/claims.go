package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/kochabx/campus/model"
)

// Claims is the fixed token payload: the subject handle and its role at
// issuance, plus the registered claims (jti, iat, exp). Tokens whose claims
// do not decode into this shape are rejected.
type Claims struct {
	Handle string     `json:"handle"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

// validate rejects decoded claims that do not match the expected shape.
func (c *Claims) validate() error {
	if c.Handle == "" {
		return ErrTokenInvalid
	}
	if !c.Role.Valid() {
		return ErrTokenInvalid
	}
	if c.ID == "" {
		return ErrTokenInvalid
	}
	if c.ExpiresAt == nil {
		return ErrTokenInvalid
	}
	return nil
}
