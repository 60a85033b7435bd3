package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kochabx/campus/model"
)

// TokenConfig configures the token issuer. The signing secret is process-wide
// and loaded once at startup; rotating it invalidates every outstanding
// token.
type TokenConfig struct {
	Secret   string `json:"secret" mapstructure:"secret" validate:"required,min=16"`
	TokenTTL int64  `json:"token_ttl" mapstructure:"token_ttl" validate:"gt=0"` // seconds
	Issuer   string `json:"issuer" mapstructure:"issuer"`
}

// TTL returns the token lifetime as a duration.
func (c *TokenConfig) TTL() time.Duration {
	return time.Duration(c.TokenTTL) * time.Second
}

// IssuedToken is the result of minting a token.
type IssuedToken struct {
	Token     string
	JTI       string
	ExpiresAt time.Time
}

// Issuer mints and parses signed bearer tokens. Tokens are HS256-signed and
// carry the Claims payload with a fresh uuid jti. There is no refresh
// mechanism; a token is valid until expiry or revocation.
type Issuer struct {
	config *TokenConfig
}

// NewIssuer creates a token issuer.
func NewIssuer(config *TokenConfig) (*Issuer, error) {
	if config == nil || config.Secret == "" {
		return nil, errors.New("auth: token secret is required")
	}
	if config.TokenTTL <= 0 {
		config.TokenTTL = 3600
	}
	return &Issuer{config: config}, nil
}

// Issue mints a token for the given handle and role.
func (i *Issuer) Issue(handle string, role model.Role) (*IssuedToken, error) {
	now := time.Now()
	jti := uuid.New().String()
	expiresAt := now.Add(i.config.TTL())

	claims := &Claims{
		Handle: handle,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    i.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(i.config.Secret))
	if err != nil {
		return nil, err
	}

	return &IssuedToken{
		Token:     signed,
		JTI:       jti,
		ExpiresAt: expiresAt,
	}, nil
}

// Parse verifies the signature and expiry of a token and returns its claims.
// Expired tokens map to ErrTokenExpired; everything else that fails to
// verify, including claims of the wrong shape, maps to ErrTokenInvalid.
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrTokenInvalid
		}
		return []byte(i.config.Secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	if err := claims.validate(); err != nil {
		return nil, err
	}

	return claims, nil
}

// TTL returns the configured token lifetime.
func (i *Issuer) TTL() time.Duration {
	return i.config.TTL()
}
