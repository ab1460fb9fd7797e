package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token validation errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrInvalidIssuer    = errors.New("invalid token issuer")
)

// Claims carries the identity fields we read from provider-issued tokens
type Claims struct {
	UserID string
	Email  string
	Roles  []string
}

// JWTConfig configures token validation
type JWTConfig struct {
	SigningMethod string
	SecretKey     string
	Issuer        string
	Audience      []string
}

// JWTValidator validates provider-issued JWTs
type JWTValidator struct {
	config JWTConfig
	parser *jwt.Parser
}

// NewJWTValidator creates a new JWT validator
func NewJWTValidator(config JWTConfig) (*JWTValidator, error) {
	if config.SecretKey == "" {
		return nil, errors.New("JWT secret key is required")
	}
	if config.SigningMethod == "" {
		config.SigningMethod = "HS256"
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{config.SigningMethod}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30 * time.Second),
	}
	if config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(config.Issuer))
	}
	for _, aud := range config.Audience {
		opts = append(opts, jwt.WithAudience(aud))
	}

	return &JWTValidator{
		config: config,
		parser: jwt.NewParser(opts...),
	}, nil
}

// providerClaims mirrors the token payload issued by the auth provider.
// "sub" carries the user ID; "role" is a single provider role string.
type providerClaims struct {
	Email string   `json:"email"`
	Role  string   `json:"role"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// ValidateToken parses and validates a bearer token, returning its claims
func (v *JWTValidator) ValidateToken(tokenString string) (*Claims, error) {
	var pc providerClaims

	token, err := v.parser.ParseWithClaims(tokenString, &pc, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(v.config.SecretKey), nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrSignatureInvalid):
			return nil, ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenInvalidIssuer):
			return nil, ErrInvalidIssuer
		default:
			return nil, ErrInvalidToken
		}
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if pc.Subject == "" {
		return nil, ErrInvalidToken
	}

	roles := pc.Roles
	if len(roles) == 0 {
		if pc.Role != "" {
			roles = []string{pc.Role}
		} else {
			roles = []string{"authenticated"}
		}
	}

	return &Claims{
		UserID: pc.Subject,
		Email:  pc.Email,
		Roles:  roles,
	}, nil
}
