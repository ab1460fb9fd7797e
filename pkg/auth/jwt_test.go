package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideaflow-backend/pkg/auth"
)

const testSecret = "test-secret-key"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newValidator(t *testing.T, issuer string) *auth.JWTValidator {
	t.Helper()
	validator, err := auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: testSecret,
		Issuer:    issuer,
	})
	require.NoError(t, err)
	return validator
}

func TestValidateToken_ValidToken(t *testing.T) {
	validator := newValidator(t, "")
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":   "user-123",
		"email": "user@example.com",
		"role":  "member",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	claims, err := validator.ValidateToken(token)

	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, []string{"member"}, claims.Roles)
}

func TestValidateToken_DefaultsRoleWhenAbsent(t *testing.T) {
	validator := newValidator(t, "")
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	claims, err := validator.ValidateToken(token)

	require.NoError(t, err)
	assert.Equal(t, []string{"authenticated"}, claims.Roles)
}

func TestValidateToken_ExpiredToken(t *testing.T) {
	validator := newValidator(t, "")
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	_, err := validator.ValidateToken(token)

	assert.ErrorIs(t, err, auth.ErrExpiredToken)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	validator := newValidator(t, "")
	token := signToken(t, "a-different-secret", jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := validator.ValidateToken(token)

	assert.ErrorIs(t, err, auth.ErrInvalidSignature)
}

func TestValidateToken_MissingExpiration(t *testing.T) {
	validator := newValidator(t, "")
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-123",
	})

	_, err := validator.ValidateToken(token)

	assert.Error(t, err)
}

func TestValidateToken_MissingSubject(t *testing.T) {
	validator := newValidator(t, "")
	token := signToken(t, testSecret, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := validator.ValidateToken(token)

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestValidateToken_IssuerEnforced(t *testing.T) {
	validator := newValidator(t, "ideaflow")

	good := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-123",
		"iss": "ideaflow",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	_, err := validator.ValidateToken(good)
	require.NoError(t, err)

	bad := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-123",
		"iss": "someone-else",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	_, err = validator.ValidateToken(bad)
	assert.ErrorIs(t, err, auth.ErrInvalidIssuer)
}

func TestNewJWTValidator_RequiresSecret(t *testing.T) {
	_, err := auth.NewJWTValidator(auth.JWTConfig{})
	assert.Error(t, err)
}
