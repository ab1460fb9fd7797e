package auth

import (
	"context"
	"errors"
)

// UserContext carries the authenticated identity through request handling
type UserContext struct {
	UserID string
	Email  string
	Roles  []string
}

type contextKey string

const userContextKey contextKey = "auth_user"

// ErrNoUserInContext is returned when a handler runs without auth middleware
var ErrNoUserInContext = errors.New("no authenticated user in context")

// SetUserInContext attaches the authenticated user to the request context
func SetUserInContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext extracts the authenticated user from the request context
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	if !ok || user == nil {
		return nil, ErrNoUserInContext
	}
	return user, nil
}

// HasRole reports whether the user carries the given role
func (u *UserContext) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
