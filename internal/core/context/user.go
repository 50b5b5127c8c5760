// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// UserContext contains the authenticated actor of the current request.
// Identity and roles are produced by the authentication collaborator
// (JWT middleware); the core only consumes them.
type UserContext struct {
	UserID  string
	Name    string
	Roles   []string
	IsAdmin bool
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}

// GetRoles returns the actor's roles or nil.
func GetRoles(ctx context.Context) []string {
	if u := GetUser(ctx); u != nil {
		return u.Roles
	}
	return nil
}

// HasRole checks if user has specific role.
func HasRole(ctx context.Context, role string) bool {
	u := GetUser(ctx)
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// GetUserContext is an alias for GetUser.
func GetUserContext(ctx context.Context) *UserContext {
	return GetUser(ctx)
}
