// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"github.com/gin-gonic/gin"

	"stockyard/internal/core/security"
)

// RequireAction middleware checks the access policy for a named action.
// The policy evaluates its CEL rule against the actor in the request
// context, so this must run after Auth.
func RequireAction(policy *security.AccessPolicy, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := policy.Allow(c.Request.Context(), action); err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Next()
	}
}
