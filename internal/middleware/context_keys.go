package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// contextKey is a private type for request-context keys to prevent collisions.
type contextKey string

const (
	// userIDKey stores the authenticated user's ID in the request context.
	userIDKey = contextKey("userID")
	// loggerCtxKey stores the request-scoped logger in the request context.
	loggerCtxKey = contextKey("logger")
)

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if userIDVal, exists := c.Get(string(userIDKey)); exists {
		if userID, ok := userIDVal.(string); ok {
			return userID, true
		}
		return "", false
	}
	// Check the request context as well; the auth middleware stores it there.
	if userIDVal := c.Request.Context().Value(userIDKey); userIDVal != nil {
		if userID, ok := userIDVal.(string); ok {
			return userID, true
		}
	}
	return "", false
}

// WithUserID returns a context carrying the authenticated user's ID. Used by
// the auth middleware and by tests that exercise handlers directly.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}
