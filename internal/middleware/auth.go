package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/auth"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
)

// TokenParser verifies bearer tokens
type TokenParser interface {
	Parse(token string) (*auth.Principal, error)
}

// RequireAuth checks for a valid bearer token in the Authorization header
func RequireAuth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			apierrors.Unauthorized(c, "")
			return
		}

		scheme, token, found := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			apierrors.Unauthorized(c, "Invalid authorization header")
			return
		}

		principal, err := tokens.Parse(token)
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			return
		}

		// Store the identity in context for handlers
		c.Set(constants.ContextKeyUserID, principal.UserID)
		c.Set(constants.ContextKeyUserEmail, principal.Email)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, v != 0
	case uint:
		return uint64(v), v != 0
	case int:
		if v <= 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
