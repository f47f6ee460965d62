// Package middleware holds the gin middleware shared by every ejobs route:
// bearer token authentication, role checks, request ids, access logging and
// request metrics.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/ejobs/internal/auth"
	"github.com/justsurfingit/ejobs/internal/models"
)

const currentUserKey = "ejobs.current_user"

// UserLoader resolves the subject of a validated token.
type UserLoader interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

// TokenValidator checks a bearer token.
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// RequireAuth rejects requests without a valid bearer token for an active
// user.
func RequireAuth(tokens TokenValidator, users UserLoader, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, reason := authenticate(c, tokens, users)
		if user == nil {
			log.WarnContext(c.Request.Context(), "unauthorized access",
				"reason", reason,
				"path", c.Request.URL.Path,
				"request_id", RequestID(c),
			)
			abort(c, http.StatusUnauthorized, "authentication credentials were not provided or are invalid")
			return
		}
		c.Set(currentUserKey, user)
		c.Next()
	}
}

// OptionalAuth attaches the user when a valid token is present and lets
// anonymous requests through otherwise.
func OptionalAuth(tokens TokenValidator, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, _ := authenticate(c, tokens, users); user != nil {
			c.Set(currentUserKey, user)
		}
		c.Next()
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			abort(c, http.StatusUnauthorized, "authentication credentials were not provided or are invalid")
			return
		}
		if !slices.Contains(roles, user.Role) {
			abort(c, http.StatusForbidden, "you do not have permission to perform this action")
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, tokens TokenValidator, users UserLoader) (*models.User, string) {
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok || token == "" {
		return nil, "missing token"
	}
	claims, err := tokens.ValidateToken(token)
	if err != nil {
		return nil, err.Error()
	}
	id, err := claims.UserID()
	if err != nil {
		return nil, err.Error()
	}
	user, err := users.GetByID(c.Request.Context(), id)
	if err != nil {
		return nil, "unknown user"
	}
	if !user.IsActive {
		return nil, "inactive user"
	}
	return user, ""
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
