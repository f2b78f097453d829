package middleware

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/team-task-api/internal/auth"
	"github.com/yukikurage/team-task-api/internal/constants"
	apierrors "github.com/yukikurage/team-task-api/internal/errors"
	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/policy"
)

// Authenticator resolves a bearer token to an active user.
type Authenticator interface {
	Authenticate(token string) (*models.User, error)
}

// RequireAuth checks the bearer token and loads the principal
func RequireAuth(authenticator Authenticator, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			apierrors.Unauthorized(c, "Missing bearer token")
			return
		}

		user, err := authenticator.Authenticate(token)
		switch {
		case err == nil:
		case errors.Is(err, auth.ErrInvalidToken):
			apierrors.InvalidToken(c, "")
			return
		case errors.Is(err, policy.ErrInactive):
			apierrors.AccountDisabled(c, "")
			return
		default:
			log.Error("authentication failed", "error", err)
			apierrors.InternalErrorWithDetails(c, "", err.Error())
			return
		}

		// Store the principal in context for easy access in handlers
		c.Set(constants.ContextKeyPrincipal, user)
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Next()
	}
}

// RequireAdmin rejects principals without the admin role. It must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}
		if !principal.IsAdmin() {
			apierrors.Forbidden(c, "Admin access required")
			return
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetUser retrieves the authenticated user from context
func GetUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyPrincipal)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok && user != nil
}

// GetPrincipal retrieves the authenticated principal from context
func GetPrincipal(c *gin.Context) (policy.Principal, bool) {
	user, ok := GetUser(c)
	if !ok {
		return policy.Principal{}, false
	}
	return policy.FromUser(user), true
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
