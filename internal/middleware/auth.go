package middleware

import (
	"errors"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/kanban-api/internal/constants"
	apierrors "github.com/yukikurage/kanban-api/internal/errors"
	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/services"
	"github.com/yukikurage/kanban-api/internal/utils"
)

// Authenticator resolves a principal id to an active user.
type Authenticator interface {
	Authenticate(userID uint64) (*models.User, error)
}

// RequireAuth admits requests carrying a valid bearer token or a session,
// and only when the resolved user is active.
func RequireAuth(auth Authenticator, tokens *utils.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := principalFromRequest(c, tokens)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		user, err := auth.Authenticate(userID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrAccountPending):
				apierrors.AccountPending(c, "")
			case errors.Is(err, services.ErrInvalidCredentials):
				apierrors.Unauthorized(c, "")
			default:
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Next()
	}
}

func principalFromRequest(c *gin.Context, tokens *utils.TokenIssuer) (uint64, bool) {
	if header := c.GetHeader("Authorization"); header != "" {
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokens == nil {
			return 0, false
		}
		claims, err := tokens.Verify(strings.TrimSpace(raw))
		if err != nil {
			return 0, false
		}
		return claims.UserID, true
	}

	session := sessions.Default(c)
	return toUserID(session.Get(constants.ContextKeyUserID))
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	return toUserID(userID)
}

func toUserID(value interface{}) (uint64, bool) {
	switch v := value.(type) {
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
