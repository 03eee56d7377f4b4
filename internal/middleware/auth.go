package middleware

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/auth"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/models"
)

// UserResolver loads the account behind a token
type UserResolver interface {
	GetUser(id uint64) (*models.User, error)
}

// RequireAuth checks the bearer token and resolves the acting user.
// Revoked tokens and inactive accounts are rejected.
func RequireAuth(tokens *auth.TokenManager, denylist auth.Denylist, users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			apierrors.Unauthorized(c, "Authorization token is required")
			return
		}

		claims, err := tokens.Validate(tokenString)
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			return
		}

		revoked, err := denylist.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			log.Printf("token denylist lookup failed: %v", err)
			apierrors.ServiceUnavailable(c, "Unable to verify token")
			return
		}
		if revoked {
			apierrors.Unauthorized(c, "Token has been revoked")
			return
		}

		userID, _ := claims.UserID()
		user, err := users.GetUser(userID)
		if err != nil {
			var notFound *apierrors.NotFoundError
			if errors.As(err, &notFound) {
				apierrors.Unauthorized(c, "Account no longer exists")
			} else {
				apierrors.Respond(c, err)
			}
			return
		}
		if !user.IsActive {
			apierrors.Unauthorized(c, "Account is deactivated")
			return
		}

		// Role comes from the store so a role change applies to existing tokens
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyRole, user.Role)
		c.Set(constants.ContextKeyTokenID, claims.ID)
		c.Set(constants.ContextKeyTokenExpires, claims.ExpiresAt.Time)
		c.Next()
	}
}

// bearerToken reads "Authorization: Bearer <token>", falling back to the
// token query parameter for websocket upgrades where headers cannot be set
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return c.Query("token")
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

// GetRole retrieves the current user's role from context
func GetRole(c *gin.Context) (models.Role, bool) {
	role, exists := c.Get(constants.ContextKeyRole)
	if !exists {
		return "", false
	}
	r, ok := role.(models.Role)
	return r, ok
}

// GetActor combines user ID and role
func GetActor(c *gin.Context) (auth.Actor, bool) {
	userID, ok := GetUserID(c)
	if !ok {
		return auth.Actor{}, false
	}
	role, ok := GetRole(c)
	if !ok {
		return auth.Actor{}, false
	}
	return auth.Actor{UserID: userID, Role: role}, true
}

// GetToken returns the ID and expiry of the token used for this request
func GetToken(c *gin.Context) (string, time.Time, bool) {
	id := c.GetString(constants.ContextKeyTokenID)
	expires := c.GetTime(constants.ContextKeyTokenExpires)
	if id == "" {
		return "", time.Time{}, false
	}
	return id, expires, true
}
