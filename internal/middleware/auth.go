package middleware

import (
	"context"
	"net/http"

	"github.com/meltingdad/gsc-arena/internal/logger"
	"github.com/meltingdad/gsc-arena/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	SessionUserID = "user_id"

	// ContextUser is the gin key holding the signed-in *models.User
	ContextUser = "user"
)

// UserLookup resolves the user stored in the session
type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// CurrentUserID returns the user ID saved in the session, or "" when signed out
func CurrentUserID(c *gin.Context) string {
	id, _ := sessions.Default(c).Get(SessionUserID).(string)
	return id
}

// RequireAuth rejects requests without a signed-in user with a JSON 401.
// The user is loaded and stored in the gin context under ContextUser.
func RequireAuth(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := CurrentUserID(c)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		user, err := users.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			logger.WarnCtx(c.Request.Context(), "session user not found",
				zap.String("user_id", userID), zap.Error(err))

			session := sessions.Default(c)
			session.Clear()
			_ = session.Save()

			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(SessionUserID, userID)
		c.Set(ContextUser, user)
		c.Next()
	}
}
