package models

import (
	"context"

	"github.com/gin-gonic/gin"
)

// GetUserFromContext extracts the signed-in user stored by the RequireAuth middleware.
// Returns nil if no user is attached.
func GetUserFromContext(ctx context.Context) *User {
	if ginCtx, ok := ctx.(*gin.Context); ok {
		if userVal, exists := ginCtx.Get("user"); exists {
			if user, ok := userVal.(*User); ok {
				return user
			}
		}
	}

	return nil
}
