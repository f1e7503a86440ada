package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/velora-agency/api/internal/domain"
)

type userGetter interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
}

// RequireAdmin gates routes on the "admin" role. Must run after the
// authenticator so the user ID is on the context.
func RequireAdmin(users userGetter) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID, ok := ctx.Get(ContextKeyUserID)
		if !ok {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		id, ok := userID.(uint)
		if !ok {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		user, err := users.GetUser(ctx.Request.Context(), id)
		if err != nil {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		if user.Role != "admin" {
			ctx.AbortWithStatus(http.StatusForbidden)
			return
		}

		ctx.Next()
	}
}
