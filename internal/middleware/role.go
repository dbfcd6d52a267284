package middleware

import (
	"net/http"
	"strings"

	"github.com/defectrack/defectrack/internal/types"
	"github.com/gin-gonic/gin"
)

// RequireRole rejects requests whose authenticated user holds none of roles.
// It must run after AuthMiddleware.
func RequireRole(roles ...types.Role) gin.HandlerFunc {
	allowed := make([]string, len(roles))
	for i, role := range roles {
		allowed[i] = string(role)
	}
	message := "Only " + strings.Join(allowed, " or ") + " can perform this action"

	return func(ctx *gin.Context) {
		value, exists := ctx.Get(types.ContextUserKey)
		if !exists {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		user, ok := value.(AuthenticatedUser)
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid user type in context"})
			return
		}

		for _, role := range roles {
			if user.Role == role {
				ctx.Next()
				return
			}
		}

		ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": message})
	}
}
