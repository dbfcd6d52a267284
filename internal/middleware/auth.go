package middleware

import (
	"net/http"
	"strings"

	"github.com/defectrack/defectrack/db"
	"github.com/defectrack/defectrack/internal/auth"
	"github.com/defectrack/defectrack/internal/models"
	"github.com/defectrack/defectrack/internal/types"
	"github.com/gin-gonic/gin"
)

type AuthenticatedUser struct {
	ID        uint       `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Role      types.Role `json:"role"`
	CompanyID *uint      `json:"company_id"`
}

func (u AuthenticatedUser) Actor() types.Actor {
	return types.Actor{ID: u.ID, Role: u.Role, CompanyID: u.CompanyID}
}

func AuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")

		if authHeader == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token is required"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)

		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		token, err := auth.VerifyJWT(parts[1])

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		userID, err := auth.UserIDFromToken(token)

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		// Role and company are re-read on every request; the token only carries identity.
		var user models.User

		if err := db.DB.WithContext(ctx.Request.Context()).Where("id = ?", userID).First(&user).Error; err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}

		ctx.Set(types.ContextUserKey, AuthenticatedUser{
			ID:        user.ID,
			Username:  user.Username,
			Email:     user.Email,
			Role:      user.Role,
			CompanyID: user.CompanyID,
		})
		ctx.Next()
	}
}
