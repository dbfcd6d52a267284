package utils

import (
	"fmt"

	"github.com/defectrack/defectrack/internal/middleware"
	"github.com/defectrack/defectrack/internal/types"
	"github.com/gin-gonic/gin"
)

func GetCurrentUser(ctx *gin.Context) (middleware.AuthenticatedUser, error) {
	user, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return middleware.AuthenticatedUser{}, fmt.Errorf("User not authenticated")
	}

	authenticatedUser, ok := user.(middleware.AuthenticatedUser)

	if !ok {
		return middleware.AuthenticatedUser{}, fmt.Errorf("Invalid user type in context")
	}

	return authenticatedUser, nil
}

func GetCurrentActor(ctx *gin.Context) (types.Actor, error) {
	user, err := GetCurrentUser(ctx)

	if err != nil {
		return types.Actor{}, err
	}

	return user.Actor(), nil
}

func GetRequestID(ctx *gin.Context) string {
	return ctx.GetString(types.ContextRequestIDKey)
}
