package handlers

import (
	"log"
	"net/http"

	"github.com/defectrack/defectrack/internal/services"
	"github.com/defectrack/defectrack/internal/utils"
	"github.com/gin-gonic/gin"
)

func statusFor(kind services.Kind) int {
	switch kind {
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindConflict:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes a service error using the status mapped from its kind.
// Unexpected errors are logged with the request id and hidden from the caller.
func respondError(ctx *gin.Context, err error) {
	kind := services.KindOf(err)
	status := statusFor(kind)

	if status == http.StatusInternalServerError {
		log.Printf("[%s] %s %s: %v", utils.GetRequestID(ctx), ctx.Request.Method, ctx.FullPath(), err)
	}

	ctx.JSON(status, gin.H{"error": services.PublicMessage(err)})
}

func badRequest(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusBadRequest, gin.H{"error": message})
}

func unauthenticated(ctx *gin.Context) {
	ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
}
