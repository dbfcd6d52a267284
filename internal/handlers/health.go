package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/defectrack/defectrack/db"
	"github.com/gin-gonic/gin"
)

const healthPingTimeout = 2 * time.Second

func HealthCheck(c *gin.Context) {
	if err := db.Ping(c.Request.Context(), healthPingTimeout); err != nil {
		log.Printf("Health check failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "degraded",
			"message":   "Database unavailable",
			"timestamp": time.Now().Format(time.RFC3339),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"message":   "Defectrack is running",
		"database":  "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
