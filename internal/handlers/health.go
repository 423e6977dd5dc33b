package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health reports 200 while the product store answers a ping.
func Health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /health"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			log.Printf("[%s] ping failed: %v", route, err)
			respondWithError(c, http.StatusServiceUnavailable, route, gin.H{"error": "database unavailable"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
