package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/msgboard/msgboard/backend/go-services/internal/database"
)

// Greeting is the liveness text served at "/".
const Greeting = "Hello from the message board backend!"

var startTime = time.Now()

// RegisterHealthRoutes registers the root greeting plus liveness and readiness probes.
// Readiness is 200 only when the datastore answers a ping.
func RegisterHealthRoutes(r *gin.Engine, db database.Pinger) {
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, Greeting)
	})

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	r.GET("/ready", func(c *gin.Context) {
		deps := map[string]bool{"mongo": false}
		if db != nil {
			deps["mongo"] = db.Ping(c.Request.Context()) == nil
		}
		uptime := time.Since(startTime).String()
		if !deps["mongo"] {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": uptime})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": uptime})
	})
}
