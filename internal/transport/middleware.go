package transport

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// noisyPaths are high-frequency delegate read paths logged at Debug to keep
// Info clean; a large fleet polls continuously.
var noisyPaths = map[string]bool{
	"/api/ws": true,
}

func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if c.Request.Method == "OPTIONS" {
			return
		}
		path := c.Request.URL.Path
		if c.Request.Method == "GET" && (noisyPaths[path] || isPollPath(c)) {
			slog.Debug("request",
				"method", c.Request.Method,
				"path", path,
				"status", c.Writer.Status(),
				"duration", time.Since(start),
			)
			return
		}

		slog.Info("request",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func isPollPath(c *gin.Context) bool {
	return c.FullPath() == "/api/accounts/:accountId/delegates/:delegateId/events"
}

func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS, PUT")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
