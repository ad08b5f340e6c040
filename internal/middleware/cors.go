package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskmaster-api/internal/config"
)

// CORS answers preflight requests and sets CORS headers for allowed origins.
// Credentials are only allowed for explicitly listed origins.
func CORS(cfg config.CORSConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		var allowedOrigin string
		var isWildcard bool
		for _, allowed := range cfg.AllowedOrigins {
			if allowed == "*" {
				allowedOrigin = "*"
				isWildcard = true
				break
			}
			if allowed == origin {
				allowedOrigin = origin
				break
			}
		}

		if allowedOrigin == "" {
			c.Next()
			return
		}

		header := c.Writer.Header()
		header.Set("Access-Control-Allow-Origin", allowedOrigin)
		header.Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Authorization, Accept, Origin, X-Requested-With")
		header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		header.Set("Access-Control-Max-Age", "86400")
		header.Add("Vary", "Origin")

		if !isWildcard {
			header.Set("Access-Control-Allow-Credentials", "true")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
