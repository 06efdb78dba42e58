// cors.go configures Cross-Origin Resource Sharing (CORS).
//
// The bundled UI is served from the same origin, but a separately hosted
// frontend (e.g. a Vite dev server on localhost:5173) needs CORS headers,
// or browsers block its API requests.
package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS returns configured CORS middleware.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", RequestIDHeader},
		ExposeHeaders:    []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", RequestIDHeader, "Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour, // Cache preflight responses
	})
}
