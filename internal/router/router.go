// Package router sets up all HTTP routes for the API.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/BotAlchemist/psy-tutor/internal/handlers"
	"github.com/BotAlchemist/psy-tutor/internal/middleware"
)

// Setup creates and configures the Gin router with all routes.
func Setup(h *handlers.Handler, askPerHour int, allowedOrigins []string) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS(allowedOrigins))

	rateLimiter := middleware.NewRateLimiter(askPerHour)

	// Tutor UI
	r.GET("/", h.ServeUI)

	// API Documentation
	r.GET("/api/docs", h.ServeSwaggerUI)
	r.GET("/api/docs/openapi.yaml", h.ServeOpenAPI)

	api := r.Group("/api/v1")
	{
		api.GET("/health", h.HealthCheck)

		// Browsing the book folder
		api.GET("/chapters", h.ListChapters)
		api.GET("/chapters/:name/pages", h.GetPageCount)
		api.GET("/chapters/:name/pages/:page", h.GetPage)
		api.GET("/templates", h.ListTemplates)

		// Only asking spends model quota, so only asking is rate limited.
		api.POST("/ask", rateLimiter.RateLimit(), h.Ask)
	}

	return r
}
