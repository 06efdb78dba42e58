// Package handlers contains HTTP handler functions for the API.
//
// Go Pattern: Handlers in Gin receive a *gin.Context which provides:
// - Request data (params, query, body, headers)
// - Response methods (JSON, String, Status)
// - Middleware data (c.Get/c.Set)
//
// We group related handlers into a struct (Handler) that holds shared dependencies.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BotAlchemist/psy-tutor/internal/database"
	"github.com/BotAlchemist/psy-tutor/internal/models"
	"github.com/BotAlchemist/psy-tutor/internal/services/cache"
	"github.com/BotAlchemist/psy-tutor/internal/services/llm"
	"github.com/BotAlchemist/psy-tutor/internal/services/session"
)

// ModelInfo describes the configured model backend. *llm.Invoker satisfies it.
type ModelInfo interface {
	Provider() llm.Provider
	Model() string
	HasCredential() bool
}

// Handler holds shared dependencies for all HTTP handlers.
// Go Pattern: Dependency injection via struct fields. Instead of global
// variables or service locators, we pass dependencies explicitly.
type Handler struct {
	Session *session.Service
	Model   ModelInfo
	Cache   *cache.Cache
	DB      *database.DB // nil when DATABASE_URL is unset
	Version string
}

// NewHandler creates a new handler with all dependencies.
func NewHandler(svc *session.Service, info ModelInfo, c *cache.Cache, db *database.DB, version string) *Handler {
	return &Handler{
		Session: svc,
		Model:   info,
		Cache:   c,
		DB:      db,
		Version: version,
	}
}

// HealthCheck returns the API health status.
// GET /api/v1/health
func (h *Handler) HealthCheck(c *gin.Context) {
	// The database is optional; only report on it when configured.
	dbStatus := "disabled"
	stored := 0
	if h.DB != nil {
		dbStatus = "healthy"
		if err := h.DB.HealthCheck(c.Request.Context()); err != nil {
			dbStatus = "unhealthy: " + err.Error()
		} else if n, err := h.DB.CountExtractions(c.Request.Context()); err == nil {
			stored = n
		}
	}

	resp := models.HealthResponse{
		Status:   "ok",
		Version:  h.Version,
		BookDir:  h.Session.BookDir(),
		Database: dbStatus,

		StoredExtractions: stored,
	}
	if h.Model != nil {
		resp.Provider = string(h.Model.Provider())
		resp.Model = h.Model.Model()
		resp.CredentialPresent = h.Model.HasCredential()
	}
	if h.Cache != nil {
		resp.Cache = h.Cache.Stats()
	}

	c.JSON(http.StatusOK, resp)
}
