// Package models defines the request and response shapes of the HTTP API.
//
// Go Pattern: Models are plain structs with JSON tags for serialization.
// JSON tags (e.g., `json:"page"`) control how struct fields are serialized
// to/from JSON. `binding` tags are validated by Gin when binding a request.
package models

import (
	"time"

	"github.com/BotAlchemist/psy-tutor/internal/services/cache"
	"github.com/BotAlchemist/psy-tutor/internal/services/tutor"
)

// Chapter is one PDF in the book folder.
type Chapter struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
}

// ChapterListResponse is returned by GET /api/v1/chapters.
type ChapterListResponse struct {
	Chapters []Chapter `json:"chapters"`
}

// PageCountResponse is returned by GET /api/v1/chapters/:name/pages.
type PageCountResponse struct {
	Chapter   string `json:"chapter"`
	PageCount int    `json:"page_count"`
}

// PageResponse is returned by GET /api/v1/chapters/:name/pages/:page.
type PageResponse struct {
	Chapter   string               `json:"chapter"`
	Page      int                  `json:"page"`
	PageCount int                  `json:"page_count"`
	Text      *string              `json:"text,omitempty"` // Only with ?show_text=true
	Context   []tutor.ContextEntry `json:"context"`
}

// TemplateListResponse is returned by GET /api/v1/templates.
type TemplateListResponse struct {
	CustomLabel string           `json:"custom_label"`
	Templates   []tutor.Template `json:"templates"`
}

// AskRequest is the JSON body for POST /api/v1/ask.
// Mode is "Custom question" (or empty) for free text, otherwise a template label.
// Page is range-checked against the chapter, not here, so a bad page always
// reports invalid_page.
type AskRequest struct {
	Chapter  string `json:"chapter" binding:"required"`
	Page     int    `json:"page"`
	Mode     string `json:"mode,omitempty"`
	Question string `json:"question,omitempty"`
	Model    string `json:"model,omitempty"` // Optional: override default model
}

// AskResponse carries the answer. IsError is true when Answer describes a
// missing API key or a failed model call rather than a real answer.
type AskResponse struct {
	RequestID string `json:"request_id"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	IsError   bool   `json:"is_error"`
	Model     string `json:"model"`
}

// ErrorResponse is a standard error format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status            string      `json:"status"`
	Version           string      `json:"version"`
	BookDir           string      `json:"book_dir"`
	Provider          string      `json:"provider"`
	Model             string      `json:"model"`
	CredentialPresent bool        `json:"credential_configured"`
	Database          string      `json:"database"`
	StoredExtractions int         `json:"stored_extractions"` // Chapter versions in Postgres
	Cache             cache.Stats `json:"cache"`
}
