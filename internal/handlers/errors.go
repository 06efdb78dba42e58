package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BotAlchemist/psy-tutor/internal/models"
	"github.com/BotAlchemist/psy-tutor/internal/services/library"
	"github.com/BotAlchemist/psy-tutor/internal/services/pdf"
	"github.com/BotAlchemist/psy-tutor/internal/services/tutor"
)

// errorResponse maps a service error to its HTTP status and error body.
//
// Go Pattern: errors.As matches typed errors anywhere in the wrap chain,
// errors.Is matches sentinel values. Order matters only where one error
// could satisfy several checks.
func errorResponse(err error) (int, models.ErrorResponse) {
	var (
		missing *library.DirectoryMissingError
		noDocs  *library.NoDocumentsError
		empty   *library.EmptyDocumentError
		unread  *pdf.DocumentReadError
	)

	status, code := http.StatusInternalServerError, "internal_error"
	switch {
	case errors.As(err, &missing):
		status, code = http.StatusServiceUnavailable, "directory_missing"
	case errors.As(err, &noDocs):
		status, code = http.StatusNotFound, "no_documents"
	case errors.Is(err, library.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.As(err, &unread):
		status, code = http.StatusUnprocessableEntity, "document_read_error"
	case errors.As(err, &empty):
		status, code = http.StatusUnprocessableEntity, "empty_document"
	case errors.Is(err, tutor.ErrPageOutOfRange):
		status, code = http.StatusBadRequest, "invalid_page"
	case errors.Is(err, tutor.ErrEmptyQuestion), errors.Is(err, tutor.ErrUnknownTemplate):
		status, code = http.StatusBadRequest, "invalid_request"
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "Something went wrong. Please try again."
	}
	return status, models.ErrorResponse{Error: code, Message: msg, Code: status}
}

// respondError writes err as a JSON error, logging anything unexpected.
func respondError(c *gin.Context, err error) {
	status, body := errorResponse(err)
	if status == http.StatusInternalServerError {
		log.Printf("❌ %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, body)
}

// badRequest writes a 400 with the given error code.
func badRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   code,
		Message: message,
		Code:    http.StatusBadRequest,
	})
}
