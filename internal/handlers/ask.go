// ask.go handles questions about a page.
//
// POST /api/v1/ask — Answer a question using only the selected page and its neighbors
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BotAlchemist/psy-tutor/internal/middleware"
	"github.com/BotAlchemist/psy-tutor/internal/models"
	"github.com/BotAlchemist/psy-tutor/internal/services/session"
)

// Ask answers a template or custom question about one page.
// POST /api/v1/ask
//
// A missing API key or a failed model call is still a 200: the failure text
// is the answer, with is_error set, so the UI can show it in place.
func (h *Handler) Ask(c *gin.Context) {
	var req models.AskRequest

	// Go Pattern: ShouldBindJSON decodes the body and runs the `binding`
	// tag validators in one step.
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_request", "Send a JSON body with a chapter name and a page number")
		return
	}

	res, err := h.Session.Ask(c.Request.Context(), session.Request{
		Chapter:  req.Chapter,
		Page:     req.Page,
		Mode:     req.Mode,
		Question: req.Question,
		Model:    req.Model,

		RequestID: middleware.GetRequestID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.AskResponse{
		RequestID: res.RequestID,
		Question:  res.Question,
		Answer:    res.Answer.Text,
		IsError:   res.Answer.IsError(),
		Model:     res.Answer.Model,
	})
}
