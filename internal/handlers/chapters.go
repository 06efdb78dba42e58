// chapters.go handles browsing the book folder.
//
// GET /api/v1/chapters                     — List chapter PDFs
// GET /api/v1/chapters/:name/pages         — Page count of one chapter
// GET /api/v1/chapters/:name/pages/:page   — Context window around a page
// GET /api/v1/templates                    — Help options for the ask form
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BotAlchemist/psy-tutor/internal/models"
	"github.com/BotAlchemist/psy-tutor/internal/services/session"
	"github.com/BotAlchemist/psy-tutor/internal/services/tutor"
)

// ListChapters returns the chapters currently in the book folder.
// GET /api/v1/chapters
func (h *Handler) ListChapters(c *gin.Context) {
	docs, err := h.Session.Chapters()
	if err != nil {
		respondError(c, err)
		return
	}

	// Go Pattern: make with a capacity avoids regrowing the slice.
	chapters := make([]models.Chapter, 0, len(docs))
	for _, d := range docs {
		chapters = append(chapters, models.Chapter{
			Name:       d.Name,
			Size:       d.Size,
			ModifiedAt: d.ModTime,
		})
	}

	c.JSON(http.StatusOK, models.ChapterListResponse{Chapters: chapters})
}

// GetPageCount returns how many pages a chapter has. The first call for a
// chapter extracts its text; later calls hit the cache.
// GET /api/v1/chapters/:name/pages
func (h *Handler) GetPageCount(c *gin.Context) {
	name := c.Param("name")

	n, err := h.Session.PageCount(c.Request.Context(), name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.PageCountResponse{Chapter: name, PageCount: n})
}

// GetPage returns the ±1 page context window for a page, and the page's own
// text when show_text=true.
// GET /api/v1/chapters/:name/pages/:page
func (h *Handler) GetPage(c *gin.Context) {
	page, err := strconv.Atoi(c.Param("page"))
	if err != nil {
		badRequest(c, "invalid_page", "Page must be a whole number starting at 1")
		return
	}
	showText, _ := strconv.ParseBool(c.DefaultQuery("show_text", "false"))

	v, err := h.Session.View(c.Request.Context(), session.Request{
		Chapter:  c.Param("name"),
		Page:     page,
		ShowText: showText,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := models.PageResponse{
		Chapter:   v.Chapter,
		Page:      v.Page,
		PageCount: v.PageCount,
		Context:   v.Entries,
	}
	if showText {
		resp.Text = &v.PageText
	}

	c.JSON(http.StatusOK, resp)
}

// ListTemplates returns the help options in display order.
// GET /api/v1/templates
func (h *Handler) ListTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, models.TemplateListResponse{
		CustomLabel: tutor.CustomQuestionLabel,
		Templates:   tutor.Templates,
	})
}
