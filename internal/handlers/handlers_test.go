// handlers_test.go — Tests for the HTTP handlers over a real chapter folder.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/BotAlchemist/psy-tutor/internal/middleware"
	"github.com/BotAlchemist/psy-tutor/internal/models"
	"github.com/BotAlchemist/psy-tutor/internal/services/cache"
	"github.com/BotAlchemist/psy-tutor/internal/services/library"
	"github.com/BotAlchemist/psy-tutor/internal/services/llm"
	"github.com/BotAlchemist/psy-tutor/internal/services/pdf"
	"github.com/BotAlchemist/psy-tutor/internal/services/pdf/pdftest"
	"github.com/BotAlchemist/psy-tutor/internal/services/session"
	"github.com/BotAlchemist/psy-tutor/internal/services/tutor"
)

type fakeAsker struct {
	answer   llm.Answer
	question string
}

func (f *fakeAsker) Ask(ctx context.Context, model, contextText, question string) llm.Answer {
	f.question = question
	return f.answer
}

type fakeInfo struct{}

func (fakeInfo) Provider() llm.Provider { return llm.ProviderOpenAI }
func (fakeInfo) Model() string          { return "gpt-4o-mini" }
func (fakeInfo) HasCredential() bool    { return false }

func setupRouter(t *testing.T, dir string, asker session.Asker) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	c := cache.New(nil)
	h := NewHandler(session.New(library.New(dir, c), asker), fakeInfo{}, c, nil, "test")

	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/", h.ServeUI)
	r.GET("/api/v1/health", h.HealthCheck)
	r.GET("/api/v1/chapters", h.ListChapters)
	r.GET("/api/v1/chapters/:name/pages", h.GetPageCount)
	r.GET("/api/v1/chapters/:name/pages/:page", h.GetPage)
	r.GET("/api/v1/templates", h.ListTemplates)
	r.POST("/api/v1/ask", h.Ask)
	return r
}

func bookDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string][]byte{
		"02_Memory.pdf": pdftest.Build("Memory intro.", "Short-term memory.", "Long-term memory."),
		"01_intro.pdf":  pdftest.Build("Welcome."),
		"notes.txt":     []byte("not a chapter"),
		"broken.pdf":    []byte("garbage"),
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("invalid JSON %q: %v", w.Body.String(), err)
	}
}

func TestListChapters(t *testing.T) {
	r := setupRouter(t, bookDir(t), &fakeAsker{})

	w := do(r, http.MethodGet, "/api/v1/chapters", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp models.ChapterListResponse
	decode(t, w, &resp)

	var names []string
	for _, c := range resp.Chapters {
		names = append(names, c.Name)
	}
	want := "01_intro.pdf,02_Memory.pdf,broken.pdf"
	if got := strings.Join(names, ","); got != want {
		t.Errorf("chapters = %s, want %s", got, want)
	}
}

func TestListChapters_FolderErrors(t *testing.T) {
	tests := []struct {
		name       string
		dir        func(t *testing.T) string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "missing folder",
			dir:        func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope") },
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "directory_missing",
		},
		{
			name:       "no PDFs",
			dir:        func(t *testing.T) string { return t.TempDir() },
			wantStatus: http.StatusNotFound,
			wantCode:   "no_documents",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupRouter(t, tt.dir(t), &fakeAsker{})
			w := do(r, http.MethodGet, "/api/v1/chapters", "")
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var resp models.ErrorResponse
			decode(t, w, &resp)
			if resp.Error != tt.wantCode {
				t.Errorf("error = %q, want %q", resp.Error, tt.wantCode)
			}
		})
	}
}

func TestGetPageCount(t *testing.T) {
	r := setupRouter(t, bookDir(t), &fakeAsker{})

	tests := []struct {
		chapter    string
		wantStatus int
		wantCode   string
		wantPages  int
	}{
		{"02_Memory.pdf", http.StatusOK, "", 3},
		{"01_intro.pdf", http.StatusOK, "", 1},
		{"missing.pdf", http.StatusNotFound, "not_found", 0},
		{"broken.pdf", http.StatusUnprocessableEntity, "document_read_error", 0},
	}

	for _, tt := range tests {
		t.Run(tt.chapter, func(t *testing.T) {
			w := do(r, http.MethodGet, "/api/v1/chapters/"+tt.chapter+"/pages", "")
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantCode != "" {
				var resp models.ErrorResponse
				decode(t, w, &resp)
				if resp.Error != tt.wantCode {
					t.Errorf("error = %q, want %q", resp.Error, tt.wantCode)
				}
				return
			}
			var resp models.PageCountResponse
			decode(t, w, &resp)
			if resp.PageCount != tt.wantPages {
				t.Errorf("page_count = %d, want %d", resp.PageCount, tt.wantPages)
			}
		})
	}
}

func TestGetPage(t *testing.T) {
	r := setupRouter(t, bookDir(t), &fakeAsker{})

	t.Run("last page with text", func(t *testing.T) {
		w := do(r, http.MethodGet, "/api/v1/chapters/02_Memory.pdf/pages/3?show_text=true", "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		var resp models.PageResponse
		decode(t, w, &resp)

		if resp.PageCount != 3 || len(resp.Context) != 2 {
			t.Fatalf("resp = %+v, want 2 entries of 3 pages", resp)
		}
		if resp.Context[0].Role != tutor.RolePrev || resp.Context[1].Role != tutor.RoleCurrent {
			t.Errorf("roles = %s,%s", resp.Context[0].Role, resp.Context[1].Role)
		}
		if resp.Text == nil || !strings.Contains(*resp.Text, "Long-term memory.") {
			t.Errorf("text = %v", resp.Text)
		}
	})

	t.Run("text omitted by default", func(t *testing.T) {
		w := do(r, http.MethodGet, "/api/v1/chapters/02_Memory.pdf/pages/1", "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		var raw map[string]json.RawMessage
		decode(t, w, &raw)
		if _, ok := raw["text"]; ok {
			t.Errorf("top-level text present without show_text: %s", w.Body.String())
		}
		if _, ok := raw["context"]; !ok {
			t.Errorf("context missing: %s", w.Body.String())
		}
	})

	for _, page := range []string{"0", "4", "abc"} {
		t.Run("invalid page "+page, func(t *testing.T) {
			w := do(r, http.MethodGet, "/api/v1/chapters/02_Memory.pdf/pages/"+page, "")
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			var resp models.ErrorResponse
			decode(t, w, &resp)
			if resp.Error != "invalid_page" {
				t.Errorf("error = %q, want invalid_page", resp.Error)
			}
		})
	}
}

func TestListTemplates(t *testing.T) {
	r := setupRouter(t, bookDir(t), &fakeAsker{})

	w := do(r, http.MethodGet, "/api/v1/templates", "")
	var resp models.TemplateListResponse
	decode(t, w, &resp)

	if resp.CustomLabel != tutor.CustomQuestionLabel {
		t.Errorf("custom_label = %q", resp.CustomLabel)
	}
	if len(resp.Templates) != len(tutor.Templates) || resp.Templates[0].Label != "Summarize key points" {
		t.Errorf("templates = %+v", resp.Templates)
	}
}

func TestAsk(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		answer      llm.Answer
		wantStatus  int
		wantCode    string
		wantIsError bool
	}{
		{
			name:       "template question",
			body:       `{"chapter":"02_Memory.pdf","page":2,"mode":"Define difficult words"}`,
			answer:     llm.Answer{Text: "- memory: remembering", Model: "gpt-4o-mini"},
			wantStatus: http.StatusOK,
		},
		{
			name:        "missing credential is a 200",
			body:        `{"chapter":"02_Memory.pdf","page":1,"question":"What is memory?"}`,
			answer:      llm.Answer{Text: "No API key provided. Set OPENAI_API_KEY.", Err: &llm.MissingCredentialError{EnvVar: "OPENAI_API_KEY"}},
			wantStatus:  http.StatusOK,
			wantIsError: true,
		},
		{
			name:       "empty custom question",
			body:       `{"chapter":"02_Memory.pdf","page":1,"mode":"Custom question","question":"  "}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_request",
		},
		{
			name:       "unknown template",
			body:       `{"chapter":"02_Memory.pdf","page":1,"mode":"Sing a song"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_request",
		},
		{
			name:       "page zero",
			body:       `{"chapter":"02_Memory.pdf","page":0,"question":"q"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_page",
		},
		{
			name:       "negative page",
			body:       `{"chapter":"02_Memory.pdf","page":-2,"question":"q"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_page",
		},
		{
			name:       "page missing",
			body:       `{"chapter":"02_Memory.pdf","question":"q"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_page",
		},
		{
			name:       "chapter missing",
			body:       `{"page":1,"question":"q"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_request",
		},
		{
			name:       "page past the end",
			body:       `{"chapter":"02_Memory.pdf","page":9,"question":"q"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_page",
		},
		{
			name:       "unknown chapter",
			body:       `{"chapter":"99.pdf","page":1,"question":"q"}`,
			wantStatus: http.StatusNotFound,
			wantCode:   "not_found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupRouter(t, bookDir(t), &fakeAsker{answer: tt.answer})
			w := do(r, http.MethodPost, "/api/v1/ask", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.wantStatus, w.Body.String())
			}

			if tt.wantCode != "" {
				var resp models.ErrorResponse
				decode(t, w, &resp)
				if resp.Error != tt.wantCode {
					t.Errorf("error = %q, want %q", resp.Error, tt.wantCode)
				}
				return
			}

			var resp models.AskResponse
			decode(t, w, &resp)
			if resp.Answer != tt.answer.Text || resp.IsError != tt.wantIsError {
				t.Errorf("resp = %+v", resp)
			}
			if resp.RequestID == "" || resp.RequestID != w.Header().Get(middleware.RequestIDHeader) {
				t.Errorf("request_id = %q, header = %q", resp.RequestID, w.Header().Get(middleware.RequestIDHeader))
			}
		})
	}
}

func TestAsk_TemplateTextSentToModel(t *testing.T) {
	asker := &fakeAsker{answer: llm.Answer{Text: "ok"}}
	r := setupRouter(t, bookDir(t), asker)

	w := do(r, http.MethodPost, "/api/v1/ask", `{"chapter":"01_intro.pdf","page":1,"mode":"Real-life example","question":"ignored"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	want, _ := tutor.LookupTemplate("Real-life example")
	if asker.question != want {
		t.Errorf("model got %q, want %q", asker.question, want)
	}
}

func TestHealthCheck(t *testing.T) {
	dir := bookDir(t)
	r := setupRouter(t, dir, &fakeAsker{})

	// Warm the cache so stats are non-zero.
	do(r, http.MethodGet, "/api/v1/chapters/01_intro.pdf/pages", "")
	do(r, http.MethodGet, "/api/v1/chapters/01_intro.pdf/pages", "")

	w := do(r, http.MethodGet, "/api/v1/health", "")
	var resp models.HealthResponse
	decode(t, w, &resp)

	if resp.Status != "ok" || resp.Database != "disabled" || resp.Provider != "openai" || resp.CredentialPresent {
		t.Errorf("resp = %+v", resp)
	}
	if resp.BookDir != dir {
		t.Errorf("book_dir = %q, want %q", resp.BookDir, dir)
	}
	if resp.Cache.Entries != 1 || resp.Cache.Hits != 1 || resp.Cache.Misses != 1 {
		t.Errorf("cache = %+v, want 1 entry, 1 hit, 1 miss", resp.Cache)
	}
}

func TestServeUI(t *testing.T) {
	r := setupRouter(t, bookDir(t), &fakeAsker{})

	w := do(r, http.MethodGet, "/", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "PDF Tutor") {
		t.Errorf("status = %d", w.Code)
	}
}

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{&library.DirectoryMissingError{Dir: "x"}, 503, "directory_missing"},
		{&library.NoDocumentsError{Dir: "x"}, 404, "no_documents"},
		{fmt.Errorf("%w: a.pdf", library.ErrNotFound), 404, "not_found"},
		{&pdf.DocumentReadError{Err: errors.New("bad xref")}, 422, "document_read_error"},
		{&library.EmptyDocumentError{Name: "a.pdf"}, 422, "empty_document"},
		{fmt.Errorf("page 5 of 3: %w", tutor.ErrPageOutOfRange), 400, "invalid_page"},
		{tutor.ErrEmptyQuestion, 400, "invalid_request"},
		{errors.New("boom"), 500, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			status, body := errorResponse(tt.err)
			if status != tt.wantStatus || body.Error != tt.wantCode || body.Code != status {
				t.Errorf("errorResponse(%v) = %d %+v, want %d %s", tt.err, status, body, tt.wantStatus, tt.wantCode)
			}
		})
	}
}
