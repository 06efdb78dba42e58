// Package pdf turns chapter PDFs into per-page plain text.
//
// We use the ledongthuc/pdf library for text extraction.
// It's a pure Go implementation — no CGO or external dependencies required.
// This makes deployment simpler (just a single binary).
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrMissingHeader means the bytes do not start with the PDF magic number.
var ErrMissingHeader = errors.New("missing %PDF- header")

// DocumentReadError means the bytes could not be opened as a PDF.
// Callers show it to the student instead of failing the whole session.
type DocumentReadError struct {
	Err error
}

func (e *DocumentReadError) Error() string {
	return fmt.Sprintf("could not read PDF: %v", e.Err)
}

func (e *DocumentReadError) Unwrap() error {
	return e.Err
}

// ExtractPages reads a PDF held in memory and returns the text of every page,
// in physical page order.
//
// The returned slice always has one entry per page. A page with no text layer
// (scanned images, blank pages) yields an empty string rather than being
// skipped, so index i always maps to page i+1.
func ExtractPages(data []byte) (pages []string, err error) {
	if len(data) == 0 {
		return nil, &DocumentReadError{Err: fmt.Errorf("empty file")}
	}
	if !ValidatePDF(data) {
		return nil, &DocumentReadError{Err: ErrMissingHeader}
	}

	// Go Pattern: The pdf library panics on some malformed files.
	// recover() turns that panic back into an ordinary error return.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = &DocumentReadError{Err: fmt.Errorf("malformed PDF: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &DocumentReadError{Err: err}
	}

	pageCount := reader.NumPage()
	pages = make([]string, pageCount)
	for i := 1; i <= pageCount; i++ {
		pages[i-1] = pageText(reader.Page(i))
	}

	return pages, nil
}

// pageText extracts one page. A page that fails yields "" instead of
// failing the document; image-only pages are common.
func pageText(page pdf.Page) (text string) {
	if page.V.IsNull() {
		return ""
	}

	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()

	raw, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(raw)
}

// ValidatePDF checks if the data looks like a valid PDF by checking the magic bytes.
func ValidatePDF(data []byte) bool {
	// PDF files start with "%PDF-"
	return len(data) >= 5 && string(data[:5]) == "%PDF-"
}

// CountWords counts whitespace separated words across all pages.
func CountWords(pages []string) int {
	n := 0
	for _, p := range pages {
		n += len(strings.Fields(p))
	}
	return n
}
