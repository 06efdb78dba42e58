// Package tutor holds the pure pieces of the tutoring flow: the page context
// window, the prompt composer, and the catalog of canned questions.
//
// Nothing here does I/O. Every function is a plain input → output transform,
// which keeps the grounding rules easy to test.
package tutor

import (
	"errors"
	"fmt"
	"strings"
)

// ContextSeparator sits between page entries so the model can tell where one
// page ends and the next begins.
const ContextSeparator = "\n\n-----\n\n"

// ErrPageOutOfRange is returned for a page number outside [1, page count].
var ErrPageOutOfRange = errors.New("page out of range")

// EntryRole says where a page sits relative to the selected one.
type EntryRole string

const (
	RolePrev    EntryRole = "Prev"
	RoleCurrent EntryRole = "Current"
	RoleNext    EntryRole = "Next"
)

// ContextEntry is one labeled page inside the window.
type ContextEntry struct {
	Role EntryRole `json:"role"`
	Page int       `json:"page"` // 1-based
	Text string    `json:"text"`
}

// Label renders the entry header, e.g. "[Prev: Page 3]".
func (e ContextEntry) Label() string {
	return fmt.Sprintf("[%s: Page %d]", e.Role, e.Page)
}

func (e ContextEntry) String() string {
	return e.Label() + "\n" + e.Text
}

// Window returns the previous, current and next page around selected.
//
// selected is 1-based. Neighbors outside the document are left out; pages
// with no extracted text are still included under their label.
func Window(pages []string, selected int) ([]ContextEntry, error) {
	n := len(pages)
	if selected < 1 || selected > n {
		return nil, fmt.Errorf("%w: page %d of %d", ErrPageOutOfRange, selected, n)
	}

	entries := make([]ContextEntry, 0, 3)
	if selected > 1 {
		entries = append(entries, ContextEntry{Role: RolePrev, Page: selected - 1, Text: pages[selected-2]})
	}
	entries = append(entries, ContextEntry{Role: RoleCurrent, Page: selected, Text: pages[selected-1]})
	if selected < n {
		entries = append(entries, ContextEntry{Role: RoleNext, Page: selected + 1, Text: pages[selected]})
	}
	return entries, nil
}

// BuildContext joins the window around selected into the text blob handed to the model.
func BuildContext(pages []string, selected int) (string, error) {
	entries, err := Window(pages, selected)
	if err != nil {
		return "", err
	}
	return JoinEntries(entries), nil
}

// JoinEntries renders entries with ContextSeparator between them.
func JoinEntries(entries []ContextEntry) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = e.String()
	}
	return strings.Join(parts, ContextSeparator)
}
