package tutor

import (
	"errors"
	"fmt"
	"strings"
)

// CustomQuestionLabel selects free-text input instead of a template.
const CustomQuestionLabel = "Custom question"

// ErrEmptyQuestion is returned when custom mode has no text.
var ErrEmptyQuestion = errors.New("please type or select a question")

// ErrUnknownTemplate is returned for a mode that is neither custom nor a catalog label.
var ErrUnknownTemplate = errors.New("unknown help option")

// Template is a canned question offered as a shortcut.
type Template struct {
	Label    string `json:"label"`
	Question string `json:"question"`
}

// Templates is the catalog, in display order.
var Templates = []Template{
	{"Summarize key points", "Summarize the most important ideas on this page in simple bullet points for a 9th grade student."},
	{"Explain like I'm in high school", "Explain the page content in very simple words for a high school student. Avoid jargon. Use short sentences and small examples."},
	{"Explain like I'm in elementary school", "Explain the page as if I am in grade 5. Use everyday examples and comparisons a child understands."},
	{"Make quiz questions", "Create 3 short multiple-choice questions (with 4 options each) from this page. Mark the correct answers clearly in the end."},
	{"Define difficult words", "List any difficult or technical words on this page and define them in very simple terms."},
	{"Step-by-step explanation", "Break down the content of this page step-by-step in clear, numbered points."},
	{"Real-life example", "Give one simple real-life example that matches the idea on this page. Keep it relevant for a school student."},
	{"Quick recap (30 seconds)", "Give a 4–6 bullet ‘quick recap’ of this page as if I only have 30 seconds before a test."},
}

// LookupTemplate returns the question for a label.
func LookupTemplate(label string) (string, bool) {
	for _, t := range Templates {
		if t.Label == label {
			return t.Question, true
		}
	}
	return "", false
}

// Modes returns the help options in menu order: custom first, then the catalog.
func Modes() []string {
	modes := make([]string, 0, len(Templates)+1)
	modes = append(modes, CustomQuestionLabel)
	for _, t := range Templates {
		modes = append(modes, t.Label)
	}
	return modes
}

// ResolveQuestion picks the question text for a help option.
//
// An empty mode means custom. For a template mode the catalog string wins,
// whatever was typed into the custom box before.
func ResolveQuestion(mode, custom string) (string, error) {
	if mode == "" || mode == CustomQuestionLabel {
		q := strings.TrimSpace(custom)
		if q == "" {
			return "", ErrEmptyQuestion
		}
		return q, nil
	}

	q, ok := LookupTemplate(mode)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, mode)
	}
	return q, nil
}
