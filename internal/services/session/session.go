// Package session runs one tutoring interaction from an immutable Request.
//
// Each call is a full pass: list the folder, load the chapter's pages
// (through the cache), slice the ±1 page window, and on Ask, call the model.
// Nothing survives between calls except the page cache.
package session

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/BotAlchemist/psy-tutor/internal/services/library"
	"github.com/BotAlchemist/psy-tutor/internal/services/llm"
	"github.com/BotAlchemist/psy-tutor/internal/services/tutor"
)

// Request is everything the UI selected for one interaction.
type Request struct {
	Chapter  string
	Page     int    // 1-based
	Mode     string // tutor.CustomQuestionLabel or a template label
	Question string // free text, used only in custom mode
	Model    string // optional override
	ShowText bool

	// RequestID tags the ask in logs and the result; generated when empty.
	RequestID string
}

// View is what the page picker and preview need.
type View struct {
	Chapter   string
	PageCount int
	Page      int
	PageText  string // set only when ShowText was requested
	Entries   []tutor.ContextEntry
	Context   string
}

// Result is one answered (or failed) ask.
type Result struct {
	RequestID string
	Question  string
	Answer    llm.Answer
}

// Asker is the part of llm.Invoker the session needs.
type Asker interface {
	Ask(ctx context.Context, model, contextText, question string) llm.Answer
}

// Service wires the library to the invoker.
type Service struct {
	lib   *library.Library
	asker Asker
}

// New creates a session service.
func New(lib *library.Library, asker Asker) *Service {
	return &Service{lib: lib, asker: asker}
}

// BookDir returns the folder chapters are read from.
func (s *Service) BookDir() string {
	return s.lib.Dir()
}

// Chapters lists the chapter files.
func (s *Service) Chapters() ([]library.Document, error) {
	return s.lib.Chapters()
}

// PageCount returns how many pages a chapter has.
func (s *Service) PageCount(ctx context.Context, chapter string) (int, error) {
	pages, err := s.lib.Pages(ctx, chapter)
	if err != nil {
		return 0, err
	}
	return len(pages), nil
}

// View loads the chapter and builds the context window for the selected page.
func (s *Service) View(ctx context.Context, req Request) (*View, error) {
	pages, err := s.lib.Pages(ctx, req.Chapter)
	if err != nil {
		return nil, err
	}

	entries, err := tutor.Window(pages, req.Page)
	if err != nil {
		return nil, err
	}

	v := &View{
		Chapter:   req.Chapter,
		PageCount: len(pages),
		Page:      req.Page,
		Entries:   entries,
		Context:   tutor.JoinEntries(entries),
	}
	if req.ShowText {
		v.PageText = pages[req.Page-1]
	}
	return v, nil
}

// Ask answers the resolved question about the selected page.
//
// Structural problems (missing folder, unreadable chapter, bad page, empty
// question) come back as errors. Credential and remote failures come back
// inside Result.Answer so the caller can show them as the answer.
func (s *Service) Ask(ctx context.Context, req Request) (*Result, error) {
	v, err := s.View(ctx, req)
	if err != nil {
		return nil, err
	}

	question, err := tutor.ResolveQuestion(req.Mode, req.Question)
	if err != nil {
		return nil, err
	}

	rid := req.RequestID
	if rid == "" {
		rid = uuid.New().String()
	}
	log.Printf("💬 Ask %s: %s page %d/%d (mode=%q)", rid, req.Chapter, req.Page, v.PageCount, modeLabel(req.Mode))

	ans := s.asker.Ask(ctx, req.Model, v.Context, question)
	if ans.IsError() {
		log.Printf("⚠️  Ask %s returned an error answer: %v", rid, ans.Err)
	}

	return &Result{
		RequestID: rid,
		Question:  question,
		Answer:    ans,
	}, nil
}

func modeLabel(mode string) string {
	if mode == "" {
		return tutor.CustomQuestionLabel
	}
	return mode
}
