// Package library finds chapter PDFs in the book folder and loads their pages.
//
// The folder is never watched. Every call lists it again, so chapters added
// or replaced on disk show up on the next request.
package library

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BotAlchemist/psy-tutor/internal/services/cache"
	"github.com/BotAlchemist/psy-tutor/internal/services/pdf"
)

// ErrNotFound is returned when a chapter name does not match any file in the folder.
var ErrNotFound = errors.New("chapter not found")

// DirectoryMissingError means the book folder does not exist.
type DirectoryMissingError struct {
	Dir string
}

func (e *DirectoryMissingError) Error() string {
	return fmt.Sprintf("folder %q not found; create it and add PDF chapters", e.Dir)
}

// NoDocumentsError means the folder exists but holds no PDF files.
type NoDocumentsError struct {
	Dir string
}

func (e *NoDocumentsError) Error() string {
	return fmt.Sprintf("no PDFs found in %q; add chapter PDFs and refresh", e.Dir)
}

// EmptyDocumentError means extraction succeeded but produced zero pages.
type EmptyDocumentError struct {
	Name string
}

func (e *EmptyDocumentError) Error() string {
	return fmt.Sprintf("couldn't read any pages from %s", e.Name)
}

// Document is one chapter file.
type Document struct {
	Path    string    `json:"-"`
	Name    string    `json:"name"`
	ModTime time.Time `json:"modified_at"`
	Size    int64     `json:"size"`
}

// List returns the PDF files in dir, sorted by file name without regard to case.
// Name chapters like 01_Intro.pdf, 02_Memory.pdf for a clean order.
func List(dir string) ([]Document, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, &DirectoryMissingError{Dir: dir}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var docs []Document
	for _, e := range entries {
		if !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		// Stat follows symlinks, so a linked chapter is listed with the
		// target's size and mtime, and the cache key tracks the real file.
		path := filepath.Join(dir, e.Name())
		fi, err := os.Stat(path)
		if err != nil || !fi.Mode().IsRegular() {
			// Vanished, dangling link, or a directory named *.pdf.
			continue
		}
		docs = append(docs, Document{
			Path:    path,
			Name:    e.Name(),
			ModTime: fi.ModTime(),
			Size:    fi.Size(),
		})
	}

	if len(docs) == 0 {
		return nil, &NoDocumentsError{Dir: dir}
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return strings.ToLower(docs[i].Name) < strings.ToLower(docs[j].Name)
	})
	return docs, nil
}

// Library serves page text for the chapters in one folder.
type Library struct {
	dir   string
	cache *cache.Cache
}

// New creates a library rooted at dir.
func New(dir string, c *cache.Cache) *Library {
	if c == nil {
		c = cache.New(nil)
	}
	return &Library{dir: dir, cache: c}
}

// Dir returns the book folder.
func (l *Library) Dir() string {
	return l.dir
}

// Chapters lists the chapters currently on disk.
func (l *Library) Chapters() ([]Document, error) {
	return List(l.dir)
}

// Find resolves a chapter by its file name.
func (l *Library) Find(name string) (*Document, error) {
	docs, err := List(l.dir)
	if err != nil {
		return nil, err
	}
	for i := range docs {
		if docs[i].Name == name {
			return &docs[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Pages returns the per-page text of a chapter, reading the file only when
// its (path, mtime) pair is not cached yet.
func (l *Library) Pages(ctx context.Context, name string) ([]string, error) {
	doc, err := l.Find(name)
	if err != nil {
		return nil, err
	}

	pages, err := l.cache.GetOrCompute(ctx, doc.Path, doc.ModTime, func() ([]string, error) {
		return readPages(doc.Path)
	})
	if err != nil {
		return nil, err
	}

	if len(pages) == 0 {
		return nil, &EmptyDocumentError{Name: doc.Name}
	}
	return pages, nil
}

// readPages reads the file and runs the extractor.
func readPages(path string) ([]string, error) {
	start := time.Now()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &pdf.DocumentReadError{Err: err}
	}

	pages, err := pdf.ExtractPages(data)
	if err != nil {
		log.Printf("❌ Extraction failed for %s: %v", filepath.Base(path), err)
		return nil, err
	}

	log.Printf("📄 Extracted %d pages (%d words) from %s in %s",
		len(pages), pdf.CountWords(pages), filepath.Base(path), time.Since(start).Round(time.Millisecond))
	return pages, nil
}
