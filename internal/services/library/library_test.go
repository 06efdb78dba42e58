// library_test.go — Unit tests for chapter listing and page loading.
package library

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/BotAlchemist/psy-tutor/internal/services/cache"
	"github.com/BotAlchemist/psy-tutor/internal/services/pdf"
	"github.com/BotAlchemist/psy-tutor/internal/services/pdf/pdftest"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestList_SortedCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b_chapter.pdf", "A_chapter.PDF", "c_chapter.pdf", "notes.txt"} {
		writeFile(t, dir, name, pdftest.Build("x"))
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.pdf"), 0o755); err != nil {
		t.Fatal(err)
	}

	docs, err := List(dir)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	var names []string
	for _, d := range docs {
		names = append(names, d.Name)
	}
	want := "A_chapter.PDF,b_chapter.pdf,c_chapter.pdf"
	if got := strings.Join(names, ","); got != want {
		t.Errorf("List() names = %s, want %s", got, want)
	}
}

func TestList_Errors(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, err := List(filepath.Join(t.TempDir(), "nope"))
		var missing *DirectoryMissingError
		if !errors.As(err, &missing) {
			t.Errorf("error = %v, want *DirectoryMissingError", err)
		}
	})

	t.Run("path is a file", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "book", []byte("x"))
		_, err := List(path)
		var missing *DirectoryMissingError
		if !errors.As(err, &missing) {
			t.Errorf("error = %v, want *DirectoryMissingError", err)
		}
	})

	t.Run("no pdfs", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "readme.md", []byte("# hi"))
		_, err := List(dir)
		var none *NoDocumentsError
		if !errors.As(err, &none) {
			t.Errorf("error = %v, want *NoDocumentsError", err)
		}
	})
}

func TestPages(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "01_intro.pdf", pdftest.Build("Intro text.", "Core concept text.", "Summary text."))
	lib := New(dir, cache.New(nil))

	pages, err := lib.Pages(context.Background(), "01_intro.pdf")
	if err != nil {
		t.Fatalf("Pages() error = %v", err)
	}
	if len(pages) != 3 {
		t.Fatalf("len(pages) = %d, want 3", len(pages))
	}
	if !strings.Contains(pages[1], "Core concept text.") {
		t.Errorf("pages[1] = %q", pages[1])
	}
}

func TestPages_UnknownChapter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "01.pdf", pdftest.Build("x"))

	_, err := New(dir, nil).Pages(context.Background(), "99.pdf")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestPages_UnreadableDocument(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.pdf", []byte("definitely not a pdf"))

	_, err := New(dir, nil).Pages(context.Background(), "broken.pdf")
	var readErr *pdf.DocumentReadError
	if !errors.As(err, &readErr) {
		t.Errorf("error = %v, want *pdf.DocumentReadError", err)
	}
}

func TestPages_EmptyDocument(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "empty.pdf", pdftest.Build())

	_, err := New(dir, nil).Pages(context.Background(), "empty.pdf")
	var empty *EmptyDocumentError
	if !errors.As(err, &empty) {
		t.Errorf("error = %v, want *EmptyDocumentError", err)
	}
}

func TestPages_ReloadsWhenFileChanges(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ch.pdf", pdftest.Build("First edition."))
	c := cache.New(nil)
	lib := New(dir, c)
	ctx := context.Background()

	if _, err := lib.Pages(ctx, "ch.pdf"); err != nil {
		t.Fatal(err)
	}

	// Replace the file and push its mtime forward so the change is visible
	// even on filesystems with coarse timestamps.
	writeFile(t, dir, "ch.pdf", pdftest.Build("Second edition.", "Extra page."))
	later := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}

	pages, err := lib.Pages(ctx, "ch.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 2 || !strings.Contains(pages[0], "Second edition.") {
		t.Errorf("pages = %q, want the replaced content", pages)
	}
	if c.Len() != 1 {
		t.Errorf("cache Len() = %d, want 1", c.Len())
	}
}

func TestList_FollowsSymlinks(t *testing.T) {
	src := t.TempDir()
	target := writeFile(t, src, "memory.pdf", pdftest.Build("Linked chapter."))
	stamp := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	if err := os.Chtimes(target, stamp, stamp); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	if err := os.Symlink(target, filepath.Join(dir, "01_Linked.pdf")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	if err := os.Symlink(filepath.Join(src, "gone.pdf"), filepath.Join(dir, "02_Dangling.pdf")); err != nil {
		t.Fatal(err)
	}

	docs, err := List(dir)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(docs) != 1 || docs[0].Name != "01_Linked.pdf" {
		t.Fatalf("List() = %+v, want only the linked chapter", docs)
	}
	if !docs[0].ModTime.Equal(stamp) {
		t.Errorf("ModTime = %v, want the target's %v", docs[0].ModTime, stamp)
	}

	pages, err := New(dir, cache.New(nil)).Pages(context.Background(), "01_Linked.pdf")
	if err != nil || len(pages) != 1 || !strings.Contains(pages[0], "Linked chapter.") {
		t.Errorf("Pages() = %q, %v", pages, err)
	}
}
