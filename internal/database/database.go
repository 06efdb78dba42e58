// Package database handles PostgreSQL connections and queries.
//
// The tutor only persists one thing: extracted page text, keyed by chapter
// path and file modification time. It is a second cache tier that survives
// restarts, so a freshly started server does not re-parse every chapter.
// No questions or answers are ever stored.
//
// Go Pattern: We use the `sqlx` package which extends Go's standard `database/sql`
// with convenient features like scanning rows into structs. Unlike an ORM,
// you write raw SQL — which gives you full control.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq" // PostgreSQL driver, also provides the TEXT[] array type

	"github.com/BotAlchemist/psy-tutor/internal/services/cache"
)

// DB wraps the sqlx database connection with our application-specific methods.
// Go Pattern: Embedding (*sqlx.DB) gives us all of sqlx's methods automatically,
// plus we can add our own. This is Go's version of inheritance — composition.
type DB struct {
	*sqlx.DB
}

// Compile-time check that DB can back the page cache.
var _ cache.Store = (*DB)(nil)

// PageExtraction is one stored version of a chapter's pages.
type PageExtraction struct {
	Path      string         `db:"path"`
	MtimeNS   int64          `db:"mtime_ns"`
	Pages     pq.StringArray `db:"pages"`
	PageCount int            `db:"page_count"`
	CreatedAt time.Time      `db:"created_at"`
}

// New creates a new database connection with connection pooling configured.
func New(databaseURL string) (*DB, error) {
	// sqlx.Connect both opens the connection and pings the database
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// A single tutor instance issues few, small queries.
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(time.Minute)

	return &DB{db}, nil
}

// HealthCheck verifies the database connection is alive.
func (db *DB) HealthCheck(ctx context.Context) error {
	return db.PingContext(ctx)
}

// GetPages returns the stored pages for one (path, mtime) version.
func (db *DB) GetPages(ctx context.Context, key cache.Key) ([]string, bool, error) {
	var pe PageExtraction
	err := db.GetContext(ctx, &pe,
		`SELECT path, mtime_ns, pages, page_count, created_at
		 FROM page_extractions WHERE path = $1 AND mtime_ns = $2`,
		key.Path, key.ModTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load pages: %w", err)
	}

	pages := []string(pe.Pages)
	if pages == nil {
		pages = []string{}
	}
	return pages, true, nil
}

// PutPages stores pages for key and drops older versions of the same path.
func (db *DB) PutPages(ctx context.Context, key cache.Key, pages []string) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	// Go Pattern: Rollback after Commit is a no-op, so deferring it is safe.
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM page_extractions WHERE path = $1 AND mtime_ns <> $2`,
		key.Path, key.ModTime); err != nil {
		return fmt.Errorf("failed to evict stale pages: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO page_extractions (path, mtime_ns, pages, page_count)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (path, mtime_ns) DO UPDATE
		SET pages = EXCLUDED.pages, page_count = EXCLUDED.page_count`,
		key.Path, key.ModTime, pq.StringArray(pages), len(pages)); err != nil {
		return fmt.Errorf("failed to save pages: %w", err)
	}

	return tx.Commit()
}

// CountExtractions returns how many chapter versions are stored.
func (db *DB) CountExtractions(ctx context.Context) (int, error) {
	var n int
	err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM page_extractions`)
	return n, err
}
