// migrate.go handles database migration using golang-migrate.
//
// Migrations are SQL files in the migrations/ directory, embedded into the
// binary. Each migration has an "up" (apply) and "down" (rollback) file. The
// migrate library tracks which migrations have been applied in a
// schema_migrations table.
package database

import (
	"embed"
	"errors"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations applies all pending database migrations.
// This is called at application startup to ensure the schema is up to date.
func (db *DB) RunMigrations() error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	// Create a postgres driver instance for golang-migrate
	driver, err := postgres.WithInstance(db.DB.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	// Run all pending migrations
	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		log.Println("📦 Database: no new migrations to apply")
	} else {
		version, dirty, _ := m.Version()
		log.Printf("📦 Database: migrated to version %d (dirty: %v)", version, dirty)
	}

	return nil
}
