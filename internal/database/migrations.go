// file: internal/database/migrations.go
// version: 2.0.0
// guid: 0907a5ac-52f9-4fd6-bef5-9f620821c193

package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/doug-martin/goqu/v9"
)

const tableMigrations = "schema_migrations"

// Migration represents a single schema migration of the SQL stores
type Migration struct {
	Version     int
	Description string
	Statements  []string
}

// migrations is the ordered list of all migrations. Statements must be valid
// in both the sqlite3 and postgres dialects.
var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema with books and loans",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS books (
				id TEXT PRIMARY KEY,
				title TEXT NOT NULL,
				author TEXT NOT NULL,
				isbn TEXT NOT NULL UNIQUE
			)`,
			`CREATE TABLE IF NOT EXISTS loans (
				id TEXT PRIMARY KEY,
				book_id TEXT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
				customer TEXT NOT NULL,
				loan_date DATE NOT NULL,
				returned BOOLEAN NOT NULL DEFAULT FALSE
			)`,
			`CREATE INDEX IF NOT EXISTS idx_loans_book ON loans(book_id)`,
		},
	},
	{
		Version:     2,
		Description: "Index book titles and authors for filtered listing",
		Statements: []string{
			`CREATE INDEX IF NOT EXISTS idx_books_title ON books(title)`,
			`CREATE INDEX IF NOT EXISTS idx_books_author ON books(author)`,
		},
	},
}

// currentVersion returns the highest applied migration version, or 0.
func (s *SQLStore) currentVersion(ctx context.Context) (int, error) {
	query, _, err := s.builder.From(tableMigrations).
		Select(goqu.COALESCE(goqu.MAX("version"), 0)).
		ToSQL()
	if err != nil {
		return 0, err
	}
	var version int
	if err := s.db.GetContext(ctx, &version, query); err != nil {
		return 0, err
	}
	return version, nil
}

// migrate applies all pending migrations, each in its own transaction
func (s *SQLStore) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		description TEXT NOT NULL,
		applied_at TIMESTAMP NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	current, err := s.currentVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		log.Printf("[INFO] Applying migration %d: %s", m.Version, m.Description)
		if err := s.applyMigration(ctx, m); err != nil {
			return fmt.Errorf("migration %d failed: %w", m.Version, err)
		}
	}
	return nil
}

func (s *SQLStore) applyMigration(ctx context.Context, m Migration) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range m.Statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	query, args, err := s.builder.Insert(tableMigrations).Prepared(true).
		Rows(goqu.Record{
			"version":     m.Version,
			"description": m.Description,
			"applied_at":  time.Now().UTC(),
		}).
		ToSQL()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}
	return tx.Commit()
}
