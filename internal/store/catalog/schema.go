package catalog

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS authors (
		id   BIGSERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_authors_name ON authors (name)`,
	`CREATE TABLE IF NOT EXISTS books (
		id               BIGSERIAL PRIMARY KEY,
		title            VARCHAR(200) NOT NULL,
		publication_year INTEGER NOT NULL,
		author_id        BIGINT NOT NULL REFERENCES authors(id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_books_title ON books (title)`,
	`CREATE INDEX IF NOT EXISTS idx_books_publication_year ON books (publication_year)`,
	`CREATE INDEX IF NOT EXISTS idx_books_author_year ON books (author_id, publication_year)`,
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		username      TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		token_version INTEGER NOT NULL DEFAULT 1
	)`,
}

// Migrate creates the catalog tables and indexes if they do not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
