// Package catalog is the entity store for authors and books. Two backends
// implement Store: PGStore (Postgres via database/sql) and MemStore.
// Both delete an author's books together with the author.
package catalog

import (
	"context"
	"errors"

	"github.com/5w1tchy/catalog-api/internal/models"
	"github.com/5w1tchy/catalog-api/internal/query"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAuthorMissing = errors.New("author does not exist")
)

type BookInput struct {
	Title           string
	PublicationYear int
	AuthorID        int64
}

// BookPatch carries the fields to change; nil fields are left untouched.
type BookPatch struct {
	Title           *string
	PublicationYear *int
	AuthorID        *int64
}

type BookStore interface {
	GetBook(ctx context.Context, id int64) (models.Book, error)
	ListBooks(ctx context.Context, q query.Query) ([]models.Book, error)
	CreateBook(ctx context.Context, in BookInput) (models.Book, error)
	UpdateBook(ctx context.Context, id int64, p BookPatch) (models.Book, error)
	DeleteBook(ctx context.Context, id int64) error
	CountBooks(ctx context.Context) (int, error)
}

type AuthorStore interface {
	ListAuthors(ctx context.Context) ([]models.Author, error)
	// GetAuthor returns the author with Books populated (title order).
	GetAuthor(ctx context.Context, id int64) (models.Author, error)
	CreateAuthor(ctx context.Context, name string) (models.Author, error)
	UpdateAuthor(ctx context.Context, id int64, name string) (models.Author, error)
	// DeleteAuthor removes the author and its books, returning how many
	// books went with it.
	DeleteAuthor(ctx context.Context, id int64) (int, error)
	CountAuthors(ctx context.Context) (int, error)
	// AllAuthors returns every author with Books populated, read from one
	// consistent view of the catalog.
	AllAuthors(ctx context.Context) ([]models.Author, error)
}

type Store interface {
	BookStore
	AuthorStore
	Ping(ctx context.Context) error
}

var (
	_ Store = (*PGStore)(nil)
	_ Store = (*MemStore)(nil)
)
