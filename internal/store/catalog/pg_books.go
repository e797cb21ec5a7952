package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/5w1tchy/catalog-api/internal/models"
	"github.com/5w1tchy/catalog-api/internal/query"
	"github.com/5w1tchy/catalog-api/internal/store/dbx"
	"github.com/jackc/pgx/v5/pgconn"
)

type PGStore struct {
	db *sql.DB
}

func NewPG(db *sql.DB) *PGStore { return &PGStore{db: db} }

func (s *PGStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

type scanner interface {
	Scan(dest ...any) error
}

func scanBook(row scanner) (models.Book, error) {
	var b models.Book
	err := row.Scan(&b.ID, &b.Title, &b.PublicationYear, &b.AuthorID, &b.AuthorName)
	return b, err
}

func getBook(ctx context.Context, g dbx.Getter, id int64) (models.Book, error) {
	b, err := scanBook(g.QueryRowContext(ctx, selectBooks+"WHERE b.id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Book{}, ErrNotFound
	}
	return b, err
}

func queryBooks(ctx context.Context, q dbx.Querier, stmt string, args ...any) ([]models.Book, error) {
	rows, err := q.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func authorExists(ctx context.Context, g dbx.Getter, id int64) error {
	var exists bool
	if err := g.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM authors WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrAuthorMissing
	}
	return nil
}

// mapFK turns a foreign key violation on books.author_id (an author deleted
// between the existence check and the write) into ErrAuthorMissing.
func mapFK(err error) error {
	var pg *pgconn.PgError
	if errors.As(err, &pg) && pg.Code == "23503" {
		return ErrAuthorMissing
	}
	return err
}

func (s *PGStore) GetBook(ctx context.Context, id int64) (models.Book, error) {
	return getBook(ctx, s.db, id)
}

func (s *PGStore) ListBooks(ctx context.Context, q query.Query) ([]models.Book, error) {
	where, args := compileWhere(q)
	books, err := queryBooks(ctx, s.db, selectBooks+where+compileOrder(q), args...)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

func (s *PGStore) CreateBook(ctx context.Context, in BookInput) (models.Book, error) {
	var out models.Book
	err := dbx.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := authorExists(ctx, tx, in.AuthorID); err != nil {
			return err
		}
		var id int64
		if err := tx.QueryRowContext(ctx,
			`INSERT INTO books (title, publication_year, author_id) VALUES ($1, $2, $3) RETURNING id`,
			in.Title, in.PublicationYear, in.AuthorID,
		).Scan(&id); err != nil {
			return mapFK(err)
		}
		b, err := getBook(ctx, tx, id)
		out = b
		return err
	})
	return out, err
}

func (s *PGStore) UpdateBook(ctx context.Context, id int64, p BookPatch) (models.Book, error) {
	var out models.Book
	err := dbx.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		set := []string{}
		args := []any{}
		add := func(col string, v any) {
			args = append(args, v)
			set = append(set, col+" = $"+strconv.Itoa(len(args)))
		}

		if p.Title != nil {
			add("title", *p.Title)
		}
		if p.PublicationYear != nil {
			add("publication_year", *p.PublicationYear)
		}
		if p.AuthorID != nil {
			if err := authorExists(ctx, tx, *p.AuthorID); err != nil {
				return err
			}
			add("author_id", *p.AuthorID)
		}

		if len(set) > 0 {
			args = append(args, id)
			q := "UPDATE books SET " + strings.Join(set, ", ") + " WHERE id = $" + strconv.Itoa(len(args))
			res, err := tx.ExecContext(ctx, q, args...)
			if err != nil {
				return mapFK(err)
			}
			if n, _ := res.RowsAffected(); n == 0 {
				return ErrNotFound
			}
		}

		b, err := getBook(ctx, tx, id)
		out = b
		return err
	})
	return out, err
}

func (s *PGStore) DeleteBook(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) CountBooks(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&n)
	return n, err
}
