package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/5w1tchy/catalog-api/internal/models"
	"github.com/5w1tchy/catalog-api/internal/store/dbx"
)

func (s *PGStore) ListAuthors(ctx context.Context) ([]models.Author, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.name, COUNT(b.id) AS book_count
		FROM authors a
		LEFT JOIN books b ON b.author_id = a.id
		GROUP BY a.id, a.name
		ORDER BY a.name ASC, a.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	defer rows.Close()

	out := []models.Author{}
	for rows.Next() {
		var a models.Author
		if err := rows.Scan(&a.ID, &a.Name, &a.BookCount); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func getAuthor(ctx context.Context, db dbx.DBTX, id int64) (models.Author, error) {
	var a models.Author
	err := db.QueryRowContext(ctx, `SELECT id, name FROM authors WHERE id = $1`, id).Scan(&a.ID, &a.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Author{}, ErrNotFound
	}
	if err != nil {
		return models.Author{}, err
	}
	a.Books, err = queryBooks(ctx, db, selectBooks+"WHERE b.author_id = $1\nORDER BY b.title ASC, b.id ASC", id)
	if err != nil {
		return models.Author{}, err
	}
	a.BookCount = len(a.Books)
	return a, nil
}

func (s *PGStore) GetAuthor(ctx context.Context, id int64) (models.Author, error) {
	return getAuthor(ctx, s.db, id)
}

func (s *PGStore) CreateAuthor(ctx context.Context, name string) (models.Author, error) {
	a := models.Author{Name: name, Books: []models.Book{}}
	err := s.db.QueryRowContext(ctx, `INSERT INTO authors (name) VALUES ($1) RETURNING id`, name).Scan(&a.ID)
	return a, err
}

func (s *PGStore) UpdateAuthor(ctx context.Context, id int64, name string) (models.Author, error) {
	var out models.Author
	err := dbx.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE authors SET name = $1 WHERE id = $2`, name, id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		out, err = getAuthor(ctx, tx, id)
		return err
	})
	return out, err
}

// DeleteAuthor relies on ON DELETE CASCADE for the books.
func (s *PGStore) DeleteAuthor(ctx context.Context, id int64) (int, error) {
	var removed int
	err := dbx.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM books WHERE author_id = $1`, id).Scan(&removed); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM authors WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func (s *PGStore) CountAuthors(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM authors`).Scan(&n)
	return n, err
}

func (s *PGStore) AllAuthors(ctx context.Context) ([]models.Author, error) {
	var out []models.Author
	err := dbx.WithinSnapshot(ctx, s.db, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `SELECT id, name FROM authors ORDER BY name ASC, id ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = []models.Author{}
		index := map[int64]int{}
		for rows.Next() {
			a := models.Author{Books: []models.Book{}}
			if err := rows.Scan(&a.ID, &a.Name); err != nil {
				return err
			}
			index[a.ID] = len(out)
			out = append(out, a)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		books, err := queryBooks(ctx, tx, selectBooks+"ORDER BY b.title ASC, b.id ASC")
		if err != nil {
			return err
		}
		for _, b := range books {
			i, ok := index[b.AuthorID]
			if !ok {
				continue
			}
			out[i].Books = append(out[i].Books, b)
			out[i].BookCount++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("all authors: %w", err)
	}
	return out, nil
}
