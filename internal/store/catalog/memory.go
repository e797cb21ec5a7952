package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/5w1tchy/catalog-api/internal/models"
	"github.com/5w1tchy/catalog-api/internal/query"
)

type memBook struct {
	title    string
	year     int
	authorID int64
}

// MemStore keeps the catalog in process memory. Each write runs under the
// write lock, so a partially applied update is never observable.
type MemStore struct {
	mu         sync.RWMutex
	authors    map[int64]string
	books      map[int64]memBook
	nextAuthor int64
	nextBook   int64
}

func NewMemory() *MemStore {
	return &MemStore{
		authors: make(map[int64]string),
		books:   make(map[int64]memBook),
	}
}

func (s *MemStore) Ping(context.Context) error { return nil }

// join must be called with the lock held.
func (s *MemStore) join(id int64, b memBook) models.Book {
	return models.Book{
		ID:              id,
		Title:           b.title,
		PublicationYear: b.year,
		AuthorID:        b.authorID,
		AuthorName:      s.authors[b.authorID],
	}
}

func (s *MemStore) GetBook(_ context.Context, id int64) (models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.books[id]
	if !ok {
		return models.Book{}, ErrNotFound
	}
	return s.join(id, b), nil
}

func (s *MemStore) ListBooks(_ context.Context, q query.Query) ([]models.Book, error) {
	s.mu.RLock()
	all := make([]models.Book, 0, len(s.books))
	for id, b := range s.books {
		all = append(all, s.join(id, b))
	}
	s.mu.RUnlock()
	return q.Apply(all), nil
}

func (s *MemStore) CreateBook(_ context.Context, in BookInput) (models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.authors[in.AuthorID]; !ok {
		return models.Book{}, ErrAuthorMissing
	}
	s.nextBook++
	b := memBook{title: in.Title, year: in.PublicationYear, authorID: in.AuthorID}
	s.books[s.nextBook] = b
	return s.join(s.nextBook, b), nil
}

func (s *MemStore) UpdateBook(_ context.Context, id int64, p BookPatch) (models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[id]
	if !ok {
		return models.Book{}, ErrNotFound
	}
	if p.AuthorID != nil {
		if _, ok := s.authors[*p.AuthorID]; !ok {
			return models.Book{}, ErrAuthorMissing
		}
		b.authorID = *p.AuthorID
	}
	if p.Title != nil {
		b.title = *p.Title
	}
	if p.PublicationYear != nil {
		b.year = *p.PublicationYear
	}
	s.books[id] = b
	return s.join(id, b), nil
}

func (s *MemStore) DeleteBook(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.books[id]; !ok {
		return ErrNotFound
	}
	delete(s.books, id)
	return nil
}

func (s *MemStore) CountBooks(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.books), nil
}

func (s *MemStore) ListAuthors(context.Context) ([]models.Author, error) {
	s.mu.RLock()
	counts := make(map[int64]int, len(s.authors))
	for _, b := range s.books {
		counts[b.authorID]++
	}
	out := make([]models.Author, 0, len(s.authors))
	for id, name := range s.authors {
		out = append(out, models.Author{ID: id, Name: name, BookCount: counts[id]})
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemStore) AllAuthors(context.Context) ([]models.Author, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Author, 0, len(s.authors))
	for id := range s.authors {
		a, err := s.author(id)
		if err != nil {
			return nil, err
		}
		if a.Books == nil {
			a.Books = []models.Book{}
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// author must be called with the lock held.
func (s *MemStore) author(id int64) (models.Author, error) {
	name, ok := s.authors[id]
	if !ok {
		return models.Author{}, ErrNotFound
	}
	var books []models.Book
	for bid, b := range s.books {
		if b.authorID == id {
			books = append(books, s.join(bid, b))
		}
	}
	books = query.Default().Apply(books)
	return models.Author{ID: id, Name: name, BookCount: len(books), Books: books}, nil
}

func (s *MemStore) GetAuthor(_ context.Context, id int64) (models.Author, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.author(id)
}

func (s *MemStore) CreateAuthor(_ context.Context, name string) (models.Author, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextAuthor++
	s.authors[s.nextAuthor] = name
	return models.Author{ID: s.nextAuthor, Name: name, Books: []models.Book{}}, nil
}

func (s *MemStore) UpdateAuthor(_ context.Context, id int64, name string) (models.Author, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.authors[id]; !ok {
		return models.Author{}, ErrNotFound
	}
	s.authors[id] = name
	return s.author(id)
}

func (s *MemStore) DeleteAuthor(_ context.Context, id int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.authors[id]; !ok {
		return 0, ErrNotFound
	}
	removed := 0
	for bid, b := range s.books {
		if b.authorID == id {
			delete(s.books, bid)
			removed++
		}
	}
	delete(s.authors, id)
	return removed, nil
}

func (s *MemStore) CountAuthors(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.authors), nil
}
