package models

import "fmt"

// Author is a stored author. BookCount is computed at read time; Books is
// only populated by single-author reads.
type Author struct {
	ID        int64
	Name      string
	BookCount int
	Books     []Book
}

type AuthorView struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	BookCount int    `json:"book_count"`
}

type AuthorDetailView struct {
	AuthorView
	Books       []BookView `json:"books"`
	Description string     `json:"description"`
}

func (a Author) View() AuthorView {
	return AuthorView{ID: a.ID, Name: a.Name, BookCount: a.BookCount}
}

func (a Author) DetailView() AuthorDetailView {
	return AuthorDetailView{
		AuthorView:  a.View(),
		Books:       BookViews(a.Books),
		Description: fmt.Sprintf("Author %s has written %d books", a.Name, a.BookCount),
	}
}
