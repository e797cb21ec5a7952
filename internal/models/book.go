package models

// Book is a stored book joined with its author's name.
type Book struct {
	ID              int64
	Title           string
	PublicationYear int
	AuthorID        int64
	AuthorName      string
}

// BookView is the public JSON shape of a Book. author_name is read-only.
type BookView struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	PublicationYear int    `json:"publication_year"`
	Author          int64  `json:"author"`
	AuthorName      string `json:"author_name"`
}

func (b Book) View() BookView {
	return BookView{
		ID:              b.ID,
		Title:           b.Title,
		PublicationYear: b.PublicationYear,
		Author:          b.AuthorID,
		AuthorName:      b.AuthorName,
	}
}

func BookViews(in []Book) []BookView {
	out := make([]BookView, 0, len(in))
	for _, b := range in {
		out = append(out, b.View())
	}
	return out
}
