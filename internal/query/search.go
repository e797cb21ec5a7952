package query

import (
	"strings"

	"github.com/5w1tchy/catalog-api/internal/models"
)

const ParamSearch = "search"

func parseSearch(raw string) string {
	return strings.TrimSpace(raw)
}

// matchSearch: the whole term must appear in the title or the author name.
func matchSearch(term string, b models.Book) bool {
	if term == "" {
		return true
	}
	return containsFold(b.Title, term) || containsFold(b.AuthorName, term)
}
