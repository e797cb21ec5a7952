package query

import (
	"sort"
	"strconv"
	"strings"

	"github.com/5w1tchy/catalog-api/internal/models"
	"golang.org/x/text/cases"
)

const ParamOrdering = "ordering"

var orderingFields = map[string]Field{
	"title":            FieldTitle,
	"publication_year": FieldPublicationYear,
	"author.name":      FieldAuthorName,
	"author__name":     FieldAuthorName,
}

func defaultOrder() []SortKey {
	return []SortKey{{Field: FieldTitle}}
}

func parseOrdering(raw string) ([]SortKey, error) {
	var keys []SortKey
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		desc := strings.HasPrefix(item, "-")
		name := strings.TrimPrefix(item, "-")
		f, ok := orderingFields[name]
		if !ok {
			return nil, &ParamError{Param: ParamOrdering, Message: "unknown field " + strconv.Quote(name)}
		}
		keys = append(keys, SortKey{Field: f, Desc: desc})
	}
	if len(keys) == 0 {
		return defaultOrder(), nil
	}
	return keys, nil
}

// Sort orders books in place by q.Order. The sort is stable.
func (q Query) Sort(books []models.Book) {
	order := q.Order
	if len(order) == 0 {
		order = defaultOrder()
	}
	fold := cases.Fold()
	keys := make(map[int64][2]string, len(books))
	for _, b := range books {
		keys[b.ID] = [2]string{fold.String(b.Title), fold.String(b.AuthorName)}
	}
	sort.SliceStable(books, func(i, j int) bool {
		for _, k := range order {
			c := compare(k.Field, books[i], books[j], keys)
			if c == 0 {
				continue
			}
			if k.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

// Text compares case-folded first, then raw, so the order is total.
func compare(f Field, a, b models.Book, folded map[int64][2]string) int {
	switch f {
	case FieldTitle:
		if c := strings.Compare(folded[a.ID][0], folded[b.ID][0]); c != 0 {
			return c
		}
		return strings.Compare(a.Title, b.Title)
	case FieldAuthorName:
		if c := strings.Compare(folded[a.ID][1], folded[b.ID][1]); c != 0 {
			return c
		}
		return strings.Compare(a.AuthorName, b.AuthorName)
	case FieldPublicationYear:
		switch {
		case a.PublicationYear < b.PublicationYear:
			return -1
		case a.PublicationYear > b.PublicationYear:
			return 1
		}
	}
	return 0
}
