// Package query turns list-request query parameters into a typed Query
// (filters, free-text search, ordering) and evaluates it over in-memory books.
// SQL backends compile the same Query into WHERE/ORDER BY clauses.
package query

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/5w1tchy/catalog-api/internal/models"
)

type Field int

const (
	FieldTitle Field = iota + 1
	FieldAuthorName
	FieldPublicationYear
)

func (f Field) String() string {
	switch f {
	case FieldTitle:
		return "title"
	case FieldAuthorName:
		return "author.name"
	case FieldPublicationYear:
		return "publication_year"
	}
	return "field(" + strconv.Itoa(int(f)) + ")"
}

type Op int

const (
	OpExact Op = iota + 1
	OpIContains
	OpGTE
	OpLTE
)

func (o Op) String() string {
	switch o {
	case OpExact:
		return "exact"
	case OpIContains:
		return "icontains"
	case OpGTE:
		return "gte"
	case OpLTE:
		return "lte"
	}
	return "op(" + strconv.Itoa(int(o)) + ")"
}

// Predicate is one boolean test over a book. Text is used by text fields,
// Num by publication_year.
type Predicate struct {
	Field Field
	Op    Op
	Text  string
	Num   int
}

type SortKey struct {
	Field Field
	Desc  bool
}

// Query is the parsed form of a list request. Filters are ANDed; Search is
// ANDed with them; Order is never empty once parsed.
type Query struct {
	Filters []Predicate
	Search  string
	Order   []SortKey
}

// ParamError reports a query parameter whose value cannot be used.
type ParamError struct {
	Param   string
	Message string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Param, e.Message)
}

// Default is the unfiltered listing in default order.
func Default() Query {
	return Query{Order: defaultOrder()}
}

// Parse runs the filter, search and ordering stages' parameter parsing in
// that order and returns the first error encountered.
func Parse(values url.Values) (Query, error) {
	filters, err := parseFilters(values)
	if err != nil {
		return Query{}, err
	}
	order, err := parseOrdering(values.Get(ParamOrdering))
	if err != nil {
		return Query{}, err
	}
	return Query{
		Filters: filters,
		Search:  parseSearch(values.Get(ParamSearch)),
		Order:   order,
	}, nil
}

// Params lists every query parameter name the list endpoint understands.
func Params() []string {
	out := make([]string, 0, len(filterParams)+2)
	for _, p := range filterParams {
		out = append(out, p.name)
	}
	return append(out, ParamSearch, ParamOrdering)
}

// Canonical renders q deterministically; equal queries render equal strings.
func (q Query) Canonical() string {
	var b strings.Builder
	for _, p := range q.Filters {
		b.WriteString("f:")
		b.WriteString(p.Field.String())
		b.WriteByte(':')
		b.WriteString(p.Op.String())
		b.WriteByte('=')
		if p.Field == FieldPublicationYear {
			b.WriteString(strconv.Itoa(p.Num))
		} else {
			b.WriteString(strconv.Quote(p.Text))
		}
		b.WriteByte(';')
	}
	if q.Search != "" {
		b.WriteString("s=")
		b.WriteString(strconv.Quote(q.Search))
		b.WriteByte(';')
	}
	b.WriteString("o=")
	for i, k := range q.Order {
		if i > 0 {
			b.WriteByte(',')
		}
		if k.Desc {
			b.WriteByte('-')
		}
		b.WriteString(k.Field.String())
	}
	return b.String()
}

// Apply filters, searches and orders books. The input is not modified.
// Books are first put in ascending id order so that ties keep insertion order.
func (q Query) Apply(books []models.Book) []models.Book {
	out := make([]models.Book, 0, len(books))
	for _, b := range books {
		if q.Match(b) {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	q.Sort(out)
	return out
}

// Match reports whether b passes every filter and the search term.
func (q Query) Match(b models.Book) bool {
	for _, p := range q.Filters {
		if !p.Match(b) {
			return false
		}
	}
	return matchSearch(q.Search, b)
}
