package query

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/5w1tchy/catalog-api/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type filterParam struct {
	name  string
	field Field
	op    Op
}

// Evaluated in this order so the produced predicates are deterministic.
// The short names are aliases kept for older clients.
var filterParams = []filterParam{
	{"title", FieldTitle, OpExact},
	{"title__icontains", FieldTitle, OpIContains},
	{"author__name", FieldAuthorName, OpExact},
	{"author__name__icontains", FieldAuthorName, OpIContains},
	{"publication_year", FieldPublicationYear, OpExact},
	{"publication_year__gte", FieldPublicationYear, OpGTE},
	{"publication_year__lte", FieldPublicationYear, OpLTE},
	{"title_contains", FieldTitle, OpIContains},
	{"author_name_contains", FieldAuthorName, OpIContains},
	{"year_min", FieldPublicationYear, OpGTE},
	{"year_max", FieldPublicationYear, OpLTE},
}

func parseFilters(values url.Values) ([]Predicate, error) {
	var out []Predicate
	for _, fp := range filterParams {
		raw := values.Get(fp.name)
		if raw == "" {
			continue
		}
		p, err := fp.build(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (fp filterParam) build(raw string) (Predicate, error) {
	if fp.field != FieldPublicationYear {
		return Predicate{Field: fp.field, Op: fp.op, Text: raw}, nil
	}
	// publication_year is an INTEGER column; wider values cannot be bound.
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		return Predicate{}, &ParamError{Param: fp.name, Message: "enter a whole number"}
	}
	return Predicate{Field: fp.field, Op: fp.op, Num: int(n)}, nil
}

// Match evaluates p against b.
func (p Predicate) Match(b models.Book) bool {
	switch p.Field {
	case FieldTitle:
		return matchText(p.Op, b.Title, p.Text)
	case FieldAuthorName:
		return matchText(p.Op, b.AuthorName, p.Text)
	case FieldPublicationYear:
		switch p.Op {
		case OpExact:
			return b.PublicationYear == p.Num
		case OpGTE:
			return b.PublicationYear >= p.Num
		case OpLTE:
			return b.PublicationYear <= p.Num
		}
	}
	return false
}

func matchText(op Op, value, want string) bool {
	switch op {
	case OpExact:
		return value == want
	case OpIContains:
		return containsFold(value, want)
	}
	return false
}

// containsFold is a case-insensitive substring test over lowercased text,
// the same comparison ILIKE makes; ß does not match ss. A Caser is not safe
// for concurrent use, so each call builds its own.
func containsFold(s, sub string) bool {
	lower := cases.Lower(language.Und)
	return strings.Contains(lower.String(s), lower.String(sub))
}
