package catalog

import (
	"strconv"
	"strings"

	"github.com/5w1tchy/catalog-api/internal/query"
)

const selectBooks = `
SELECT b.id, b.title, b.publication_year, b.author_id, a.name
FROM books b
JOIN authors a ON a.id = b.author_id
`

var columns = map[query.Field]string{
	query.FieldTitle:           "b.title",
	query.FieldAuthorName:      "a.name",
	query.FieldPublicationYear: "b.publication_year",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// compileWhere turns filters and search into a WHERE clause with $n
// placeholders starting at $1.
func compileWhere(q query.Query) (string, []any) {
	var where []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	for _, p := range q.Filters {
		col := columns[p.Field]
		var val any = p.Text
		if p.Field == query.FieldPublicationYear {
			val = p.Num
		}
		switch p.Op {
		case query.OpExact:
			where = append(where, col+" = "+arg(val))
		case query.OpIContains:
			where = append(where, col+" ILIKE "+arg(containsPattern(p.Text)))
		case query.OpGTE:
			where = append(where, col+" >= "+arg(val))
		case query.OpLTE:
			where = append(where, col+" <= "+arg(val))
		}
	}

	if q.Search != "" {
		n := arg(containsPattern(q.Search))
		where = append(where, "(b.title ILIKE "+n+" OR a.name ILIKE "+n+")")
	}

	if len(where) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(where, " AND ") + "\n", args
}

// compileOrder always ends with b.id so equal rows keep insertion order.
func compileOrder(q query.Query) string {
	order := q.Order
	if len(order) == 0 {
		order = query.Default().Order
	}
	parts := make([]string, 0, len(order)+1)
	for _, k := range order {
		dir := " ASC"
		if k.Desc {
			dir = " DESC"
		}
		parts = append(parts, columns[k.Field]+dir)
	}
	parts = append(parts, "b.id ASC")
	return "ORDER BY " + strings.Join(parts, ", ")
}
