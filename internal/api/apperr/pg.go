package apperr

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Constraint names as generated by the catalog schema.
var constraintField = map[string]string{
	"books_author_id_fkey": "author",
	"users_username_key":   "username",
}

// Guess a field from a column name present in PG error detail
func fieldFromDetail(detail string) string {
	for col, field := range map[string]string{
		"author_id":        "author",
		"publication_year": "publication_year",
		"title":            "title",
		"username":         "username",
		"name":             "name",
	} {
		if strings.Contains(detail, "("+col+")") {
			return field
		}
	}
	return ""
}

// FromPG maps a pgconn.PgError to a Problem. Returns (Problem, true) if mapped.
func FromPG(err error) (Problem, bool) {
	var pg *pgconn.PgError
	if !errors.As(err, &pg) {
		return Problem{}, false
	}

	p := Problem{Title: "Database error", Status: http.StatusInternalServerError}

	field := constraintField[pg.ConstraintName]
	if field == "" && pg.Detail != "" {
		field = fieldFromDetail(pg.Detail)
	}
	if field == "" && pg.ColumnName != "" {
		field = pg.ColumnName
	}
	fieldErr := func(def, code, msg string) {
		if field == "" {
			field = def
		}
		p.FieldErrors = []FieldError{{Field: field, Code: code, Message: msg}}
	}

	switch pg.Code {
	case "23505": // unique_violation
		p.Status, p.Title = http.StatusConflict, "Conflict"
		fieldErr("resource", "unique", "value already exists")
	case "23503": // foreign_key_violation
		p.Status, p.Title = http.StatusBadRequest, "Validation failed"
		fieldErr("resource", "does_not_exist", "referenced object does not exist")
	case "23502": // not_null_violation
		p.Status, p.Title = http.StatusBadRequest, "Validation failed"
		fieldErr("field", "required", "This field is required.")
	case "23514": // check_violation
		p.Status, p.Title = http.StatusBadRequest, "Validation failed"
		fieldErr("field", "invalid", "constraint failed")
	case "22001": // string_data_right_truncation
		p.Status, p.Title = http.StatusBadRequest, "Validation failed"
		fieldErr("field", "max_length", "value is too long")
	case "40001": // serialization_failure
		p.Status, p.Title = http.StatusConflict, "Conflict"
		p.Detail = "transaction conflict, please retry"
		p.Retryable = true
	case "40P01": // deadlock_detected
		p.Status, p.Title = http.StatusConflict, "Conflict"
		p.Detail = "deadlock detected, please retry"
		p.Retryable = true
	}

	return p, true
}
