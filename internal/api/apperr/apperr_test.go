package apperr_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/5w1tchy/catalog-api/internal/api/apperr"
	"github.com/5w1tchy/catalog-api/internal/query"
	"github.com/5w1tchy/catalog-api/internal/validate"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rr *httptest.ResponseRecorder) apperr.Problem {
	t.Helper()
	var p apperr.Problem
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&p))
	return p
}

func TestHandle_ValidationErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/books/create/", nil)
	req.Header.Set("X-Request-ID", "rid-1")
	rr := httptest.NewRecorder()

	err := fmt.Errorf("create: %w", validate.Errors{{Field: "title", Code: "min_length", Message: "too short"}})
	assert.True(t, apperr.Handle(rr, req, err))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))
	p := decode(t, rr)
	assert.Equal(t, "rid-1", p.RequestID)
	assert.Equal(t, "/books/create/", p.Instance)
	require.Len(t, p.FieldErrors, 1)
	assert.Equal(t, "title", p.FieldErrors[0].Field)
	assert.Equal(t, "min_length", p.FieldErrors[0].Code)
}

func TestHandle_ParamError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/books/", nil)
	rr := httptest.NewRecorder()

	apperr.Handle(rr, req, &query.ParamError{Param: "ordering", Message: "unknown field"})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	p := decode(t, rr)
	require.Len(t, p.FieldErrors, 1)
	assert.Equal(t, "ordering", p.FieldErrors[0].Field)
}

func TestHandle_UnknownErrorIsOpaque500(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/books/", nil)
	rr := httptest.NewRecorder()

	apperr.Handle(rr, req, errors.New("dial tcp 10.0.0.1:5432: secret detail"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "secret detail")
}

func TestHandle_Nil(t *testing.T) {
	rr := httptest.NewRecorder()
	assert.False(t, apperr.Handle(rr, httptest.NewRequest(http.MethodGet, "/", nil), nil))
	assert.Equal(t, 0, rr.Body.Len())
}

func TestFromPG(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		field  string
	}{
		{"fk on author", &pgconn.PgError{Code: "23503", ConstraintName: "books_author_id_fkey"}, 400, "author"},
		{"fk from detail", &pgconn.PgError{Code: "23503", Detail: `Key (author_id)=(9) is not present in table "authors".`}, 400, "author"},
		{"not null column", &pgconn.PgError{Code: "23502", ColumnName: "title"}, 400, "title"},
		{"unique username", &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}, 409, "username"},
		{"too long", &pgconn.PgError{Code: "22001"}, 400, "field"},
		{"serialization", &pgconn.PgError{Code: "40001"}, 409, ""},
		{"other", &pgconn.PgError{Code: "XX000", Message: "internal"}, 500, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, ok := apperr.FromPG(fmt.Errorf("wrapped: %w", tc.err))
			require.True(t, ok)
			assert.Equal(t, tc.status, p.Status)
			if tc.field == "" {
				assert.Empty(t, p.FieldErrors)
				return
			}
			require.Len(t, p.FieldErrors, 1)
			assert.Equal(t, tc.field, p.FieldErrors[0].Field)
		})
	}

	_, ok := apperr.FromPG(errors.New("plain"))
	assert.False(t, ok)
}
