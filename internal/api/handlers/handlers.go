// Package handlers holds the pieces shared by the catalog endpoints: the
// write capability, path id parsing and request body decoding.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/5w1tchy/catalog-api/internal/api/apperr"
	"github.com/5w1tchy/catalog-api/internal/api/httpx"
)

// AuthCheck reports whether the caller behind ctx may write.
type AuthCheck func(ctx context.Context) bool

// CanWrite writes a 403 and returns false for callers that may not write.
// It runs before the body is read.
func CanWrite(w http.ResponseWriter, r *http.Request, isAuthenticated AuthCheck) bool {
	if isAuthenticated == nil || !isAuthenticated(r.Context()) {
		apperr.Forbidden(w, r)
		return false
	}
	return true
}

// PathID parses the {id} path value. Anything but a positive integer
// answers 404, as no such record can exist.
func PathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		apperr.NotFound(w, r)
		return 0, false
	}
	return id, true
}

// WriteBodyError answers a failed httpx.DecodeObject.
func WriteBodyError(w http.ResponseWriter, r *http.Request, err error) {
	var mbe *http.MaxBytesError
	var uf *httpx.UnknownFieldsError
	switch {
	case errors.As(err, &mbe):
		apperr.WriteStatus(w, r, http.StatusRequestEntityTooLarge, "Payload Too Large",
			"request body exceeds "+strconv.FormatInt(mbe.Limit, 10)+" bytes")
	case errors.As(err, &uf):
		p := apperr.Problem{Status: http.StatusBadRequest, Title: "Validation failed"}
		for _, f := range uf.Fields {
			p.FieldErrors = append(p.FieldErrors, apperr.FieldError{Field: f, Code: "unknown", Message: "Unknown field."})
		}
		apperr.Write(w, r, p)
	default:
		apperr.BadRequest(w, r, err.Error())
	}
}
