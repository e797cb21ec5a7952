package apperr

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/5w1tchy/catalog-api/internal/query"
	"github.com/5w1tchy/catalog-api/internal/validate"
)

type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`    // e.g. "required", "min_length", "max_value", "invalid", "does_not_exist"
	Message string `json:"message"` // human readable
}

type Problem struct {
	Type        string       `json:"type,omitempty"`   // RFC7807 type URI
	Title       string       `json:"title"`            // short summary
	Status      int          `json:"status"`           // HTTP status code
	Detail      string       `json:"detail,omitempty"` // human details
	Instance    string       `json:"instance,omitempty"`
	RequestID   string       `json:"request_id,omitempty"`
	FieldErrors []FieldError `json:"field_errors,omitempty"`
	Retryable   bool         `json:"retryable,omitempty"`
}

func Write(w http.ResponseWriter, r *http.Request, p Problem) {
	if p.Status == 0 {
		p.Status = http.StatusInternalServerError
	}
	if p.Instance == "" && r != nil {
		p.Instance = r.URL.Path
	}
	if p.RequestID == "" && r != nil {
		if rid := r.Header.Get("X-Request-ID"); rid != "" {
			p.RequestID = rid
		}
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// Convenience: fast write with just status+title+detail
func WriteStatus(w http.ResponseWriter, r *http.Request, status int, title, detail string) {
	Write(w, r, Problem{Status: status, Title: title, Detail: detail})
}

func NotFound(w http.ResponseWriter, r *http.Request) {
	WriteStatus(w, r, http.StatusNotFound, "Not Found", "No object matches the given query.")
}

func Forbidden(w http.ResponseWriter, r *http.Request) {
	WriteStatus(w, r, http.StatusForbidden, "Forbidden", "Authentication credentials were not provided.")
}

func BadRequest(w http.ResponseWriter, r *http.Request, detail string) {
	WriteStatus(w, r, http.StatusBadRequest, "Bad Request", detail)
}

// Internal logs err with the request id and writes a bare 500.
func Internal(w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("[ERROR] RequestID=%s %s %s: %v", r.Header.Get("X-Request-ID"), r.Method, r.URL.Path, err)
	Write(w, r, Problem{Status: http.StatusInternalServerError, Title: "Internal Server Error"})
}

// FromValidation converts validate.Errors or a *query.ParamError into a 400
// Problem. ok is false for any other error.
func FromValidation(err error) (Problem, bool) {
	var fes validate.Errors
	if errors.As(err, &fes) {
		p := Problem{Status: http.StatusBadRequest, Title: "Validation failed"}
		for _, fe := range fes {
			p.FieldErrors = append(p.FieldErrors, FieldError{Field: fe.Field, Code: fe.Code, Message: fe.Message})
		}
		return p, true
	}
	var pe *query.ParamError
	if errors.As(err, &pe) {
		return Problem{
			Status:      http.StatusBadRequest,
			Title:       "Invalid query parameter",
			FieldErrors: []FieldError{{Field: pe.Param, Code: "invalid", Message: pe.Message}},
		}, true
	}
	return Problem{}, false
}

// Handle writes the Problem matching err: validation, then Postgres, then a
// logged 500. Returns false only for a nil error.
func Handle(w http.ResponseWriter, r *http.Request, err error) bool {
	if err == nil {
		return false
	}
	if p, ok := FromValidation(err); ok {
		Write(w, r, p)
		return true
	}
	if p, ok := FromPG(err); ok {
		if p.Status >= 500 {
			log.Printf("[ERROR] RequestID=%s postgres: %v", r.Header.Get("X-Request-ID"), err)
		}
		Write(w, r, p)
		return true
	}
	Internal(w, r, err)
	return true
}
