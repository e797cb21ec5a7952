package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"slices"
	"sort"
	"strings"
)

type successEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteRaw writes an already encoded JSON body.
func WriteRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func OK(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, successEnvelope{Status: "success", Data: data})
}

// List encodes a collection with its size. data must be a non-nil slice so
// an empty result renders as [].
func List(data any, count int) ([]byte, error) {
	var buf bytes.Buffer
	err := json.NewEncoder(&buf).Encode(successEnvelope{Status: "success", Count: &count, Data: data})
	return buf.Bytes(), err
}

func Created(w http.ResponseWriter, message string, data any) {
	WriteJSON(w, http.StatusCreated, successEnvelope{Status: "success", Message: message, Data: data})
}

func Updated(w http.ResponseWriter, message string, data any) {
	WriteJSON(w, http.StatusOK, successEnvelope{Status: "success", Message: message, Data: data})
}

func Deleted(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusOK, successEnvelope{Status: "success", Message: message})
}

// ErrBody reports a request body that is not a single JSON object.
var ErrBody = errors.New("request body must be a single JSON object")

// UnknownFieldsError lists body keys the endpoint does not accept.
type UnknownFieldsError struct {
	Fields []string
}

func (e *UnknownFieldsError) Error() string {
	return "unknown field(s): " + strings.Join(e.Fields, ", ")
}

// DecodeObject reads a JSON object from r's body. Keys in accepted are
// returned raw; keys in ignored are dropped; any other key is an
// *UnknownFieldsError.
func DecodeObject(r *http.Request, accepted, ignored []string) (map[string]json.RawMessage, error) {
	defer r.Body.Close()

	var raw map[string]json.RawMessage
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&raw); err != nil || raw == nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, err
		}
		return nil, ErrBody
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, ErrBody
	}

	out := make(map[string]json.RawMessage, len(raw))
	var unknown []string
	for k, v := range raw {
		switch {
		case slices.Contains(accepted, k):
			out[k] = v
		case slices.Contains(ignored, k):
		default:
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &UnknownFieldsError{Fields: unknown}
	}
	return out, nil
}
