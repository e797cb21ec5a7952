package books

import (
	"encoding/json"
	"math"

	"github.com/5w1tchy/catalog-api/internal/api/handlers"
	"github.com/5w1tchy/catalog-api/internal/store/catalog"
	"github.com/5w1tchy/catalog-api/internal/validate"
)

var (
	writableFields = []string{"title", "publication_year", "author"}
	readOnlyFields = []string{"id", "author_name"}
)

// bookRequest is a decoded create or update body. Nil fields were not sent.
type bookRequest struct {
	validate.BookFields
}

// parseBookRequest decodes the body fields and runs book validation on
// them. With full set every field is required.
func parseBookRequest(fields map[string]json.RawMessage, full bool, h *Handler) (bookRequest, error) {
	var errs validate.Errors
	var req bookRequest

	req.Title = handlers.String(fields, "title", &errs)
	if y := handlers.Int(fields, "publication_year", &errs); y != nil {
		if *y < math.MinInt32 || *y > math.MaxInt32 {
			errs.Add("publication_year", "invalid", "A valid integer is required.")
		} else {
			year := int(*y)
			req.PublicationYear = &year
		}
	}
	req.Author = handlers.Int(fields, "author", &errs)

	errs.Merge(validate.Book(&req.BookFields, full, h.Now()))
	return req, errs.Err()
}

func (r bookRequest) input() catalog.BookInput {
	return catalog.BookInput{Title: *r.Title, PublicationYear: *r.PublicationYear, AuthorID: *r.Author}
}

func (r bookRequest) patch() catalog.BookPatch {
	return catalog.BookPatch{Title: r.Title, PublicationYear: r.PublicationYear, AuthorID: r.Author}
}
