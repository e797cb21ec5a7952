package validate

import (
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

var ErrInvalid = errors.New("invalid")

const (
	TitleMin      = 3
	TitleMax      = 200
	AuthorNameMax = 100
)

// FieldError is one field-level validation failure.
type FieldError struct {
	Field   string
	Code    string // "required", "blank", "min_length", "max_length", "max_value", "invalid", "does_not_exist"
	Message string
}

// Errors collects field errors; the first failure per field wins.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return strings.Join(parts, "; ")
}

func (e Errors) Unwrap() error { return ErrInvalid }

func (e *Errors) Add(field, code, msg string) {
	for _, fe := range *e {
		if fe.Field == field {
			return
		}
	}
	*e = append(*e, FieldError{Field: field, Code: code, Message: msg})
}

// Merge adds the field errors carried by err, if any.
func (e *Errors) Merge(err error) {
	var other Errors
	if errors.As(err, &other) {
		for _, fe := range other {
			e.Add(fe.Field, fe.Code, fe.Message)
		}
	}
}

// Err returns e as an error, or nil when empty.
func (e Errors) Err() error { return e.orNil() }

func (e Errors) orNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// RequireBounded trims and ensures rune-length bounds.
func RequireBounded(name, s string, min, max int) (string, error) {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) < min || utf8.RuneCountInString(s) > max {
		return "", errors.New(name + " must be between " + strconv.Itoa(min) + " and " + strconv.Itoa(max) + " characters")
	}
	return s, nil
}

// BookFields holds the writable book fields as supplied by a caller; nil
// means "not supplied".
type BookFields struct {
	Title           *string
	PublicationYear *int
	Author          *int64
}

// Book validates the supplied fields. With requireAll every field must be
// present (create, full update); otherwise only supplied fields are checked.
// Title is trimmed in place. now supplies the current year.
func Book(f *BookFields, requireAll bool, now time.Time) error {
	var errs Errors

	if f.Title == nil {
		if requireAll {
			errs.Add("title", "required", "This field is required.")
		}
	} else {
		t := strings.TrimSpace(*f.Title)
		f.Title = &t
		switch n := utf8.RuneCountInString(t); {
		case n == 0:
			errs.Add("title", "blank", "This field may not be blank.")
		case n < TitleMin:
			errs.Add("title", "min_length", "Title must be at least 3 characters long.")
		case n > TitleMax:
			errs.Add("title", "max_length", "Ensure this field has no more than 200 characters.")
		}
	}

	if f.PublicationYear == nil {
		if requireAll {
			errs.Add("publication_year", "required", "This field is required.")
		}
	} else if y, cur := *f.PublicationYear, now.Year(); y > cur {
		errs.Add("publication_year", "max_value",
			"Publication year cannot be in the future. Current year is "+strconv.Itoa(cur)+".")
	}

	if f.Author == nil {
		if requireAll {
			errs.Add("author", "required", "This field is required.")
		}
	} else if *f.Author < 1 {
		errs.Add("author", "does_not_exist", "Invalid pk \""+strconv.FormatInt(*f.Author, 10)+"\" - object does not exist.")
	}

	return errs.orNil()
}

// AuthorMissing is the error reported when a book references an unknown author.
func AuthorMissing(id int64) error {
	return Errors{{Field: "author", Code: "does_not_exist",
		Message: "Invalid pk \"" + strconv.FormatInt(id, 10) + "\" - object does not exist."}}
}

// AuthorName validates and trims an author name. A nil name is only an
// error when required.
func AuthorName(name *string, required bool) error {
	var errs Errors
	if name == nil {
		if required {
			errs.Add("name", "required", "This field is required.")
		}
		return errs.orNil()
	}
	t := strings.TrimSpace(*name)
	*name = t
	switch n := utf8.RuneCountInString(t); {
	case n == 0:
		errs.Add("name", "blank", "This field may not be blank.")
	case n > AuthorNameMax:
		errs.Add("name", "max_length", "Ensure this field has no more than 100 characters.")
	}
	return errs.orNil()
}
