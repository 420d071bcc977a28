package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRecordNotFound     = errors.New("record not found")
	ErrDuplicateSlug      = errors.New("slug already exists")
	ErrInvalidBoolean     = errors.New("invalid boolean")
	ErrInvalidNumber      = errors.New("invalid number")
	ErrInvalidFormat      = errors.New("invalid format")
	ErrTooManyEntries     = errors.New("too many entries")
	ErrRequiredField      = errors.New("field is required")
	ErrIncompleteRecord   = errors.New("record is incomplete")
	ErrStorageUnavailable = errors.New("storage unavailable")

	ErrInvalidID = errors.New("invalid ID")

	ErrDatabaseCredentialNotConfigured = errors.New("database credentials not configured")
	ErrMongoURINotConfigured           = errors.New("mongo URI not configured")

	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// FieldError attributes a sentinel error to a single input field.
type FieldError struct {
	Field   string
	Err     error
	Message string
}

func (e *FieldError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// ValidationErrors collects every field failure of a single payload.
type ValidationErrors []*FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap exposes every field error so errors.Is matches any sentinel kind.
func (v ValidationErrors) Unwrap() []error {
	errs := make([]error, 0, len(v))
	for _, fe := range v {
		errs = append(errs, fe)
	}
	return errs
}

// Fields returns a field -> message map suitable for API responses.
func (v ValidationErrors) Fields() map[string]string {
	out := make(map[string]string, len(v))
	for _, fe := range v {
		if _, exists := out[fe.Field]; exists {
			continue
		}
		if fe.Message != "" {
			out[fe.Field] = fe.Message
		} else {
			out[fe.Field] = fe.Err.Error()
		}
	}
	return out
}

// Has reports whether field failed with the given kind.
func (v ValidationErrors) Has(field string, kind error) bool {
	for _, fe := range v {
		if fe.Field == field && errors.Is(fe.Err, kind) {
			return true
		}
	}
	return false
}

// IncompleteRecordError is returned when a record is missing fields
// required for publication.
type IncompleteRecordError struct {
	Missing []string
}

func (e *IncompleteRecordError) Error() string {
	return fmt.Sprintf("%s: missing %s", ErrIncompleteRecord, strings.Join(e.Missing, ", "))
}

func (e *IncompleteRecordError) Unwrap() error {
	return ErrIncompleteRecord
}
