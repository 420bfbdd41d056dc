package domain

import "errors"

var (
	ErrListingNotFound = errors.New("listing not found")
)

// FieldError is one violated constraint on a submitted field. Validation
// reports every violation at once, not just the first.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries the full set of field violations for a request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		return "validation failed: " + e.Fields[0].Field
	}
	return "validation failed"
}
