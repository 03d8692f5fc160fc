package trivia

import "errors"

var (
	// ErrNotFound covers empty pages, unknown ids and searches without matches.
	ErrNotFound = errors.New("not found")
	// ErrUnprocessable marks well-formed input whose content is invalid.
	ErrUnprocessable = errors.New("unprocessable")
	// ErrNotInteger is returned when a numeric field holds something else.
	ErrNotInteger = errors.New("value is not an integer")
)

// ValidationError names the field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrUnprocessable
}
