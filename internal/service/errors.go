package service

import (
	"errors"
	"strings"
)

var (
	// ErrNotTripPassenger is returned when someone other than the requesting passenger cancels a trip.
	ErrNotTripPassenger = errors.New("only the requesting passenger can cancel this trip")

	// ErrTripNotPending is returned when cancelling a trip a driver already took or that has ended.
	ErrTripNotPending = errors.New("trip is no longer pending")
)

// FieldError describes one invalid input field.
type FieldError struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

// ValidationError lists every invalid field of a request.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+" "+fe.Msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsValidationError reports whether err carries field errors.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
