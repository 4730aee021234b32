package domain

import "errors"

// Engine error taxonomy. The transport layer maps these to status codes;
// engines never return raw store errors to handlers.
var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotMember        = errors.New("not a member of this circle")
	ErrInvalidState     = errors.New("invalid state transition")
	ErrRateLimited      = errors.New("rate limit exceeded")
	ErrDuplicateEmail   = errors.New("email already registered")
)

// ValidationError reports missing or malformed input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validationf(msg string) error { return &ValidationError{Msg: msg} }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
