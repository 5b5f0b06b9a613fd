package wishlist

import "errors"

// General errors.
const (
	ErrInternal           = Error("internal error")
	ErrUnauthorized       = Error("user not authorized")
	ErrInvalidRequestBody = Error("invalid request body")
)

// Error represents a wishlist error.
type Error string

// Error returns the error as a string.
func (e Error) Error() string { return string(e) }

// IsError returns true if err is a domain error that should be reported to
// the caller as-is rather than treated as a storage failure.
func IsError(err error) bool {
	var e Error
	return errors.As(err, &e)
}
