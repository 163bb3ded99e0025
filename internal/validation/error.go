// Package validation holds the user-facing input error shared by the form handlers.
package validation

import (
	"errors"
	"fmt"
)

// Error names the first invalid field of a request. Nothing is written when one is returned.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(field, format string, args ...any) *Error {
	return &Error{Field: field, Message: fmt.Sprintf(format, args...)}
}

// As unwraps err into a *Error.
func As(err error) (*Error, bool) {
	var vErr *Error
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}
