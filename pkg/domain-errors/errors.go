// Package domainerrors defines coded errors that services return and the
// HTTP layer translates into status codes.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error.
type Code string

const (
	// CodeValidation marks a submission that failed a field rule.
	CodeValidation Code = "validation"
	// CodeBadRequest marks a request that could not be decoded at all.
	CodeBadRequest Code = "bad_request"
	// CodeUnavailable marks a missing precondition such as an unconfigured transport.
	CodeUnavailable Code = "unavailable"
	// CodeBadGateway marks a failure of every call to an upstream provider.
	CodeBadGateway Code = "bad_gateway"
	// CodeInternal marks anything unexpected.
	CodeInternal Code = "internal"
)

// Error is a coded domain error. Field is set for validation errors and names
// the offending input field.
type Error struct {
	Code    Code
	Message string
	Field   string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and a caller-facing message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Field creates a validation error for a single input field.
func Field(field, message string) *Error {
	return &Error{Code: CodeValidation, Message: message, Field: field}
}

// As extracts the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code Code) bool {
	de, ok := As(err)
	return ok && de.Code == code
}

// ToHTTPStatus maps a code to the status the API responds with.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	case CodeBadGateway:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
