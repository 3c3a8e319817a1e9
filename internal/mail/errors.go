package mail

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"registrar/pkg/platform/sentinel"
)

// ErrorCategory defines the normalized failure taxonomy
type ErrorCategory string

const (
	// ErrorTimeout indicates the provider took too long to respond
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorAuthentication indicates credential or permission issues
	ErrorAuthentication ErrorCategory = "authentication"

	// ErrorRejected indicates the provider refused the message itself
	ErrorRejected ErrorCategory = "rejected"

	// ErrorRateLimited indicates too many requests
	ErrorRateLimited ErrorCategory = "rate_limited"

	// ErrorProviderOutage indicates the provider is unavailable
	ErrorProviderOutage ErrorCategory = "provider_outage"

	// ErrorInternal indicates an unexpected internal error
	ErrorInternal ErrorCategory = "internal"
)

// ProviderError wraps transport failures with normalized categorization
type ProviderError struct {
	Category   ErrorCategory
	Provider   string
	Message    string
	Underlying error
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("mail provider %s [%s]: %s: %v", e.Provider, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("mail provider %s [%s]: %s", e.Provider, e.Category, e.Message)
}

// Unwrap supports error unwrapping
func (e *ProviderError) Unwrap() error {
	return e.Underlying
}

// Is lets callers match categories against the infrastructure sentinels.
func (e *ProviderError) Is(target error) bool {
	switch target {
	case sentinel.ErrTimeout:
		return e.Category == ErrorTimeout
	case sentinel.ErrUnavailable:
		return e.Category == ErrorProviderOutage
	case sentinel.ErrRejected:
		return e.Category == ErrorRejected || e.Category == ErrorAuthentication
	}
	return false
}

// NewProviderError creates a new normalized provider error
func NewProviderError(category ErrorCategory, provider, message string, underlying error) *ProviderError {
	return &ProviderError{
		Category:   category,
		Provider:   provider,
		Message:    message,
		Underlying: underlying,
	}
}

// CategoryOf returns the category of err, classifying bare context errors
// as timeouts and anything unknown as internal.
func CategoryOf(err error) ErrorCategory {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Category
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, sentinel.ErrTimeout) {
		return ErrorTimeout
	}
	return ErrorInternal
}

// categoryForStatus maps an HTTP API status to a category.
func categoryForStatus(status int) ErrorCategory {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrorAuthentication
	case status == http.StatusTooManyRequests:
		return ErrorRateLimited
	case status >= 500:
		return ErrorProviderOutage
	case status >= 400:
		return ErrorRejected
	}
	return ErrorInternal
}

// wrapContextErr turns a cancelled or expired context into a timeout error.
func wrapContextErr(ctx context.Context, provider string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return NewProviderError(ErrorTimeout, provider, "send deadline exceeded", ctxErr)
	}
	return err
}
