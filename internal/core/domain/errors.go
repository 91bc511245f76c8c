package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicateIdentity  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingToken       = errors.New("access token required")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInsufficientRole   = errors.New("insufficient permissions")
	ErrNotFound           = errors.New("not found")
	ErrRequestInProgress  = errors.New("a request with this idempotency key is still in progress")
)

// Not-found variants wrap ErrNotFound so callers can match either.
var (
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrServiceNotFound = fmt.Errorf("service %w", ErrNotFound)
	ErrBookingNotFound = fmt.Errorf("booking %w", ErrNotFound)
)

// InvalidInput returns an ErrInvalidInput carrying a human-readable reason.
func InvalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
