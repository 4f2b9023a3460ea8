package tadau

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for comparison using errors.Is()
var (
	// Configuration errors
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrMissingCredentials   = errors.New("api_secret and measurement_id are required when opted in")
	ErrOptedOut             = errors.New("reporter is not opted in")

	// Event errors (reported through BatchReport, never raised)
	ErrMissingEventName = errors.New("event has no name")
)

// ConfigError provides structured configuration error information.
// It implements the error interface and supports error wrapping.
type ConfigError struct {
	Op    string // Operation that failed (e.g., "config.LoadFile")
	Field string // Optional configuration field involved
	Err   error  // Underlying error for wrapping
}

// Error returns the string representation of the error
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s [%s]: %v", e.Op, e.Field, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error for use with errors.Is/As
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigurationError checks if an error is configuration-related
func IsConfigurationError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce) ||
		errors.Is(err, ErrInvalidConfiguration) ||
		errors.Is(err, ErrMissingCredentials) ||
		errors.Is(err, ErrOptedOut)
}
