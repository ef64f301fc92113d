package errors

import (
	"errors"
	"fmt"
)

// GateError is the structured error type for jmhgate.
// It provides rich context for error handling, logging, and user presentation.
type GateError struct {
	// Code is the unique error code (e.g., "ERR_402_VALUE_NOT_FOUND").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Validation, ...).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs (tag, file, ...).
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *GateError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *GateError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a GateError with the same code.
func (e *GateError) Is(target error) bool {
	if t, ok := target.(*GateError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *GateError) WithDetail(key, value string) *GateError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
// Returns the error for method chaining.
func (e *GateError) WithSuggestion(suggestion string) *GateError {
	e.Suggestion = suggestion
	return e
}

// New creates a new GateError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *GateError {
	return &GateError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates a GateError from an existing error.
// The error's message becomes the GateError message.
func Wrap(code string, err error) *GateError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *GateError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// UsageError creates a command-line usage error.
func UsageError(message string) *GateError {
	return New(ErrCodeUsage, message, nil)
}

// NotFoundError reports that tag could not be located in file.
func NotFoundError(tag, file string) *GateError {
	return New(ErrCodeValueNotFound, fmt.Sprintf("value for %q not found in %s", tag, file), nil).
		WithDetail("tag", tag).
		WithDetail("file", file)
}

// RegressionError reports a failed gate. The report has already been printed.
func RegressionError(ratio, threshold float64) *GateError {
	return New(ErrCodeRegression,
		fmt.Sprintf("throughput ratio %.4f is below threshold %.4f", ratio, threshold), nil)
}

// As returns the first GateError in err's chain.
func As(err error) (*GateError, bool) {
	var ge *GateError
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}

// IsFatal checks if an error has fatal severity.
func IsFatal(err error) bool {
	if ge, ok := As(err); ok {
		return ge.Severity == SeverityFatal
	}
	return false
}

// IsRegression reports whether err signals a failed gate.
func IsRegression(err error) bool {
	return GetCode(err) == ErrCodeRegression
}

// IsUsage reports whether err is a command-line usage error.
func IsUsage(err error) bool {
	return GetCode(err) == ErrCodeUsage
}

// GetCode extracts the error code from a GateError.
// Returns empty string if not a GateError.
func GetCode(err error) string {
	if ge, ok := As(err); ok {
		return ge.Code
	}
	return ""
}

// GetCategory extracts the category from a GateError.
// Returns empty string if not a GateError.
func GetCategory(err error) Category {
	if ge, ok := As(err); ok {
		return ge.Category
	}
	return ""
}
