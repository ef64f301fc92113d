// Package errors provides structured error handling for jmhgate.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO errors (result files, history database)
//   - 4XX: Validation errors (arguments, result contents)
//   - 5XX: Internal errors
//   - 6XX: Gate outcomes (throughput regression)
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file and disk I/O errors.
	CategoryIO Category = "IO"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
	// CategoryGate indicates a failed performance gate.
	CategoryGate Category = "GATE"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates the operation failed.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// IO errors (200-299)
	ErrCodeFileNotFound = "ERR_201_FILE_NOT_FOUND"
	ErrCodeFileRead     = "ERR_202_FILE_READ"
	ErrCodeFileWrite    = "ERR_203_FILE_WRITE"
	ErrCodeFileCorrupt  = "ERR_206_FILE_CORRUPT"
	ErrCodeHistoryStore = "ERR_207_HISTORY_STORE"

	// Validation errors (400-499)
	ErrCodeUsage         = "ERR_401_USAGE"
	ErrCodeValueNotFound = "ERR_402_VALUE_NOT_FOUND"
	ErrCodeUnknownFormat = "ERR_403_UNKNOWN_FORMAT"

	// Internal errors (500-599)
	ErrCodeInternal = "ERR_501_INTERNAL"

	// Gate outcomes (600-699)
	ErrCodeRegression = "ERR_601_REGRESSION"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// Numeric portion, e.g. "402" from "ERR_402_VALUE_NOT_FOUND"
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '4':
		return CategoryValidation
	case '6':
		return CategoryGate
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeUsage, ErrCodeValueNotFound, ErrCodeFileNotFound, ErrCodeFileCorrupt:
		return SeverityFatal
	case ErrCodeHistoryStore:
		// Recording history never changes the verdict.
		return SeverityWarning
	}
	return SeverityError
}
