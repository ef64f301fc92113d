package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateError_Unwrap_PreservesOriginalError(t *testing.T) {
	// Given: an original error
	originalErr := errors.New("open base.csv: no such file or directory")

	// When: wrapping with GateError
	gateErr := New(ErrCodeFileNotFound, "result file not found: base.csv", originalErr)

	// Then: unwrapping returns original error
	require.NotNil(t, gateErr)
	assert.Equal(t, originalErr, errors.Unwrap(gateErr))
	assert.True(t, errors.Is(gateErr, originalErr))
}

func TestGateError_Error_ReturnsFormattedMessage(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		message  string
		expected string
	}{
		{
			name:     "config error",
			code:     ErrCodeConfigInvalid,
			message:  "threshold must be positive",
			expected: "[ERR_102_CONFIG_INVALID] threshold must be positive",
		},
		{
			name:     "file error",
			code:     ErrCodeFileNotFound,
			message:  "pr.csv not found",
			expected: "[ERR_201_FILE_NOT_FOUND] pr.csv not found",
		},
		{
			name:     "usage error",
			code:     ErrCodeUsage,
			message:  "expected 2 arguments, got 1",
			expected: "[ERR_401_USAGE] expected 2 arguments, got 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, nil)
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestGateError_Is_MatchesByCode(t *testing.T) {
	err1 := New(ErrCodeValueNotFound, "value for \"a\" not found", nil)
	err2 := New(ErrCodeValueNotFound, "value for \"b\" not found", nil)

	assert.True(t, errors.Is(err1, err2))
}

func TestGateError_Is_DoesNotMatchDifferentCodes(t *testing.T) {
	err1 := New(ErrCodeValueNotFound, "missing", nil)
	err2 := New(ErrCodeFileCorrupt, "corrupt", nil)

	assert.False(t, errors.Is(err1, err2))
}

func TestGateError_CategoryFromCode(t *testing.T) {
	tests := []struct {
		code     string
		expected Category
	}{
		{ErrCodeConfigInvalid, CategoryConfig},
		{ErrCodeFileRead, CategoryIO},
		{ErrCodeHistoryStore, CategoryIO},
		{ErrCodeValueNotFound, CategoryValidation},
		{ErrCodeUsage, CategoryValidation},
		{ErrCodeInternal, CategoryInternal},
		{ErrCodeRegression, CategoryGate},
		{"BAD", CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, New(tt.code, "msg", nil).Category)
		})
	}
}

func TestGateError_SeverityFromCode(t *testing.T) {
	assert.Equal(t, SeverityFatal, New(ErrCodeValueNotFound, "m", nil).Severity)
	assert.Equal(t, SeverityFatal, New(ErrCodeUsage, "m", nil).Severity)
	assert.Equal(t, SeverityWarning, New(ErrCodeHistoryStore, "m", nil).Severity)
	assert.Equal(t, SeverityError, New(ErrCodeRegression, "m", nil).Severity)
}

func TestNotFoundError_NamesTagAndFile(t *testing.T) {
	// When: building a not-found error
	err := NotFoundError("HQBenchmark.perftNodes:nodes", "base.csv")

	// Then: message and details identify both tag and file
	assert.Contains(t, err.Message, "HQBenchmark.perftNodes:nodes")
	assert.Contains(t, err.Message, "base.csv")
	assert.Equal(t, "HQBenchmark.perftNodes:nodes", err.Details["tag"])
	assert.Equal(t, "base.csv", err.Details["file"])
	assert.True(t, IsFatal(err))
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(ErrCodeInternal, nil))
}

func TestAs_FindsWrappedGateError(t *testing.T) {
	// Given: a GateError wrapped by fmt.Errorf
	inner := UsageError("expected 2 arguments")
	outer := fmt.Errorf("run: %w", inner)

	// When/Then: helpers look through the chain
	ge, ok := As(outer)
	require.True(t, ok)
	assert.Equal(t, ErrCodeUsage, ge.Code)
	assert.True(t, IsUsage(outer))
	assert.False(t, IsRegression(outer))
	assert.Equal(t, CategoryValidation, GetCategory(outer))
}

func TestIsRegression(t *testing.T) {
	err := RegressionError(0.97, 0.98)

	assert.True(t, IsRegression(err))
	assert.Contains(t, err.Message, "0.9700")
	assert.False(t, IsRegression(errors.New("plain")))
	assert.Equal(t, "", GetCode(errors.New("plain")))
}
