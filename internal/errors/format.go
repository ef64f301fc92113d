package errors

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// FormatForCLI formats an error for CLI output.
// Uses a concise format suitable for terminal display.
func FormatForCLI(err error) string {
	if err == nil {
		return ""
	}

	ge, ok := As(err)
	if !ok {
		ge = Wrap(ErrCodeInternal, err)
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Error: %s\n", ge.Message))

	if ge.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("  Hint: %s\n", ge.Suggestion))
	}

	sb.WriteString(fmt.Sprintf("  Code: %s\n", ge.Code))

	return sb.String()
}

// jsonError is the JSON representation of an error.
type jsonError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Category   string            `json:"category"`
	Severity   string            `json:"severity"`
	Details    map[string]string `json:"details,omitempty"`
	Suggestion string            `json:"suggestion,omitempty"`
	Cause      string            `json:"cause,omitempty"`
}

// FormatJSON returns a JSON representation of the error.
func FormatJSON(err error) ([]byte, error) {
	if err == nil {
		return json.Marshal(nil)
	}

	ge, ok := As(err)
	if !ok {
		ge = Wrap(ErrCodeInternal, err)
	}

	je := jsonError{
		Code:       ge.Code,
		Message:    ge.Message,
		Category:   string(ge.Category),
		Severity:   string(ge.Severity),
		Details:    ge.Details,
		Suggestion: ge.Suggestion,
	}

	if ge.Cause != nil {
		je.Cause = ge.Cause.Error()
	}

	return json.Marshal(je)
}

// LogAttrs returns key-value pairs suitable for slog.Logger.Error(msg, args...).
func LogAttrs(err error) []any {
	if err == nil {
		return nil
	}

	ge, ok := As(err)
	if !ok {
		return []any{"error", err.Error()}
	}

	attrs := []any{
		"error_code", ge.Code,
		"message", ge.Message,
		"category", string(ge.Category),
	}
	if ge.Cause != nil {
		attrs = append(attrs, "cause", ge.Cause.Error())
	}

	keys := make([]string, 0, len(ge.Details))
	for k := range ge.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attrs = append(attrs, "detail_"+k, ge.Details[k])
	}

	return attrs
}
