package jmh

import (
	"bytes"
	"path/filepath"
	"strings"
)

// DetectFormat guesses the format of a result file, first from its
// extension and then from its content.
func DetectFormat(path string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".json":
		return FormatJSON
	case ".txt", ".log", ".out":
		return FormatText
	}

	trimmed := bytes.TrimSpace(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return FormatJSON
	}

	firstLine := trimmed
	if i := bytes.IndexByte(trimmed, '\n'); i >= 0 {
		firstLine = trimmed[:i]
	}
	if bytes.Contains(firstLine, []byte(`"Benchmark"`)) && bytes.Contains(firstLine, []byte(",")) {
		return FormatCSV
	}

	return FormatText
}
