// Package jmh extracts benchmark scores from JMH result files.
//
// Three result shapes are understood: the CSV written by -rf csv, the JSON
// written by -rf json, and the human-readable summary table JMH prints at the
// end of a run. A Selector names the benchmark of interest; its
// nodes-per-call secondary metric (an @AuxCounters field) lives under the
// same id followed by a suffix, ":nodes" by default.
package jmh

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	gerrors "github.com/Aman-CERP/jmhgate/internal/errors"
)

// Format identifies the layout of a result file.
type Format string

const (
	FormatAuto Format = "auto"
	FormatCSV  Format = "csv"
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat converts a flag or config value to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatAuto, nil
	case FormatAuto, FormatCSV, FormatText, FormatJSON:
		return f, nil
	default:
		return "", gerrors.New(gerrors.ErrCodeUnknownFormat,
			fmt.Sprintf("unknown result format %q", s), nil).
			WithSuggestion("use one of: auto, csv, text, json")
	}
}

// DefaultNodesSuffix is appended to the benchmark id to find the
// nodes-per-call secondary metric.
const DefaultNodesSuffix = ":nodes"

// Selector picks the rows of interest out of a result file.
type Selector struct {
	// Benchmark is the benchmark id or a dot-separated tail of it,
	// e.g. "perftNodes" or "HQBenchmark.perftNodes".
	Benchmark string
	// NodesSuffix marks the nodes-per-call row, default ":nodes".
	NodesSuffix string
	// NeedNodes makes a missing nodes-per-call row an error.
	NeedNodes bool
}

// NodesTag is the id of the nodes-per-call row.
func (s Selector) NodesTag() string {
	suffix := s.NodesSuffix
	if suffix == "" {
		suffix = DefaultNodesSuffix
	}
	return s.Benchmark + suffix
}

// secondaryKey is the secondaryMetrics key used by the JSON format.
func (s Selector) secondaryKey() string {
	return strings.TrimPrefix(strings.TrimPrefix(s.NodesTag(), s.Benchmark), ":")
}

// matchesID reports whether a result id names benchmark name: either the
// full id or a tail starting at a dot boundary.
func matchesID(id, name string) bool {
	id = strings.TrimSpace(id)
	if name == "" {
		return false
	}
	return id == name || strings.HasSuffix(id, "."+name)
}

// Measurement holds the values extracted for one benchmark from one file.
type Measurement struct {
	Benchmark    string  `json:"benchmark"`
	Score        float64 `json:"score"`
	NodesPerCall float64 `json:"nodes_per_call,omitempty"`
	HasNodes     bool    `json:"has_nodes"`
	Format       Format  `json:"format"`
	Path         string  `json:"path"`
}

// collector accumulates matching rows. The last valid row for a tag wins.
type collector struct {
	sel       Selector
	m         Measurement
	haveScore bool
}

func newCollector(sel Selector, path string, format Format) *collector {
	return &collector{
		sel: sel,
		m:   Measurement{Benchmark: sel.Benchmark, Format: format, Path: path},
	}
}

// wants reports whether id is one of the two tags of interest.
func (c *collector) wants(id string) bool {
	return matchesID(id, c.sel.NodesTag()) || matchesID(id, c.sel.Benchmark)
}

// observe records score for id. Nodes rows are checked first since the
// benchmark name is a prefix of the nodes tag.
func (c *collector) observe(id string, score float64) {
	switch {
	case matchesID(id, c.sel.NodesTag()):
		c.nodes(score)
	case matchesID(id, c.sel.Benchmark):
		c.m.Score = score
		c.haveScore = true
	}
}

func (c *collector) nodes(v float64) {
	c.m.NodesPerCall = v
	c.m.HasNodes = true
}

func (c *collector) result() (*Measurement, error) {
	if !c.haveScore {
		return nil, gerrors.NotFoundError(c.sel.Benchmark, c.m.Path).
			WithSuggestion("check that --benchmark matches a benchmark id in the file")
	}
	if c.sel.NeedNodes && !c.m.HasNodes {
		return nil, gerrors.NotFoundError(c.sel.NodesTag(), c.m.Path).
			WithSuggestion("enable the nodes @AuxCounters field or use --metric score")
	}
	m := c.m
	return &m, nil
}

// ParseFile reads path and extracts the measurement selected by sel.
// The whole file is read and closed before parsing starts.
func ParseFile(path string, format Format, sel Selector) (*Measurement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, gerrors.New(gerrors.ErrCodeFileNotFound,
				fmt.Sprintf("result file not found: %s", path), err).
				WithDetail("file", path)
		}
		return nil, gerrors.New(gerrors.ErrCodeFileRead,
			fmt.Sprintf("failed to read result file %s", path), err).
			WithDetail("file", path)
	}
	return Parse(data, path, format, sel)
}

// Parse extracts the measurement selected by sel from data. path is used
// for format detection and error messages only.
func Parse(data []byte, path string, format Format, sel Selector) (*Measurement, error) {
	if format == "" || format == FormatAuto {
		format = DetectFormat(path, data)
	}

	slog.Debug("parsing result file",
		slog.String("path", path),
		slog.String("format", string(format)),
		slog.String("benchmark", sel.Benchmark))

	c := newCollector(sel, path, format)

	var err error
	switch format {
	case FormatCSV:
		err = parseCSV(data, c)
	case FormatJSON:
		err = parseJSON(data, c)
	case FormatText:
		err = parseText(data, c)
	default:
		_, err = ParseFormat(string(format))
	}
	if err != nil {
		return nil, err
	}

	return c.result()
}

// parseScore parses a JMH score. JMH prints scores with the JVM locale, so a
// lone comma is a decimal comma; when both appear the comma groups thousands.
func parseScore(s string) (float64, bool) {
	s = strings.Trim(strings.TrimSpace(s), `"`)
	if s == "" {
		return 0, false
	}
	switch {
	case strings.Contains(s, ",") && strings.Contains(s, "."):
		s = strings.ReplaceAll(s, ",", "")
	case strings.Contains(s, ","):
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
