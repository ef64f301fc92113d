// Package compare derives throughput figures from two measurements and
// relates them.
package compare

import (
	"fmt"
	"strings"

	"github.com/Aman-CERP/jmhgate/internal/jmh"
)

// Metric selects the figure that is compared.
type Metric string

const (
	// MetricNodes compares score * nodes-per-call (nodes/s).
	MetricNodes Metric = "nodes"
	// MetricScore compares the raw operations-per-second score.
	MetricScore Metric = "score"
)

// ParseMetric converts a flag or config value to a Metric.
func ParseMetric(s string) (Metric, error) {
	switch m := Metric(strings.ToLower(strings.TrimSpace(s))); m {
	case "", MetricNodes:
		return MetricNodes, nil
	case MetricScore:
		return MetricScore, nil
	default:
		return "", fmt.Errorf("unknown metric %q (want nodes or score)", s)
	}
}

// Unit is the display unit of the compared figure.
func (m Metric) Unit() string {
	if m == MetricScore {
		return "ops/s"
	}
	return "nodes/s"
}

// NeedsNodes reports whether the metric requires the nodes-per-call row.
func (m Metric) NeedsNodes() bool {
	return m != MetricScore
}

// Direction describes how the PR run moved relative to base.
type Direction string

const (
	Faster    Direction = "faster"
	Slower    Direction = "slower"
	Unchanged Direction = "unchanged"
)

// Comparison relates a base and a PR figure.
type Comparison struct {
	Metric        Metric    `json:"metric"`
	Base          float64   `json:"base"`
	PR            float64   `json:"pr"`
	Ratio         float64   `json:"ratio"`
	PercentChange float64   `json:"percent_change"`
	Direction     Direction `json:"direction"`
}

// NodesPerSecond returns the figure compared for m under metric.
func NodesPerSecond(m *jmh.Measurement, metric Metric) float64 {
	if metric == MetricScore {
		return m.Score
	}
	return m.Score * m.NodesPerCall
}

// Ratio returns pr / base. A zero or negative base has no meaningful ratio
// and yields 0, which fails any positive threshold.
func Ratio(base, pr float64) float64 {
	if base <= 0 {
		return 0
	}
	return pr / base
}

// PercentChange returns the signed change from base to pr in percent, or
// 0 when base is zero or negative.
func PercentChange(base, pr float64) float64 {
	if base <= 0 {
		return 0
	}
	return (pr - base) / base * 100
}

// DirectionOf classifies a ratio.
func DirectionOf(ratio float64) Direction {
	switch {
	case ratio > 1:
		return Faster
	case ratio < 1:
		return Slower
	default:
		return Unchanged
	}
}

// Compare builds the comparison of pr against base.
func Compare(base, pr *jmh.Measurement, metric Metric) Comparison {
	b := NodesPerSecond(base, metric)
	p := NodesPerSecond(pr, metric)
	ratio := Ratio(b, p)
	return Comparison{
		Metric:        metric,
		Base:          b,
		PR:            p,
		Ratio:         ratio,
		PercentChange: PercentChange(b, p),
		Direction:     DirectionOf(ratio),
	}
}
