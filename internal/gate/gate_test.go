package gate

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/jmhgate/internal/compare"
	gerrors "github.com/Aman-CERP/jmhgate/internal/errors"
	"github.com/Aman-CERP/jmhgate/internal/jmh"
	"github.com/Aman-CERP/jmhgate/internal/ui"
)

func comparison(baseScore, prScore, nodes float64) compare.Comparison {
	return compare.Compare(
		&jmh.Measurement{Score: baseScore, NodesPerCall: nodes, HasNodes: true},
		&jmh.Measurement{Score: prScore, NodesPerCall: nodes, HasNodes: true},
		compare.MetricNodes,
	)
}

func TestEvaluate_Boundary(t *testing.T) {
	tests := []struct {
		name   string
		pr     float64
		passed bool
	}{
		{"faster", 1010, true},
		{"equal", 1000, true},
		{"exactly threshold", 980, true},
		{"just below", 979.99, false},
		{"regression", 970, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Evaluate(comparison(1000, tt.pr, 10), DefaultThreshold, ModeGate)

			assert.Equal(t, tt.passed, v.Passed)
			assert.Equal(t, !tt.passed, v.Failed())
		})
	}
}

func TestEvaluate_ZeroBaseFailsGate(t *testing.T) {
	v := Evaluate(comparison(0, 1000, 10), DefaultThreshold, ModeGate)

	assert.False(t, v.Passed)
	assert.True(t, v.Failed())
}

func TestEvaluate_NaNRatioFailsGate(t *testing.T) {
	// Given: both sides overflow to +Inf nodes/s, so the ratio is NaN
	c := comparison(1e308, 1e308, 10)
	require.True(t, math.IsNaN(c.Ratio))

	// When: evaluating
	v := Evaluate(c, DefaultThreshold, ModeGate)

	// Then: the gate fails
	assert.False(t, v.Passed)
	assert.True(t, v.Failed())
}

func TestEvaluate_ReportModeNeverFails(t *testing.T) {
	v := Evaluate(comparison(1000, 500, 10), DefaultThreshold, ModeReport)

	assert.False(t, v.Passed)
	assert.False(t, v.Failed())
	assert.Equal(t, ModeReport, v.Mode)
}

func TestEvaluate_EmptyModeDefaultsToGate(t *testing.T) {
	assert.Equal(t, ModeGate, Evaluate(comparison(1, 1, 1), 0.98, "").Mode)
}

func TestReport_Err(t *testing.T) {
	c := comparison(1000, 970, 10)
	r := Report{Comparison: c, Verdict: Evaluate(c, DefaultThreshold, ModeGate)}

	err := r.Err()

	require.Error(t, err)
	assert.True(t, gerrors.IsRegression(err))

	c = comparison(1000, 980, 10)
	r = Report{Comparison: c, Verdict: Evaluate(c, DefaultThreshold, ModeGate)}
	assert.NoError(t, r.Err())
}

func TestWriteText_Pass(t *testing.T) {
	// Given: base 1000*10, PR 980*10
	c := comparison(1000, 980, 10)
	r := Report{Comparison: c, Verdict: Evaluate(c, DefaultThreshold, ModeGate)}
	buf := &bytes.Buffer{}

	// When: rendering without colour
	WriteText(buf, r, ui.NoColorStyles())

	// Then: the three summary lines and a PASS verdict are printed
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Base nodes/s : 10.0k", lines[0])
	assert.Equal(t, "PR   nodes/s : 9.8k", lines[1])
	assert.Equal(t, "Speed ratio  : 0.98x (slower)", lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "[PASS]"))
}

func TestWriteText_Fail(t *testing.T) {
	c := comparison(1000, 970, 10)
	r := Report{Comparison: c, Verdict: Evaluate(c, DefaultThreshold, ModeGate)}
	buf := &bytes.Buffer{}

	WriteText(buf, r, ui.NoColorStyles())

	assert.Contains(t, buf.String(), "Speed ratio  : 0.97x (slower)")
	assert.Contains(t, buf.String(), "[FAIL] PR nodes/s is below 98% of base")
}

func TestWriteText_FractionalThresholdPercent(t *testing.T) {
	// Given: a threshold of 0.985 and a PR at exactly that ratio
	c := comparison(1000, 985, 10)
	r := Report{Comparison: c, Verdict: Evaluate(c, 0.985, ModeGate)}
	buf := &bytes.Buffer{}

	// When: rendering
	WriteText(buf, r, ui.NoColorStyles())

	// Then: the verdict keeps the threshold's decimal
	assert.Contains(t, buf.String(), "[PASS] PR nodes/s is within 98.5% of base.")
}

func TestPercent(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{0.98, "98"},
		{0.985, "98.5"},
		{0.07, "7"},
		{1, "100"},
		{0.9999, "99.99"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, percent(tt.ratio), "ratio %v", tt.ratio)
	}
}

func TestWriteText_ReportMode(t *testing.T) {
	c := comparison(1000, 1025, 10)
	r := Report{Comparison: c, Verdict: Evaluate(c, DefaultThreshold, ModeReport)}
	buf := &bytes.Buffer{}

	WriteText(buf, r, ui.NoColorStyles())

	out := buf.String()
	assert.Contains(t, out, "Change       : +2.50% (faster)")
	assert.Contains(t, out, "[INFO]")
	assert.NotContains(t, out, "Speed ratio")
}

func TestWriteText_ScoreMetricUnit(t *testing.T) {
	c := compare.Compare(&jmh.Measurement{Score: 100}, &jmh.Measurement{Score: 120}, compare.MetricScore)
	r := Report{Comparison: c, Verdict: Evaluate(c, DefaultThreshold, ModeGate)}
	buf := &bytes.Buffer{}

	WriteText(buf, r, ui.NoColorStyles())

	assert.Contains(t, buf.String(), "Base ops/s : 100.0")
	assert.Contains(t, buf.String(), "Speed ratio  : 1.20x (faster)")
}

func TestWriteJSON(t *testing.T) {
	c := comparison(1000, 980, 10)
	r := Report{
		Benchmark:  "HQBenchmark.perftNodes",
		BaseFile:   "base.csv",
		PRFile:     "pr.csv",
		Comparison: c,
		Verdict:    Evaluate(c, DefaultThreshold, ModeGate),
	}
	buf := &bytes.Buffer{}

	require.NoError(t, WriteJSON(buf, r))

	var decoded Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, r, decoded)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("REPORT")
	require.NoError(t, err)
	assert.Equal(t, ModeReport, m)

	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeGate, m)

	_, err = ParseMode("warn")
	assert.Error(t, err)
}
