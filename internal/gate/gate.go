// Package gate turns a comparison into a pass/fail verdict and renders the
// report printed by jmhgate.
package gate

import (
	"fmt"
	"strings"

	"github.com/Aman-CERP/jmhgate/internal/compare"
	gerrors "github.com/Aman-CERP/jmhgate/internal/errors"
)

// DefaultThreshold is the minimum PR/base ratio that passes: PR throughput
// may be at most 2% below base.
const DefaultThreshold = 0.98

// Mode selects whether a regression fails the process.
type Mode string

const (
	// ModeGate fails when the ratio is below the threshold.
	ModeGate Mode = "gate"
	// ModeReport only reports the percentage change and always succeeds.
	ModeReport Mode = "report"
)

// ParseMode converts a flag or config value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "", ModeGate:
		return ModeGate, nil
	case ModeReport:
		return ModeReport, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want gate or report)", s)
	}
}

// Verdict is the outcome of evaluating a comparison.
type Verdict struct {
	// Passed is true when the ratio is at or above the threshold.
	Passed    bool    `json:"passed"`
	Threshold float64 `json:"threshold"`
	Mode      Mode    `json:"mode"`
}

// Failed reports whether the verdict should fail the process.
func (v Verdict) Failed() bool {
	return v.Mode == ModeGate && !v.Passed
}

// Evaluate checks c against threshold. The boundary is inclusive on the
// pass side: a ratio exactly equal to threshold passes. A NaN ratio fails.
func Evaluate(c compare.Comparison, threshold float64, mode Mode) Verdict {
	if mode == "" {
		mode = ModeGate
	}
	return Verdict{
		Passed:    c.Ratio >= threshold,
		Threshold: threshold,
		Mode:      mode,
	}
}

// Report is everything printed for one comparison.
type Report struct {
	Benchmark  string             `json:"benchmark"`
	BaseFile   string             `json:"base_file"`
	PRFile     string             `json:"pr_file"`
	Comparison compare.Comparison `json:"comparison"`
	Verdict    Verdict            `json:"verdict"`
}

// Err returns the regression error for a failed gate and nil otherwise.
func (r Report) Err() error {
	if r.Verdict.Failed() {
		return gerrors.RegressionError(r.Comparison.Ratio, r.Verdict.Threshold)
	}
	return nil
}
