package gate

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/Aman-CERP/jmhgate/internal/compare"
	"github.com/Aman-CERP/jmhgate/internal/output"
	"github.com/Aman-CERP/jmhgate/internal/ui"
)

// WriteText prints the three summary lines followed by the verdict:
//
//	Base nodes/s : 10.0k
//	PR   nodes/s : 9.8k
//	Speed ratio  : 0.98x (slower)
//	[PASS] PR nodes/s is within 98% of base.
func WriteText(w io.Writer, r Report, styles ui.Styles) {
	out := output.New(w)
	c := r.Comparison
	unit := c.Metric.Unit()

	out.Linef("%s %s", styles.Label.Render(fmt.Sprintf("Base %s :", unit)), compare.Human(c.Base))
	out.Linef("%s %s", styles.Label.Render(fmt.Sprintf("PR   %s :", unit)), compare.Human(c.PR))

	pct := percent(r.Verdict.Threshold)
	switch {
	case r.Verdict.Mode == ModeReport:
		out.Linef("%s %s%% (%s)", styles.Label.Render("Change       :"),
			signed(c.PercentChange), c.Direction)
		out.Linef("%s Report only, regression gate disabled.", styles.Warning.Render("[INFO]"))
	case r.Verdict.Passed:
		out.Linef("%s %sx (%s)", styles.Label.Render("Speed ratio  :"), compare.Fixed(c.Ratio, 2), c.Direction)
		out.Linef("%s PR %s is within %s%% of base.", styles.Success.Render("[PASS]"), unit, pct)
	default:
		out.Linef("%s %sx (%s)", styles.Label.Render("Speed ratio  :"), compare.Fixed(c.Ratio, 2), c.Direction)
		out.Linef("%s PR %s is below %s%% of base, failing the build.", styles.Error.Render("[FAIL]"), unit, pct)
	}
}

// percent renders a threshold ratio as a percentage without rounding away
// its significant digits: 0.98 -> "98", 0.985 -> "98.5".
func percent(ratio float64) string {
	return strconv.FormatFloat(math.Round(ratio*1e6)/1e4, 'f', -1, 64)
}

func signed(pct float64) string {
	s := compare.Fixed(pct, 2)
	if pct >= 0 {
		return "+" + s
	}
	return s
}

// WriteJSON encodes the report as indented JSON.
func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
