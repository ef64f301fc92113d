package jmh

import (
	"bytes"
	"encoding/json"
	"log/slog"

	gerrors "github.com/Aman-CERP/jmhgate/internal/errors"
)

// jsonResult is one element of a -rf json file.
type jsonResult struct {
	Benchmark        string                `json:"benchmark"`
	Mode             string                `json:"mode"`
	PrimaryMetric    jsonMetric            `json:"primaryMetric"`
	SecondaryMetrics map[string]jsonMetric `json:"secondaryMetrics"`
}

// jsonMetric keeps Score raw: JMH writes "NaN" as a string.
type jsonMetric struct {
	Score     json.RawMessage `json:"score"`
	ScoreUnit string          `json:"scoreUnit"`
}

func (m jsonMetric) value() (float64, bool) {
	if len(m.Score) == 0 {
		return 0, false
	}
	return parseScore(string(m.Score))
}

func parseJSON(data []byte, c *collector) error {
	var results []jsonResult
	if err := json.Unmarshal(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")), &results); err != nil {
		return gerrors.New(gerrors.ErrCodeFileCorrupt, c.m.Path+": invalid JMH JSON", err).
			WithDetail("file", c.m.Path)
	}

	key := c.sel.secondaryKey()
	for _, r := range results {
		if !matchesID(r.Benchmark, c.sel.Benchmark) {
			continue
		}
		score, ok := r.PrimaryMetric.value()
		if !ok {
			slog.Debug("skipping result with unparseable score",
				slog.String("path", c.m.Path),
				slog.String("benchmark", r.Benchmark))
			continue
		}
		c.observe(r.Benchmark, score)

		if sec, found := r.SecondaryMetrics[key]; found {
			if nodes, ok := sec.value(); ok {
				c.nodes(nodes)
			}
		}
	}
	return nil
}
