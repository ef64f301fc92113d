package jmh

import (
	"bufio"
	"bytes"
	"log/slog"
	"strings"
)

// unitAnchors are the throughput units JMH prints in the Units column. "#"
// is the unit of @AuxCounters(EVENTS) counters.
var unitAnchors = map[string]bool{
	"ops/s":   true,
	"ops/ms":  true,
	"ops/us":  true,
	"ops/ns":  true,
	"ops/min": true,
	"#":       true,
}

// isAnchor reports whether tok marks the end of the Score column: the
// error separator or, when no error is printed, the unit.
func isAnchor(tok string) bool {
	// JMH prints "?" in place of "±" on consoles without UTF-8.
	if strings.HasPrefix(tok, "±") || tok == "?" {
		return true
	}
	return unitAnchors[tok]
}

// parseText reads the summary table of a JMH console log:
//
//	Benchmark                          Mode  Cnt        Score       Error  Units
//	HQBenchmark.perftNodes            thrpt    5       12.346 ±     0.101  ops/s
//	HQBenchmark.perftNodes:nodes      thrpt    5  4865609.000                  #
//
// The score is the token immediately before the first anchor.
func parseText(data []byte, c *collector) error {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 || !c.wants(fields[0]) {
			continue
		}

		score, ok := scoreBeforeAnchor(fields)
		if !ok {
			slog.Debug("skipping line without score anchor",
				slog.String("path", c.m.Path),
				slog.Int("line", line),
				slog.String("benchmark", fields[0]))
			continue
		}
		c.observe(fields[0], score)
	}

	return scanner.Err()
}

// scoreBeforeAnchor finds the first anchor after the benchmark id and mode
// and parses the token before it.
func scoreBeforeAnchor(fields []string) (float64, bool) {
	for i := 2; i < len(fields); i++ {
		if isAnchor(fields[i]) {
			return parseScore(fields[i-1])
		}
	}
	return 0, false
}
