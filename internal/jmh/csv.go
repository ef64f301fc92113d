package jmh

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	gerrors "github.com/Aman-CERP/jmhgate/internal/errors"
)

// parseCSV reads a -rf csv file:
//
//	"Benchmark","Mode","Threads","Samples","Score","Score Error (99.9%)","Unit"
//	"core.HQBenchmark.perftNodes","thrpt",1,5,12.345678,0.123,"ops/s"
//	"core.HQBenchmark.perftNodes:nodes","thrpt",1,5,4865609.000,NaN,"#"
func parseCSV(data []byte, c *collector) error {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return corrupt(c.m.Path, "missing CSV header", err)
	}

	benchCol, scoreCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "Benchmark":
			benchCol = i
		case "Score":
			scoreCol = i
		}
	}
	if benchCol < 0 || scoreCol < 0 {
		return corrupt(c.m.Path, "CSV header lacks Benchmark and Score columns", nil)
	}

	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				slog.Debug("skipping malformed CSV row",
					slog.String("path", c.m.Path),
					slog.Int("line", perr.Line),
					slog.String("error", err.Error()))
				continue
			}
			return corrupt(c.m.Path, "unreadable CSV", err)
		}
		if benchCol >= len(record) || scoreCol >= len(record) {
			continue
		}

		id := record[benchCol]
		if !c.wants(id) {
			continue
		}
		score, ok := parseScore(record[scoreCol])
		if !ok {
			slog.Debug("skipping row with unparseable score",
				slog.String("path", c.m.Path),
				slog.String("benchmark", id))
			continue
		}
		c.observe(id, score)
	}
}

func corrupt(path, msg string, cause error) error {
	return gerrors.New(gerrors.ErrCodeFileCorrupt, fmt.Sprintf("%s: %s", path, msg), cause).
		WithDetail("file", path)
}
