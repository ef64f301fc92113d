package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/jmhgate/internal/compare"
	"github.com/Aman-CERP/jmhgate/internal/gate"
	"github.com/Aman-CERP/jmhgate/internal/jmh"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "history", "jmhgate.db"))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

func sampleReport(prScore float64) gate.Report {
	c := compare.Compare(
		&jmh.Measurement{Score: 1000, NodesPerCall: 10, HasNodes: true},
		&jmh.Measurement{Score: prScore, NodesPerCall: 10, HasNodes: true},
		compare.MetricNodes,
	)
	return gate.Report{
		Benchmark:  "HQBenchmark.perftNodes",
		BaseFile:   "base.csv",
		PRFile:     "pr.csv",
		Comparison: c,
		Verdict:    gate.Evaluate(c, gate.DefaultThreshold, gate.ModeGate),
	}
}

func TestStore_RecordAndRecent(t *testing.T) {
	// Given: a store with one recorded comparison
	s := setupTestStore(t)
	ctx := context.Background()
	at := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

	id, err := s.Record(ctx, FromReport(sampleReport(980), at))
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	// When: reading it back
	entries, err := s.Recent(ctx, "", 10)
	require.NoError(t, err)

	// Then: all fields survive
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, at, e.RecordedAt)
	assert.Equal(t, "HQBenchmark.perftNodes", e.Benchmark)
	assert.Equal(t, "nodes", e.Metric)
	assert.Equal(t, 10000.0, e.Base)
	assert.Equal(t, 9800.0, e.PR)
	assert.Equal(t, 0.98, e.Ratio)
	assert.Equal(t, 0.98, e.Threshold)
	assert.Equal(t, "gate", e.Mode)
	assert.True(t, e.Passed)
	assert.Equal(t, "base.csv", e.BaseFile)
	assert.Equal(t, "pr.csv", e.PRFile)
}

func TestStore_Recent_NewestFirstWithLimit(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, score := range []float64{1000, 990, 970} {
		_, err := s.Record(ctx, FromReport(sampleReport(score), start.Add(time.Duration(i)*time.Hour)))
		require.NoError(t, err)
	}

	entries, err := s.Recent(ctx, "", 2)
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, 9700.0, entries[0].PR)
	assert.False(t, entries[0].Passed)
	assert.Equal(t, 9900.0, entries[1].PR)
}

func TestStore_Recent_FiltersByBenchmark(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	other := FromReport(sampleReport(1000), time.Now())
	other.Benchmark = "QueenAttackBench.attacks"
	_, err := s.Record(ctx, other)
	require.NoError(t, err)
	_, err = s.Record(ctx, FromReport(sampleReport(1000), time.Now()))
	require.NoError(t, err)

	entries, err := s.Recent(ctx, "QueenAttackBench.attacks", 0)
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, "QueenAttackBench.attacks", entries[0].Benchmark)
}

func TestStore_ReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Record(ctx, FromReport(sampleReport(990), time.Now()))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	entries, err := s.Recent(ctx, "", 10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
