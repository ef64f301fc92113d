package cmd

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/Aman-CERP/jmhgate/internal/errors"
)

func TestHistory_ListsRecordedComparisons(t *testing.T) {
	// Given: one passing and one failing comparison recorded
	dir := isolate(t)
	db := filepath.Join(dir, "history", "bench.db")
	base := resultCSV(t, dir, "base.csv", 1000, 10)
	pass := resultCSV(t, dir, "pass.csv", 990, 10)
	fail := resultCSV(t, dir, "fail.csv", 900, 10)

	_, _, err := execute(t, "--record", db, base, pass)
	require.NoError(t, err)
	_, _, err = execute(t, "--record", db, base, fail)
	require.Error(t, err)

	// When: listing history
	stdout, _, err := execute(t, "history", "--db", db)

	// Then: both rows are shown, newest first
	require.NoError(t, err)
	assert.Contains(t, stdout, "BENCHMARK")
	assert.Contains(t, stdout, "HQBenchmark.perftNodes")
	assert.Contains(t, stdout, "0.99x")
	assert.Contains(t, stdout, "0.90x")
	assert.Less(t, strings.Index(stdout, "fail"), strings.Index(stdout, "pass"))
}

func TestHistory_JSONWithLimit(t *testing.T) {
	dir := isolate(t)
	db := filepath.Join(dir, "bench.db")
	base := resultCSV(t, dir, "base.csv", 1000, 10)
	pr := resultCSV(t, dir, "pr.csv", 1000, 10)
	for i := 0; i < 3; i++ {
		_, _, err := execute(t, "--record", db, base, pr)
		require.NoError(t, err)
	}

	stdout, _, err := execute(t, "history", "--db", db, "--limit", "2", "--json")

	require.NoError(t, err)
	var entries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &entries))
	assert.Len(t, entries, 2)
	assert.Equal(t, true, entries[0]["passed"])
	assert.InDelta(t, 1.0, entries[0]["ratio"], 1e-9)
}

func TestHistory_UsesConfiguredPath(t *testing.T) {
	// Given: history.path supplied through the environment
	dir := isolate(t)
	db := filepath.Join(dir, "env.db")
	t.Setenv("JMHGATE_HISTORY_PATH", db)
	base := resultCSV(t, dir, "base.csv", 1000, 10)
	pr := resultCSV(t, dir, "pr.csv", 1000, 10)
	_, _, err := execute(t, base, pr)
	require.NoError(t, err)

	// When: listing without --db
	stdout, _, err := execute(t, "history", "-b", "HQBenchmark.perftNodes")

	// Then: the configured database is read
	require.NoError(t, err)
	assert.Contains(t, stdout, "HQBenchmark.perftNodes")
}

func TestHistory_BenchmarkFilterNoMatches(t *testing.T) {
	dir := isolate(t)
	db := filepath.Join(dir, "bench.db")
	base := resultCSV(t, dir, "base.csv", 1000, 10)
	pr := resultCSV(t, dir, "pr.csv", 1000, 10)
	_, _, err := execute(t, "--record", db, base, pr)
	require.NoError(t, err)

	stdout, _, err := execute(t, "history", "--db", db, "-b", "Other.bench")

	require.NoError(t, err)
	assert.Contains(t, stdout, "No comparisons recorded")
}

func TestHistory_NoDatabaseConfigured(t *testing.T) {
	isolate(t)

	_, _, err := execute(t, "history")

	require.Error(t, err)
	assert.True(t, gerrors.IsUsage(err))
}

func TestHistory_MissingDatabase(t *testing.T) {
	dir := isolate(t)

	_, stderr, err := execute(t, "history", "--db", filepath.Join(dir, "none.db"))

	require.Error(t, err)
	assert.Equal(t, gerrors.ErrCodeFileNotFound, gerrors.GetCode(err))
	assert.Contains(t, stderr, "Record a comparison first")
}
