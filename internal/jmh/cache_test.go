package jmh

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cacheCSV = `"Benchmark","Mode","Threads","Samples","Score","Score Error (99.9%)","Unit"
"HQBenchmark.perftNodes","thrpt",1,5,100.0,1.0,"ops/s"
"HQBenchmark.perftNodes:nodes","thrpt",1,5,10.0,NaN,"#"
`

func TestCachedParser_ReusesUnchangedFile(t *testing.T) {
	// Given: a parsed result file
	path := writeFile(t, "base.csv", cacheCSV)
	p := NewCachedParser(0)

	first, err := p.ParseFile(path, FormatAuto, perftSelector())
	require.NoError(t, err)
	assert.Equal(t, 1, p.Len())

	// When: parsing it again unchanged
	second, err := p.ParseFile(path, FormatAuto, perftSelector())

	// Then: the cached measurement is returned
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, p.Len())
}

func TestCachedParser_ReparsesChangedFile(t *testing.T) {
	// Given: a cached result file
	path := writeFile(t, "pr.csv", cacheCSV)
	p := NewCachedParser(4)
	_, err := p.ParseFile(path, FormatAuto, perftSelector())
	require.NoError(t, err)

	// When: the file is rewritten with a new score
	updated := `"Benchmark","Mode","Threads","Samples","Score","Score Error (99.9%)","Unit"
"HQBenchmark.perftNodes","thrpt",1,5,250.0,1.0,"ops/s"
"HQBenchmark.perftNodes:nodes","thrpt",1,5,10.0,NaN,"#"
`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0644))
	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, later, later))

	m, err := p.ParseFile(path, FormatAuto, perftSelector())

	// Then: the new value is seen
	require.NoError(t, err)
	assert.Equal(t, 250.0, m.Score)
}

func TestCachedParser_ForgetDropsSameSizeSameMtimeRewrite(t *testing.T) {
	// Given: a cached result file with a known mtime
	path := writeFile(t, "pr.csv", cacheCSV)
	stamp := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(path, stamp, stamp))
	p := NewCachedParser(4)
	first, err := p.ParseFile(path, FormatAuto, perftSelector())
	require.NoError(t, err)
	require.Equal(t, 100.0, first.Score)

	// When: the file is rewritten with a same-length score and the old mtime
	rewritten := strings.Replace(cacheCSV, "100.0,1.0", "900.0,1.0", 1)
	require.Len(t, rewritten, len(cacheCSV))
	require.NoError(t, os.WriteFile(path, []byte(rewritten), 0644))
	require.NoError(t, os.Chtimes(path, stamp, stamp))

	// Then: the stale entry is still served until the change is reported
	stale, err := p.ParseFile(path, FormatAuto, perftSelector())
	require.NoError(t, err)
	assert.Equal(t, 100.0, stale.Score)

	// When: the change is reported
	p.Forget(path)

	// Then: the new content is parsed
	fresh, err := p.ParseFile(path, FormatAuto, perftSelector())
	require.NoError(t, err)
	assert.Equal(t, 900.0, fresh.Score)
}

func TestCachedParser_ForgetMatchesRelativeAndAbsolutePaths(t *testing.T) {
	// Given: a file cached under a relative path
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile("base.csv", []byte(cacheCSV), 0644))
	p := NewCachedParser(4)
	_, err := p.ParseFile("base.csv", FormatAuto, perftSelector())
	require.NoError(t, err)
	require.Equal(t, 1, p.Len())

	// When: forgetting it by its absolute path, as watcher events report it
	wd, err := os.Getwd()
	require.NoError(t, err)
	p.Forget(filepath.Join(wd, "base.csv"))

	// Then: the entry is gone
	assert.Equal(t, 0, p.Len())
}

func TestCachedParser_ForgetKeepsOtherFiles(t *testing.T) {
	base := writeFile(t, "base.csv", cacheCSV)
	pr := writeFile(t, "pr.csv", cacheCSV)
	p := NewCachedParser(4)
	_, err := p.ParseFile(base, FormatAuto, perftSelector())
	require.NoError(t, err)
	_, err = p.ParseFile(pr, FormatAuto, perftSelector())
	require.NoError(t, err)

	p.Forget(pr)

	assert.Equal(t, 1, p.Len())
}

func TestCachedParser_DoesNotCacheErrors(t *testing.T) {
	path := writeFile(t, "bad.csv", "\"Benchmark\",\"Score\"\n")
	p := NewCachedParser(4)

	_, err := p.ParseFile(path, FormatAuto, perftSelector())

	require.Error(t, err)
	assert.Equal(t, 0, p.Len())
}

func TestCachedParser_MissingFile(t *testing.T) {
	p := NewCachedParser(4)

	_, err := p.ParseFile("/nonexistent/base.csv", FormatAuto, perftSelector())

	require.Error(t, err)
}
