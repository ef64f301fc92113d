package jmh

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of parsed files kept by a CachedParser.
const DefaultCacheSize = 16

// CachedParser remembers measurements of files that have not changed since
// they were last parsed. A file counts as unchanged while its size and
// modification time stay the same. A same-size rewrite within the
// filesystem's mtime granularity keeps the old key, so callers told of a
// change by a watcher call Forget.
type CachedParser struct {
	cache *lru.Cache[string, Measurement]
}

// NewCachedParser creates a parser caching up to size files.
func NewCachedParser(size int) *CachedParser {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, _ := lru.New[string, Measurement](size)
	return &CachedParser{cache: cache}
}

// ParseFile behaves like ParseFile but skips parsing when an identical file
// was already seen. Errors are never cached.
func (p *CachedParser) ParseFile(path string, format Format, sel Selector) (*Measurement, error) {
	info, err := os.Stat(path)
	if err != nil {
		return ParseFile(path, format, sel)
	}

	key := fmt.Sprintf("%s\x00%d\x00%d\x00%s\x00%s\x00%s\x00%t",
		cachePath(path), info.Size(), info.ModTime().UnixNano(), format, sel.Benchmark, sel.NodesSuffix, sel.NeedNodes)

	if m, ok := p.cache.Get(key); ok {
		return &m, nil
	}

	m, err := ParseFile(path, format, sel)
	if err != nil {
		return nil, err
	}
	p.cache.Add(key, *m)
	return m, nil
}

// Forget drops every cached measurement of path.
func (p *CachedParser) Forget(path string) {
	prefix := cachePath(path) + "\x00"
	for _, key := range p.cache.Keys() {
		if strings.HasPrefix(key, prefix) {
			p.cache.Remove(key)
		}
	}
}

// cachePath returns the absolute form of path so relative and absolute
// spellings share cache entries.
func cachePath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// Len returns the number of cached files.
func (p *CachedParser) Len() int {
	return p.cache.Len()
}
