package scanner

import (
	"fmt"
	"os"

	"github.com/maypok86/otter"
)

// cachedExtraction is the memoized result of extracting one file,
// valid while the file's size and mtime are unchanged.
type cachedExtraction struct {
	size    int64
	modTime int64
	refs    []ImportRef
	diags   []Diagnostic
}

// ExtractionCache memoizes per-file extraction results across repeated
// scans of the same project (watch mode re-scans in particular), keyed
// by relative path and invalidated by size/mtime.
type ExtractionCache struct {
	cache otter.Cache[string, cachedExtraction]
}

// NewExtractionCache creates a cache sized for typical project trees.
func NewExtractionCache() (*ExtractionCache, error) {
	cache, err := otter.MustBuilder[string, cachedExtraction](16_384).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build extraction cache: %w", err)
	}
	return &ExtractionCache{cache: cache}, nil
}

// get returns the cached result for a file if it still matches the
// given file info.
func (c *ExtractionCache) get(relPath string, info os.FileInfo) ([]ImportRef, []Diagnostic, bool) {
	if c == nil {
		return nil, nil, false
	}
	entry, ok := c.cache.Get(relPath)
	if !ok || entry.size != info.Size() || entry.modTime != info.ModTime().UnixNano() {
		return nil, nil, false
	}
	return entry.refs, entry.diags, true
}

// put stores the extraction result for a file.
func (c *ExtractionCache) put(relPath string, info os.FileInfo, refs []ImportRef, diags []Diagnostic) {
	if c == nil {
		return
	}
	c.cache.Set(relPath, cachedExtraction{
		size:    info.Size(),
		modTime: info.ModTime().UnixNano(),
		refs:    refs,
		diags:   diags,
	})
}

// Close releases the cache's resources.
func (c *ExtractionCache) Close() {
	if c != nil {
		c.cache.Close()
	}
}
