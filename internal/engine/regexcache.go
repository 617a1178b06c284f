package engine

import (
	"regexp"
	"sync"
)

// RegexCache compiles patterns once and reuses the result. It is safe for
// concurrent use: multiple filter executions may share one cache (§5 —
// "the regex cache... must either be an atomically-updated concurrent map
// or per-execution"). A pattern that fails to compile is cached as a nil
// entry so the owning stage can treat it as a no-op without recompiling on
// every line (§4.2).
type RegexCache struct {
	mu      sync.RWMutex
	entries map[string]*regexp.Regexp
}

// NewRegexCache returns an empty cache.
func NewRegexCache() *RegexCache {
	return &RegexCache{entries: make(map[string]*regexp.Regexp)}
}

// Compile returns the cached *regexp.Regexp for pattern, compiling it on
// first use. A nil result (ok=false) means the pattern is invalid; callers
// must treat the owning stage entry as a no-op rather than propagating the
// compile error up the pipeline (§4.2, §7 kind 4).
func (c *RegexCache) Compile(pattern string) (re *regexp.Regexp, ok bool) {
	c.mu.RLock()
	if re, cached := c.entries[pattern]; cached {
		c.mu.RUnlock()
		return re, re != nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if re, cached := c.entries[pattern]; cached {
		return re, re != nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		c.entries[pattern] = nil
		return nil, false
	}
	c.entries[pattern] = re
	return re, true
}

// defaultCache is shared process-wide across filter executions, matching
// §5's description of the cache as global, append-only state.
var defaultCache = NewRegexCache()
