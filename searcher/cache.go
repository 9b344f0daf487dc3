package searcher

import (
	"onitama/game"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
)

type bound uint8

const (
	exact bound = iota + 1
	lower       // score is at least the stored value
	upper       // score is at most the stored value
)

// Approximate footprint of one map entry including bucket overhead.
const entrySize = 64

const (
	defaultCacheFraction = 0.05
	fallbackCacheLimit   = 1 << 20
)

type cacheKey struct {
	depth int
	enc   game.Encoding
}

type cacheEntry struct {
	score float64
	bound bound
}

// usable reports whether the entry settles a search in the window.
func (e cacheEntry) usable(alpha, beta float64) bool {
	switch e.bound {
	case exact:
		return true
	case lower:
		return e.score >= beta
	case upper:
		return e.score <= alpha
	}
	return false
}

// cache is a transposition table keyed by remaining depth and canonical
// encoding. It is owned by a single search and is not safe for concurrent use.
type cache struct {
	entries map[cacheKey]cacheEntry
	limit   int
}

func newCache(limit int) *cache {
	return &cache{entries: make(map[cacheKey]cacheEntry), limit: limit}
}

func (c *cache) lookup(key cacheKey) (cacheEntry, bool) {
	e, ok := c.entries[key]
	return e, ok
}

func (c *cache) store(key cacheKey, e cacheEntry) {
	if len(c.entries) >= c.limit {
		log.Debug().Int("entries", len(c.entries)).Msg("transposition-cache-full")
		clear(c.entries)
	}
	c.entries[key] = e
}

func (c *cache) size() int {
	return len(c.entries)
}

// classify turns a fail-soft result for the window (alpha, beta) into a
// cache bound.
func classify(score, alpha, beta float64) bound {
	switch {
	case score <= alpha:
		return upper
	case score >= beta:
		return lower
	}
	return exact
}

// cacheLimitFor converts a fraction of system memory into an entry count.
func cacheLimitFor(fraction float64) int {
	total := memory.TotalMemory()
	if total == 0 || fraction <= 0 {
		return fallbackCacheLimit
	}
	limit := int(float64(total) * fraction / entrySize)
	log.Debug().Uint64("total-memory", total).Int("limit", limit).Msg("transposition-cache-sized")
	return max(limit, 1)
}
