package monitor

import (
	"sync"
	"time"

	"arrmon/pkg/types"
)

// sourceCache holds the latest known queue for one source behind its own
// lock, so a reader of movies is never blocked by a writer of TV items.
type sourceCache struct {
	mu          sync.RWMutex
	items       []types.QueueItem
	ready       bool
	lastRefresh time.Time
}

// QueueCache holds the latest known queue items per source plus readiness
// flags. The orchestrator is the sole writer; all readers receive copies.
type QueueCache struct {
	sources map[Source]*sourceCache
}

func NewQueueCache() *QueueCache {
	return &QueueCache{sources: map[Source]*sourceCache{
		SourceRadarr: {},
		SourceSonarr: {},
	}}
}

func (c *QueueCache) cacheFor(src Source) *sourceCache {
	return c.sources[src]
}

// Update replaces the cached item list for src with a copy and marks the
// source ready. Called only by the orchestrator on a successful poll.
func (c *QueueCache) Update(src Source, items []types.QueueItem) {
	sc := c.cacheFor(src)
	if sc == nil {
		return
	}
	cp := make([]types.QueueItem, len(items))
	copy(cp, items)
	sc.mu.Lock()
	sc.items = cp
	sc.ready = true
	sc.lastRefresh = time.Now()
	sc.mu.Unlock()
}

// MarkFailed forces ready=false after a failed poll. The previous item list
// is retained (stale-but-available); whether to display it is the caller's
// policy, not the cache's.
func (c *QueueCache) MarkFailed(src Source) {
	sc := c.cacheFor(src)
	if sc == nil {
		return
	}
	sc.mu.Lock()
	sc.ready = false
	sc.mu.Unlock()
}

// Snapshot returns a defensive copy of the cached items for src.
func (c *QueueCache) Snapshot(src Source) []types.QueueItem {
	sc := c.cacheFor(src)
	if sc == nil {
		return nil
	}
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	out := make([]types.QueueItem, len(sc.items))
	copy(out, sc.items)
	return out
}

// IsFullyReady reports whether the most recent poll of every source
// succeeded.
func (c *QueueCache) IsFullyReady() bool {
	for _, sc := range c.sources {
		sc.mu.RLock()
		ready := sc.ready
		sc.mu.RUnlock()
		if !ready {
			return false
		}
	}
	return true
}

// IsReady reports whether the most recent poll of src succeeded.
func (c *QueueCache) IsReady(src Source) bool {
	sc := c.cacheFor(src)
	if sc == nil {
		return false
	}
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.ready
}

// LastRefresh returns the time of the last successful poll of src.
func (c *QueueCache) LastRefresh(src Source) time.Time {
	sc := c.cacheFor(src)
	if sc == nil {
		return time.Time{}
	}
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.lastRefresh
}

// Len returns the number of cached items for src.
func (c *QueueCache) Len(src Source) int {
	sc := c.cacheFor(src)
	if sc == nil {
		return 0
	}
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return len(sc.items)
}
