package monitor

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"arrmon/pkg/types"
)

// ProgressStore keeps a bounded time-series of Snapshots per download.
// A single coarse RWMutex guards the map: writes arrive only from the
// orchestrator's Record call, while the stall detector and throughput
// estimator read concurrently with the next cycle.
type ProgressStore struct {
	mu           sync.RWMutex
	history      map[DownloadID][]Snapshot
	maxSnapshots int
	window       time.Duration
	log          zerolog.Logger
}

func newProgressStore(maxSnapshots int, window time.Duration, log zerolog.Logger) *ProgressStore {
	return &ProgressStore{
		history:      make(map[DownloadID][]Snapshot),
		maxSnapshots: maxSnapshots,
		window:       window,
		log:          log,
	}
}

// Record ingests one poll result for src: appends a Snapshot per item,
// deletes every entry for src whose id is absent from the batch, trims each
// entry to maxSnapshots, and prunes snapshots older than the history window
// (always keeping the newest two so a comparison stays possible).
// It returns the ids whose history was purged.
func (s *ProgressStore) Record(items []types.QueueItem, src Source, now time.Time) []DownloadID {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make(map[DownloadID]bool, len(items))
	for _, item := range items {
		if item.ID == 0 && item.Title == "" {
			s.log.Warn().Str("source", string(src)).Msg("skipping malformed queue item")
			continue
		}
		id := DownloadID{Source: src, ItemID: item.ID}
		sizeLeft := item.SizeLeft
		if sizeLeft < 0 {
			s.log.Warn().Str("download_id", id.String()).Int64("size_left", sizeLeft).
				Msg("negative size left, clamping to zero")
			sizeLeft = 0
		}
		snap := Snapshot{
			Taken:          now,
			Progress:       item.Progress,
			SizeLeft:       sizeLeft,
			Status:         ParseStatus(item.Status),
			Title:          item.Title,
			DownloadClient: item.DownloadClient,
			Protocol:       item.Protocol,
		}
		if active[id] {
			// Duplicate id within one batch: last value wins.
			s.log.Warn().Str("download_id", id.String()).Msg("duplicate id in batch")
			hist := s.history[id]
			hist[len(hist)-1] = snap
			continue
		}
		active[id] = true
		hist := append(s.history[id], snap)
		if len(hist) > s.maxSnapshots {
			hist = hist[len(hist)-s.maxSnapshots:]
		}
		s.history[id] = hist
	}

	// Purge entries for this source that left the queue. No tombstones: a
	// completed or removed download loses its history immediately.
	var purged []DownloadID
	for id := range s.history {
		if id.Source == src && !active[id] {
			delete(s.history, id)
			purged = append(purged, id)
		}
	}

	s.pruneWindowLocked(now)
	return purged
}

// pruneWindowLocked drops snapshots older than the history window from every
// entry, keeping at least the newest two even when both are stale.
func (s *ProgressStore) pruneWindowLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	for id, hist := range s.history {
		idx := 0
		for idx < len(hist) && hist[idx].Taken.Before(cutoff) {
			idx++
		}
		if len(hist)-idx < 2 && len(hist) >= 2 {
			idx = len(hist) - 2
		}
		if idx >= len(hist) {
			// Stale singleton: keep-newest-two only protects pairs, and an
			// emptied entry would inflate the statistics.
			delete(s.history, id)
			continue
		}
		if idx > 0 {
			s.history[id] = append([]Snapshot(nil), hist[idx:]...)
		}
	}
}

// Summary reports the recorded history for one download.
func (s *ProgressStore) Summary(id DownloadID) (types.ProgressSummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hist, ok := s.history[id]
	if !ok || len(hist) == 0 {
		return types.ProgressSummary{}, false
	}
	oldest, latest := hist[0], hist[len(hist)-1]
	return types.ProgressSummary{
		DownloadID:      id.String(),
		Title:           latest.Title,
		Progress:        latest.Progress,
		Status:          string(latest.Status),
		Snapshots:       len(hist),
		TrackingSeconds: int64(latest.Taken.Sub(oldest.Taken).Seconds()),
		ProgressDelta:   latest.Progress - oldest.Progress,
		SizeDelta:       oldest.SizeLeft - latest.SizeLeft,
	}, true
}

// Len returns the number of tracked downloads.
func (s *ProgressStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}

// forEach invokes fn for every entry under the read lock. fn must not retain
// the slice and must not call back into the store.
func (s *ProgressStore) forEach(fn func(id DownloadID, hist []Snapshot)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, hist := range s.history {
		fn(id, hist)
	}
}
