package monitor

import (
	"testing"

	"arrmon/pkg/types"
)

func TestCacheUpdateAndSnapshot(t *testing.T) {
	c := NewQueueCache()
	items := []types.QueueItem{qi(1, "movie", 10, 1000, "downloading")}
	c.Update(SourceRadarr, items)

	if !c.IsReady(SourceRadarr) {
		t.Fatal("source should be ready after update")
	}
	if c.Len(SourceRadarr) != 1 {
		t.Fatalf("Len = %d, want 1", c.Len(SourceRadarr))
	}
	if c.LastRefresh(SourceRadarr).IsZero() {
		t.Fatal("LastRefresh should be set after update")
	}
}

func TestCacheSnapshotIsACopy(t *testing.T) {
	c := NewQueueCache()
	items := []types.QueueItem{qi(1, "movie", 10, 1000, "downloading")}
	c.Update(SourceRadarr, items)

	// Mutating the input and the snapshot must not leak into the cache.
	items[0].Title = "mutated input"
	snap := c.Snapshot(SourceRadarr)
	snap[0].Title = "mutated snapshot"

	again := c.Snapshot(SourceRadarr)
	if again[0].Title != "movie" {
		t.Fatalf("cached title = %q, want movie", again[0].Title)
	}
}

func TestCacheMarkFailedRetainsStaleItems(t *testing.T) {
	c := NewQueueCache()
	c.Update(SourceSonarr, []types.QueueItem{qi(2, "episode", 40, 500, "downloading")})
	c.MarkFailed(SourceSonarr)

	if c.IsReady(SourceSonarr) {
		t.Fatal("source should not be ready after a failed poll")
	}
	if c.Len(SourceSonarr) != 1 {
		t.Fatal("stale items should be retained after a failed poll")
	}
}

func TestCacheSourcesAreIndependent(t *testing.T) {
	c := NewQueueCache()
	c.Update(SourceRadarr, []types.QueueItem{qi(1, "movie", 10, 1000, "downloading")})

	if c.IsReady(SourceSonarr) {
		t.Fatal("sonarr should not become ready from a radarr update")
	}
	if c.Len(SourceSonarr) != 0 {
		t.Fatal("sonarr cache should be empty")
	}
}

func TestCacheIsFullyReady(t *testing.T) {
	c := NewQueueCache()
	if c.IsFullyReady() {
		t.Fatal("fresh cache should not be fully ready")
	}
	c.Update(SourceRadarr, nil)
	if c.IsFullyReady() {
		t.Fatal("one ready source is not fully ready")
	}
	c.Update(SourceSonarr, nil)
	if !c.IsFullyReady() {
		t.Fatal("both sources ready should be fully ready")
	}
	c.MarkFailed(SourceRadarr)
	if c.IsFullyReady() {
		t.Fatal("a failed source should drop full readiness")
	}
}

func TestCacheSnapshotNeverSeesPartialWrite(t *testing.T) {
	c := NewQueueCache()
	gen := func(tag string) []types.QueueItem {
		items := make([]types.QueueItem, 8)
		for i := range items {
			items[i] = qi(int64(i+1), tag, 10, 1000, "downloading")
		}
		return items
	}
	c.Update(SourceRadarr, gen("a"))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			if i%2 == 0 {
				c.Update(SourceRadarr, gen("b"))
			} else {
				c.Update(SourceRadarr, gen("a"))
			}
		}
	}()

	// Every snapshot must be one complete generation, never a mix.
	for i := 0; i < 500; i++ {
		snap := c.Snapshot(SourceRadarr)
		if len(snap) != 8 {
			t.Fatalf("snapshot = %d items, want 8", len(snap))
		}
		first := snap[0].Title
		for _, item := range snap {
			if item.Title != first {
				t.Fatalf("mixed generations in one snapshot: %q and %q", first, item.Title)
			}
		}
	}
	<-done
}

func TestCacheNotReadyBeforeFirstUpdate(t *testing.T) {
	c := NewQueueCache()
	if c.IsReady(SourceRadarr) || c.IsReady(SourceSonarr) {
		t.Fatal("no source should be ready before the first poll")
	}
	if !c.LastRefresh(SourceRadarr).IsZero() {
		t.Fatal("LastRefresh should be zero before the first poll")
	}
}
