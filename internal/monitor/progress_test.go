package monitor

import (
	"testing"
	"time"

	"arrmon/pkg/types"
)

func TestRecordBoundsHistoryPerDownload(t *testing.T) {
	s := newTestStore(3, 4*time.Hour)
	base := time.Now()
	for i := 0; i < 5; i++ {
		s.Record([]types.QueueItem{qi(1, "movie", float64(i), 1000, "downloading")}, SourceRadarr, base.Add(time.Duration(i)*time.Minute))
	}
	sum, ok := s.Summary(DownloadID{Source: SourceRadarr, ItemID: 1})
	if !ok {
		t.Fatal("expected summary for tracked download")
	}
	if sum.Snapshots != 3 {
		t.Fatalf("Snapshots = %d, want 3", sum.Snapshots)
	}
	// Oldest retained snapshot is the third one (progress 2).
	if sum.ProgressDelta != 2 {
		t.Fatalf("ProgressDelta = %v, want 2", sum.ProgressDelta)
	}
}

func TestRecordPurgesDownloadsThatLeftTheQueue(t *testing.T) {
	s := newTestStore(50, 4*time.Hour)
	now := time.Now()
	s.Record([]types.QueueItem{
		qi(1, "one", 10, 1000, "downloading"),
		qi(2, "two", 20, 2000, "downloading"),
	}, SourceRadarr, now)

	purged := s.Record([]types.QueueItem{qi(1, "one", 11, 990, "downloading")}, SourceRadarr, now.Add(time.Minute))
	if len(purged) != 1 || purged[0] != (DownloadID{Source: SourceRadarr, ItemID: 2}) {
		t.Fatalf("purged = %v, want [radarr_2]", purged)
	}
	if _, ok := s.Summary(DownloadID{Source: SourceRadarr, ItemID: 2}); ok {
		t.Fatal("history for the removed download should be gone")
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
}

func TestRecordPurgeIsScopedToOneSource(t *testing.T) {
	s := newTestStore(50, 4*time.Hour)
	now := time.Now()
	s.Record([]types.QueueItem{qi(7, "movie", 10, 1000, "downloading")}, SourceRadarr, now)
	s.Record([]types.QueueItem{qi(7, "episode", 10, 1000, "downloading")}, SourceSonarr, now)

	// An empty radarr batch purges only the radarr entry.
	s.Record(nil, SourceRadarr, now.Add(time.Minute))
	if _, ok := s.Summary(DownloadID{Source: SourceRadarr, ItemID: 7}); ok {
		t.Fatal("radarr entry should be purged")
	}
	if _, ok := s.Summary(DownloadID{Source: SourceSonarr, ItemID: 7}); !ok {
		t.Fatal("sonarr entry should survive a radarr purge")
	}
}

func TestRecordSkipsMalformedItems(t *testing.T) {
	s := newTestStore(50, 4*time.Hour)
	s.Record([]types.QueueItem{{ID: 0, Title: ""}}, SourceRadarr, time.Now())
	if s.Len() != 0 {
		t.Fatalf("Len = %d, want 0 after malformed item", s.Len())
	}
}

func TestRecordClampsNegativeSizeLeft(t *testing.T) {
	s := newTestStore(50, 4*time.Hour)
	item := qi(3, "movie", 50, -500, "downloading")
	s.Record([]types.QueueItem{item}, SourceRadarr, time.Now())

	var got int64 = -1
	s.forEach(func(id DownloadID, hist []Snapshot) {
		got = hist[0].SizeLeft
	})
	if got != 0 {
		t.Fatalf("SizeLeft = %d, want 0", got)
	}
}

func TestRecordDuplicateIDLastValueWins(t *testing.T) {
	s := newTestStore(50, 4*time.Hour)
	s.Record([]types.QueueItem{
		qi(4, "first", 10, 1000, "downloading"),
		qi(4, "second", 20, 900, "downloading"),
	}, SourceRadarr, time.Now())

	sum, ok := s.Summary(DownloadID{Source: SourceRadarr, ItemID: 4})
	if !ok {
		t.Fatal("expected summary")
	}
	if sum.Snapshots != 1 {
		t.Fatalf("Snapshots = %d, want 1", sum.Snapshots)
	}
	if sum.Title != "second" || sum.Progress != 20 {
		t.Fatalf("latest = %q/%v, want second/20", sum.Title, sum.Progress)
	}
}

func TestWindowPruneKeepsNewestTwo(t *testing.T) {
	s := newTestStore(50, time.Hour)
	base := time.Now().Add(-3 * time.Hour)
	s.Record([]types.QueueItem{qi(5, "movie", 10, 1000, "downloading")}, SourceRadarr, base)
	s.Record([]types.QueueItem{qi(5, "movie", 11, 990, "downloading")}, SourceRadarr, base.Add(10*time.Minute))
	s.Record([]types.QueueItem{qi(5, "movie", 12, 980, "downloading")}, SourceRadarr, base.Add(3*time.Hour))

	sum, _ := s.Summary(DownloadID{Source: SourceRadarr, ItemID: 5})
	if sum.Snapshots != 2 {
		t.Fatalf("Snapshots = %d, want 2 (newest pair survives pruning)", sum.Snapshots)
	}
	if sum.ProgressDelta != 1 {
		t.Fatalf("ProgressDelta = %v, want 1 (from the retained pair)", sum.ProgressDelta)
	}
}

func TestWindowPruneDropsStaleSingletons(t *testing.T) {
	s := newTestStore(50, time.Hour)
	old := time.Now().Add(-2 * time.Hour)
	s.Record([]types.QueueItem{qi(8, "movie", 10, 1000, "downloading")}, SourceRadarr, old)

	// One source keeps recording while the other is down past the window;
	// the global prune must not leave an empty radarr entry behind.
	s.Record([]types.QueueItem{qi(1, "episode", 10, 1000, "downloading")}, SourceSonarr, time.Now())

	if _, ok := s.Summary(DownloadID{Source: SourceRadarr, ItemID: 8}); ok {
		t.Fatal("stale singleton should be dropped, not emptied")
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
}

func TestSummaryReportsDeltas(t *testing.T) {
	s := newTestStore(50, 4*time.Hour)
	base := time.Now()
	s.Record([]types.QueueItem{qi(6, "movie", 40, 600, "downloading")}, SourceRadarr, base)
	s.Record([]types.QueueItem{qi(6, "movie", 45, 550, "downloading")}, SourceRadarr, base.Add(90*time.Second))

	sum, ok := s.Summary(DownloadID{Source: SourceRadarr, ItemID: 6})
	if !ok {
		t.Fatal("expected summary")
	}
	if sum.DownloadID != "radarr_6" {
		t.Fatalf("DownloadID = %q", sum.DownloadID)
	}
	if sum.TrackingSeconds != 90 {
		t.Fatalf("TrackingSeconds = %d, want 90", sum.TrackingSeconds)
	}
	if sum.ProgressDelta != 5 || sum.SizeDelta != 50 {
		t.Fatalf("deltas = %v/%v, want 5/50", sum.ProgressDelta, sum.SizeDelta)
	}
	if sum.Status != "downloading" {
		t.Fatalf("Status = %q", sum.Status)
	}
}

func TestSummaryUnknownDownload(t *testing.T) {
	s := newTestStore(50, 4*time.Hour)
	if _, ok := s.Summary(DownloadID{Source: SourceSonarr, ItemID: 99}); ok {
		t.Fatal("expected no summary for untracked download")
	}
}
