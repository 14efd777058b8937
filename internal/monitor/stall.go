package monitor

import (
	"time"

	"arrmon/pkg/types"
)

// StallDetector classifies downloads whose progress and remaining size have
// not meaningfully changed over the configured threshold while still active.
type StallDetector struct {
	store       *ProgressStore
	threshold   time.Duration
	minProgress float64
	minSize     int64
}

// AnalyzeStuck inspects every tracked download and returns those classified
// as stalled. Output order is unspecified; callers sort for display.
//
// A download needs a snapshot at least one threshold old before it can be
// flagged, so it must survive a full threshold from first sight even if it
// never progressed at all.
func (d *StallDetector) AnalyzeStuck(now time.Time) []types.StuckDownload {
	var stuck []types.StuckDownload
	d.store.forEach(func(id DownloadID, hist []Snapshot) {
		if len(hist) < 2 {
			return
		}
		if info, ok := d.analyze(id, hist, now); ok {
			stuck = append(stuck, info)
		}
	})
	return stuck
}

func (d *StallDetector) analyze(id DownloadID, hist []Snapshot, now time.Time) (types.StuckDownload, bool) {
	// Baseline is the newest snapshot at least one threshold old. Without
	// one the download has not been observed long enough to judge.
	windowStart := now.Add(-d.threshold)
	base := -1
	for i, snap := range hist {
		if snap.Taken.After(windowStart) {
			break
		}
		base = i
	}
	if base < 0 || base == len(hist)-1 {
		return types.StuckDownload{}, false
	}

	oldest, newest := hist[base], hist[len(hist)-1]
	progressDelta := newest.Progress - oldest.Progress
	if progressDelta < 0 {
		progressDelta = -progressDelta
	}
	sizeDelta := oldest.SizeLeft - newest.SizeLeft
	if sizeDelta < 0 {
		sizeDelta = -sizeDelta
	}
	span := newest.Taken.Sub(oldest.Taken)

	// Terminal and error states are never stuck, they are done or failed.
	active := newest.Status == StatusDownloading || newest.Status == StatusQueued
	if span < d.threshold || progressDelta >= d.minProgress || sizeDelta >= d.minSize || !active {
		return types.StuckDownload{}, false
	}

	return types.StuckDownload{
		DownloadID:     id.String(),
		Source:         string(id.Source),
		ID:             id.ItemID,
		Title:          newest.Title,
		Status:         string(newest.Status),
		Progress:       newest.Progress,
		SizeLeft:       newest.SizeLeft,
		StuckMinutes:   span.Minutes(),
		ProgressDelta:  progressDelta,
		SizeDelta:      sizeDelta,
		DownloadClient: newest.DownloadClient,
		Protocol:       newest.Protocol,
	}, true
}
