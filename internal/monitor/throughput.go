package monitor

import (
	"math"

	"arrmon/pkg/types"
)

// ThroughputEstimator derives transfer rates from the progress history.
type ThroughputEstimator struct {
	store *ProgressStore
}

// Speeds returns one MiB/s sample per consecutive snapshot pair where time
// advanced and sizeLeft strictly decreased. Pairs with zero or negative
// deltas are skipped: no progress, no division, no negative speed.
func (e *ThroughputEstimator) Speeds() []float64 {
	var speeds []float64
	e.store.forEach(func(_ DownloadID, hist []Snapshot) {
		for i := 1; i < len(hist); i++ {
			prev, curr := hist[i-1], hist[i]
			dt := curr.Taken.Sub(prev.Taken).Seconds()
			if dt <= 0 {
				continue
			}
			downloaded := prev.SizeLeft - curr.SizeLeft
			if downloaded <= 0 {
				continue
			}
			speeds = append(speeds, float64(downloaded)/(1024*1024)/dt)
		}
	})
	return speeds
}

// Statistics reports aggregate tracking statistics, including the slowest
// and fastest observed transfer rates (both zero when no samples exist).
func (e *ThroughputEstimator) Statistics() types.TrackerStats {
	totalDownloads := 0
	totalSnapshots := 0
	e.store.forEach(func(_ DownloadID, hist []Snapshot) {
		totalDownloads++
		totalSnapshots += len(hist)
	})
	if totalDownloads == 0 {
		return types.TrackerStats{}
	}

	stats := types.TrackerStats{
		TotalDownloads:          totalDownloads,
		TotalSnapshots:          totalSnapshots,
		AvgSnapshotsPerDownload: round1(float64(totalSnapshots) / float64(totalDownloads)),
		// Rough estimate: ~100 bytes per snapshot.
		MemoryEstimateKB: round1(float64(totalSnapshots) * 100 / 1024),
	}
	speeds := e.Speeds()
	if len(speeds) > 0 {
		min, max := speeds[0], speeds[0]
		for _, v := range speeds[1:] {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		stats.MinSpeedMiBps = round1(min)
		stats.MaxSpeedMiBps = round1(max)
	}
	return stats
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
