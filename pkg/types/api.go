package types

// SourceStatus summarizes one upstream queue for GET /status.
type SourceStatus struct {
	// Source name: radarr or sonarr.
	// example: radarr
	Name string `json:"name" example:"radarr"`
	// True once the most recent poll of this source succeeded.
	// example: true
	Ready bool `json:"ready" example:"true"`
	// Number of items currently cached for this source.
	// example: 7
	Items int `json:"items" example:"7"`
	// Last successful refresh of this source (unix seconds, 0 if never).
	// example: 1700000000
	LastRefreshUnix int64 `json:"last_refresh_unix" example:"1700000000"`
}

// TrackerStats reports aggregate progress-history statistics.
type TrackerStats struct {
	// Number of downloads with recorded history.
	// example: 9
	TotalDownloads int `json:"total_downloads" example:"9"`
	// Total snapshots across all downloads.
	// example: 180
	TotalSnapshots int `json:"total_snapshots" example:"180"`
	// Average snapshots per download, one decimal.
	// example: 20.0
	AvgSnapshotsPerDownload float64 `json:"avg_snapshots_per_download" example:"20.0"`
	// Rough memory estimate in KB (~100 bytes per snapshot).
	// example: 17.6
	MemoryEstimateKB float64 `json:"memory_estimate_kb" example:"17.6"`
	// Slowest observed transfer rate in MiB/s (0 when no samples).
	// example: 1.2
	MinSpeedMiBps float64 `json:"min_speed_mibps" example:"1.2"`
	// Fastest observed transfer rate in MiB/s (0 when no samples).
	// example: 47.7
	MaxSpeedMiBps float64 `json:"max_speed_mibps" example:"47.7"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Per-source readiness and cache summary.
	Sources []SourceStatus `json:"sources"`
	// True when every configured source is ready.
	// example: true
	Ready bool `json:"ready" example:"true"`
	// Completed refresh cycles since start.
	// example: 120
	RefreshesTotal uint64 `json:"refreshes_total" example:"120"`
	// Failed source polls since start.
	// example: 3
	RefreshFailures uint64 `json:"refresh_failures" example:"3"`
	// Uptime of the daemon in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
	// Progress-history statistics.
	Tracker TrackerStats `json:"tracker"`
}

// QueueResponse wraps a cached queue for GET /queue/{source}.
// Items may be stale when Ready is false; the caller decides whether to
// display them or treat the source as loading.
type QueueResponse struct {
	// Source name: radarr or sonarr.
	// example: sonarr
	Source string `json:"source" example:"sonarr"`
	// Whether the most recent poll of this source succeeded.
	// example: true
	Ready bool `json:"ready" example:"true"`
	// Last successful refresh (unix seconds, 0 if never).
	// example: 1700000000
	LastRefreshUnix int64 `json:"last_refresh_unix" example:"1700000000"`
	// Cached queue items.
	Items []QueueItem `json:"items"`
}

// StuckDownload describes one download classified as stalled.
type StuckDownload struct {
	// Composite id, e.g. "radarr_1203".
	// example: radarr_1203
	DownloadID string `json:"download_id" example:"radarr_1203"`
	// Source name: radarr or sonarr.
	// example: radarr
	Source string `json:"source" example:"radarr"`
	// Upstream queue record id.
	// example: 1203
	ID int64 `json:"id" example:"1203"`
	// Display title.
	Title string `json:"title"`
	// Status at the newest snapshot.
	// example: downloading
	Status string `json:"status" example:"downloading"`
	// Progress percent at the newest snapshot.
	// example: 50.2
	Progress float64 `json:"progress" example:"50.2"`
	// Bytes remaining at the newest snapshot.
	// example: 999900000
	SizeLeft int64 `json:"size_left_bytes" example:"999900000"`
	// Minutes spanned by the evidence window.
	// example: 130.0
	StuckMinutes float64 `json:"stuck_minutes" example:"130.0"`
	// Absolute progress change over the window, percent.
	// example: 0.2
	ProgressDelta float64 `json:"progress_delta" example:"0.2"`
	// Absolute size change over the window, bytes.
	// example: 100000
	SizeDelta int64 `json:"size_delta_bytes" example:"100000"`
	// Download client handling the item.
	DownloadClient string `json:"download_client,omitempty"`
	// Transfer protocol.
	Protocol string `json:"protocol,omitempty"`
}

// ProgressSummary summarizes recorded history for one download.
type ProgressSummary struct {
	// Composite id, e.g. "sonarr_88".
	DownloadID string `json:"download_id"`
	// Display title at the latest snapshot.
	Title string `json:"title"`
	// Progress percent at the latest snapshot.
	Progress float64 `json:"progress"`
	// Status at the latest snapshot.
	Status string `json:"status"`
	// Number of snapshots currently retained.
	Snapshots int `json:"snapshots"`
	// Seconds between oldest and newest retained snapshot.
	TrackingSeconds int64 `json:"tracking_seconds"`
	// Progress change from oldest to newest snapshot, percent.
	ProgressDelta float64 `json:"progress_delta"`
	// Bytes downloaded from oldest to newest snapshot.
	SizeDelta int64 `json:"size_delta_bytes"`
}

// ServiceHealth is the probe result for one external service.
type ServiceHealth struct {
	// online, offline, error, disabled or unknown.
	// example: online
	Status string `json:"status" example:"online"`
	// Probe round-trip in milliseconds.
	// example: 42.1
	LatencyMS float64 `json:"latency_ms,omitempty" example:"42.1"`
	// Service version when the probe could read it.
	// example: 5.4.6.8723
	Version string `json:"version,omitempty" example:"5.4.6.8723"`
	// Time of the last probe (unix seconds, 0 if never probed).
	CheckedAtUnix int64 `json:"checked_at_unix,omitempty"`
	// Probe failure detail for error status.
	Error string `json:"error,omitempty"`
}

// RemoveStuckRequest is the body for POST /stuck/remove.
type RemoveStuckRequest struct {
	// Source name: radarr or sonarr.
	// example: radarr
	Source string `json:"source" example:"radarr"`
	// Upstream queue record ids to delete.
	// example: ["1203","1204"]
	IDs []string `json:"ids" example:"[\"1203\",\"1204\"]"`
}

// RemovedResponse reports how many queue records a removal deleted.
type RemovedResponse struct {
	// Number of records removed.
	// example: 2
	Removed int `json:"removed" example:"2"`
}

// VerboseRequest is the body for POST /verbose.
type VerboseRequest struct {
	// Desired verbose state.
	// example: true
	Enabled bool `json:"enabled" example:"true"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: unknown source: plex
	Error string `json:"error" example:"unknown source: plex"`
	// HTTP status code.
	// example: 404
	Code int `json:"code" example:"404"`
}
