package types

// QueueItem is one normalized record from a Radarr or Sonarr download queue.
// Clients produce these; the monitor core treats most fields as opaque and
// only reads what the stall detector and throughput estimator need.
type QueueItem struct {
	// Upstream queue record id. May be reissued by the service after removal.
	// example: 1203
	ID int64 `json:"id"`
	// Resolved display title (movie title or "Series - S01E02").
	// example: Some Movie (2021)
	Title string `json:"title"`
	// Download progress in percent, 0-100.
	// example: 42.5
	Progress float64 `json:"progress"`
	// Total size of the release in bytes.
	// example: 8589934592
	Size int64 `json:"size_bytes"`
	// Bytes remaining to download.
	// example: 4294967296
	SizeLeft int64 `json:"size_left_bytes"`
	// Upstream status (downloading, queued, completed, failed, warning, importing, ...).
	// example: downloading
	Status string `json:"status"`
	// Transfer protocol reported by the download client.
	// example: torrent
	Protocol string `json:"protocol,omitempty"`
	// Name of the download client handling this item.
	// example: qbittorrent
	DownloadClient string `json:"download_client,omitempty"`
	// Upstream error message, if any.
	ErrorMessage string `json:"error_message,omitempty"`
	// Time the item was added to the queue (RFC3339, upstream format).
	Added string `json:"added,omitempty"`
	// Estimated completion time as reported upstream (RFC3339), may be empty.
	EstimatedCompletion string `json:"estimated_completion,omitempty"`
	// Raw time-left string from the queue record (e.g. "01:23:45").
	TimeLeft string `json:"time_left,omitempty"`
}
