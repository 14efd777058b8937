package monitor

import (
	"fmt"
	"strings"
	"time"
)

// Source identifies one upstream download queue.
type Source string

const (
	SourceRadarr Source = "radarr"
	SourceSonarr Source = "sonarr"
)

// DownloadStatus is the normalized lifecycle state of a queue item.
type DownloadStatus string

const (
	StatusDownloading DownloadStatus = "downloading"
	StatusQueued      DownloadStatus = "queued"
	StatusCompleted   DownloadStatus = "completed"
	StatusFailed      DownloadStatus = "failed"
	StatusWarning     DownloadStatus = "warning"
	StatusImporting   DownloadStatus = "importing"
	StatusOther       DownloadStatus = "other"
)

// ParseStatus maps an upstream status string to a DownloadStatus.
// Unrecognized values become StatusOther rather than an error; the services
// grow new states over time and the detector only cares about a few of them.
func ParseStatus(s string) DownloadStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "downloading":
		return StatusDownloading
	case "queued", "queue", "paused", "delay", "downloadclientunavailable":
		return StatusQueued
	case "completed":
		return StatusCompleted
	case "failed":
		return StatusFailed
	case "warning":
		return StatusWarning
	case "importing", "importpending", "importblocked":
		return StatusImporting
	default:
		return StatusOther
	}
}

// DownloadID is the composite key for one tracked download. The upstream
// numeric id is only unique per source, and may be reissued after removal;
// purge-on-absence keeps the resulting collision window to one cycle.
type DownloadID struct {
	Source Source
	ItemID int64
}

func (id DownloadID) String() string {
	return fmt.Sprintf("%s_%d", id.Source, id.ItemID)
}

// Snapshot is one point-in-time measurement of a tracked download.
// Created only by the orchestrator during ingestion, never mutated after.
type Snapshot struct {
	Taken          time.Time
	Progress       float64
	SizeLeft       int64
	Status         DownloadStatus
	Title          string
	DownloadClient string
	Protocol       string
}
