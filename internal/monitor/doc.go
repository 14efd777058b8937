// Package monitor implements the queue cache and refresh orchestration core.
// It is structured into small files by concern:
//
//   - types.go: Source, DownloadStatus, DownloadID, Snapshot.
//   - config.go: Config and package defaults; NewWithConfig applies defaults.
//   - cache.go: QueueCache, per-source locked item lists and readiness flags.
//   - progress.go: ProgressStore, bounded per-download snapshot history.
//   - stall.go: StallDetector, stalled-transfer classification.
//   - throughput.go: ThroughputEstimator, speed samples and statistics.
//   - orchestrator.go: refresh loop, per-source isolation, Start/Stop.
//   - ops.go: API-facing operations (queues, stuck, removals).
//   - status_report.go: Status reporting for the HTTP layer.
//   - errors.go: error types and helpers (IsUnknownSource, ...).
//   - events.go: EventPublisher hook for refresh lifecycle events.
//   - metrics.go: Prometheus collectors.
//
// The orchestrator goroutine is the sole writer of the cache and the
// progress store; every read path receives copies. Upstream services are
// injected as QueueClient interfaces so tests substitute fakes.
package monitor
