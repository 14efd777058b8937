package monitor

import (
	"time"

	"github.com/rs/zerolog"
)

// Defaults applied when corresponding Config fields are unset.
const (
	defaultRefreshInterval   = 30 * time.Second
	defaultSourceTimeout     = 10 * time.Second
	defaultJoinTimeout       = 5 * time.Second
	defaultStuckThreshold    = 120 * time.Minute
	defaultMinProgressChange = 1.0
	defaultMinSizeChange     = 100 * 1024 * 1024
	defaultHistoryWindow     = 4 * time.Hour
	defaultMaxSnapshots      = 50
)

// Config encapsulates all tunables for Orchestrator construction.
type Config struct {
	// Radarr and Sonarr queue clients. A nil client disables that source.
	Radarr QueueClient
	Sonarr QueueClient

	// RefreshInterval is the fixed poll cadence; it doubles as the retry
	// policy for failed sources (no backoff).
	RefreshInterval time.Duration
	// SourceTimeout bounds each per-source upstream call.
	SourceTimeout time.Duration
	// JoinTimeout bounds how long Stop waits for an in-flight cycle.
	JoinTimeout time.Duration

	// Stall detection tunables.
	StuckThreshold    time.Duration
	MinProgressChange float64
	MinSizeChange     int64

	// Progress history retention.
	HistoryWindow time.Duration
	MaxSnapshots  int

	Logger    zerolog.Logger
	Publisher EventPublisher
	Verbose   bool
}

// NewWithConfig constructs an Orchestrator from Config, applying defaults.
func NewWithConfig(cfg Config) *Orchestrator {
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = defaultRefreshInterval
	}
	if cfg.SourceTimeout <= 0 {
		cfg.SourceTimeout = defaultSourceTimeout
	}
	if cfg.JoinTimeout <= 0 {
		cfg.JoinTimeout = defaultJoinTimeout
	}
	if cfg.StuckThreshold <= 0 {
		cfg.StuckThreshold = defaultStuckThreshold
	}
	if cfg.MinProgressChange <= 0 {
		cfg.MinProgressChange = defaultMinProgressChange
	}
	if cfg.MinSizeChange <= 0 {
		cfg.MinSizeChange = defaultMinSizeChange
	}
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = defaultHistoryWindow
	}
	if cfg.MaxSnapshots <= 0 {
		cfg.MaxSnapshots = defaultMaxSnapshots
	}
	if cfg.Publisher == nil {
		cfg.Publisher = noopPublisher{}
	}

	clients := make(map[Source]QueueClient)
	if cfg.Radarr != nil {
		clients[SourceRadarr] = cfg.Radarr
	}
	if cfg.Sonarr != nil {
		clients[SourceSonarr] = cfg.Sonarr
	}

	store := newProgressStore(cfg.MaxSnapshots, cfg.HistoryWindow, cfg.Logger)
	o := &Orchestrator{
		cfg:       cfg,
		clients:   clients,
		cache:     NewQueueCache(),
		store:     store,
		detector:  &StallDetector{store: store, threshold: cfg.StuckThreshold, minProgress: cfg.MinProgressChange, minSize: cfg.MinSizeChange},
		estimator: &ThroughputEstimator{store: store},
		pub:       cfg.Publisher,
		log:       cfg.Logger,
		startTime: time.Now(),
	}
	o.verbose.Store(cfg.Verbose)
	return o
}
