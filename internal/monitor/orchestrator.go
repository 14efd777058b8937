package monitor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"arrmon/pkg/types"
)

// QueueClient is the upstream collaborator contract for one source. The
// orchestrator only polls; the removal operations back operator commands.
// Tests substitute a fake implementation instead of a live service.
type QueueClient interface {
	Name() string
	GetQueueItems(ctx context.Context) ([]types.QueueItem, error)
	GetDownloadUpdates(ctx context.Context) error
	RemoveInactiveItems(ctx context.Context) (int, error)
	RemoveStuckDownloads(ctx context.Context, ids []string) (int, error)
	RemoveAllItems(ctx context.Context) (int, error)
}

// Orchestrator owns the refresh loop: it polls each configured source on a
// fixed interval, updates the queue cache, and feeds new items into the
// progress store. It is the sole writer of both structures.
type Orchestrator struct {
	cfg       Config
	clients   map[Source]QueueClient
	cache     *QueueCache
	store     *ProgressStore
	detector  *StallDetector
	estimator *ThroughputEstimator
	pub       EventPublisher
	log       zerolog.Logger
	startTime time.Time

	verbose atomic.Bool

	refreshes uint64 // completed cycles
	failures  uint64 // failed source polls

	mu          sync.Mutex // guards lastRefresh, cancel, done
	lastRefresh time.Time
	cancel      context.CancelFunc
	done        chan struct{}
}

// Start begins the periodic refresh loop. It is a no-op when already running.
func (o *Orchestrator) Start(ctx context.Context) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancel != nil {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	o.done = make(chan struct{})
	go o.run(runCtx, o.done)
	o.log.Info().Dur("interval", o.cfg.RefreshInterval).Msg("refresh loop started")
}

// Stop cancels the loop and blocks until the in-flight cycle completes or
// the join timeout elapses. An in-flight per-source call is allowed to run
// out its own timeout rather than being hard-killed.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	cancel, done := o.cancel, o.done
	o.cancel, o.done = nil, nil
	o.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	select {
	case <-done:
	case <-time.After(o.cfg.JoinTimeout):
		o.log.Warn().Msg("refresh loop did not stop within join timeout")
	}
}

func (o *Orchestrator) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	// First cycle immediately so the cache fills without waiting an interval.
	o.refreshCycle(ctx, false)
	ticker := time.NewTicker(o.cfg.RefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.refreshCycle(ctx, false)
		}
	}
}

// RefreshNow runs one refresh cycle outside the normal cadence, bypassing
// the freshness skip. Used by the admin surface.
func (o *Orchestrator) RefreshNow(ctx context.Context) error {
	o.refreshCycle(ctx, true)
	return ctx.Err()
}

func (o *Orchestrator) refreshCycle(ctx context.Context, forced bool) {
	if ctx.Err() != nil {
		return
	}
	// Skip when everything is fresh and healthy; a failed source keeps its
	// ready flag down and therefore keeps the cycle running every interval.
	o.mu.Lock()
	fresh := time.Since(o.lastRefresh) < o.cfg.RefreshInterval
	o.mu.Unlock()
	if !forced && fresh && o.allReady() {
		return
	}

	start := time.Now()
	var wg sync.WaitGroup
	for src, client := range o.clients {
		wg.Add(1)
		go func(src Source, client QueueClient) {
			defer wg.Done()
			o.refreshSource(ctx, src, client)
		}(src, client)
	}
	wg.Wait()

	// lastRefresh moves once per cycle, even when every source failed, so
	// retry frequency stays bounded by the interval. It records the cycle
	// start: stamping the end would make the next tick look fresh by the
	// cycle's own duration and skip every other interval.
	o.mu.Lock()
	o.lastRefresh = start
	o.mu.Unlock()
	atomic.AddUint64(&o.refreshes, 1)
	trackedDownloads.Set(float64(o.store.Len()))
}

// refreshSource polls one source under its own timeout. A failure here is
// isolated: it never blocks or fails the other source.
func (o *Orchestrator) refreshSource(ctx context.Context, src Source, client QueueClient) {
	callCtx, cancel := context.WithTimeout(ctx, o.cfg.SourceTimeout)
	defer cancel()

	items, err := client.GetQueueItems(callCtx)
	if err != nil {
		atomic.AddUint64(&o.failures, 1)
		refreshTotal.WithLabelValues(string(src), "failure").Inc()
		o.cache.MarkFailed(src)
		o.log.Error().Err(err).Str("source", string(src)).Msg("queue poll failed")
		o.pub.Publish(Event{Name: EventRefreshFailure, Source: src, Fields: map[string]any{"error": err.Error()}})
		return
	}

	// Cache update happens before the history record so a concurrent stall
	// query never sees history for items the cache does not yet know about.
	o.cache.Update(src, items)
	purged := o.store.Record(items, src, time.Now())
	if len(purged) > 0 {
		ids := make([]string, len(purged))
		for i, id := range purged {
			ids[i] = id.String()
		}
		o.pub.Publish(Event{Name: EventHistoryPurged, Source: src, Fields: map[string]any{"ids": ids}})
	}

	// Best-effort side channel; errors are logged, never propagated.
	if err := client.GetDownloadUpdates(callCtx); err != nil {
		o.log.Warn().Err(err).Str("source", string(src)).Msg("download updates failed")
	}

	refreshTotal.WithLabelValues(string(src), "success").Inc()
	cachedItems.WithLabelValues(string(src)).Set(float64(len(items)))
	if o.verbose.Load() {
		o.log.Debug().Str("source", string(src)).Int("items", len(items)).Msg("queue refreshed")
	}
	o.pub.Publish(Event{Name: EventRefreshSuccess, Source: src, Fields: map[string]any{"items": len(items)}})
}

// allReady reports whether every configured source is ready.
func (o *Orchestrator) allReady() bool {
	for src := range o.clients {
		if !o.cache.IsReady(src) {
			return false
		}
	}
	return len(o.clients) > 0
}

// Ready reports whether every configured source has loaded at least once.
func (o *Orchestrator) Ready() bool { return o.allReady() }

// SetVerbose toggles per-cycle debug logging at runtime.
func (o *Orchestrator) SetVerbose(v bool) {
	o.verbose.Store(v)
	o.log.Info().Bool("verbose", v).Msg("verbose mode changed")
}
