package monitor

import (
	"context"
	"time"

	"arrmon/pkg/types"
)

// API-facing operations. Source names arrive as strings from the HTTP layer
// and are validated here so handlers only deal with error mapping.

// Queue returns the cached queue for the named source. Items may be stale
// when Ready is false; they are returned either way and the caller decides
// whether to render them or a loading placeholder.
func (o *Orchestrator) Queue(source string) (types.QueueResponse, error) {
	src, err := ParseSource(source)
	if err != nil {
		return types.QueueResponse{}, err
	}
	if _, ok := o.clients[src]; !ok {
		return types.QueueResponse{}, ErrSourceUnavailable(src)
	}
	resp := types.QueueResponse{
		Source: string(src),
		Ready:  o.cache.IsReady(src),
		Items:  o.cache.Snapshot(src),
	}
	if t := o.cache.LastRefresh(src); !t.IsZero() {
		resp.LastRefreshUnix = t.Unix()
	}
	return resp, nil
}

// Stuck returns all downloads currently classified as stalled.
func (o *Orchestrator) Stuck() []types.StuckDownload {
	return o.detector.AnalyzeStuck(time.Now())
}

// Stats returns aggregate progress-tracking statistics.
func (o *Orchestrator) Stats() types.TrackerStats {
	return o.estimator.Statistics()
}

// ProgressSummary reports recorded history for one download.
func (o *Orchestrator) ProgressSummary(source string, itemID int64) (types.ProgressSummary, error) {
	src, err := ParseSource(source)
	if err != nil {
		return types.ProgressSummary{}, err
	}
	sum, ok := o.store.Summary(DownloadID{Source: src, ItemID: itemID})
	if !ok {
		return types.ProgressSummary{}, ErrDownloadNotFound(DownloadID{Source: src, ItemID: itemID})
	}
	return sum, nil
}

// RemoveInactive asks the named source to delete failed/completed/warning
// queue records. Operator-facing; the core loop never removes anything.
func (o *Orchestrator) RemoveInactive(ctx context.Context, source string) (int, error) {
	client, err := o.clientFor(source)
	if err != nil {
		return 0, err
	}
	return client.RemoveInactiveItems(ctx)
}

// RemoveStuck asks the named source to delete the given queue record ids.
func (o *Orchestrator) RemoveStuck(ctx context.Context, source string, ids []string) (int, error) {
	client, err := o.clientFor(source)
	if err != nil {
		return 0, err
	}
	return client.RemoveStuckDownloads(ctx, ids)
}

// RemoveAll asks the named source to empty its queue entirely.
func (o *Orchestrator) RemoveAll(ctx context.Context, source string) (int, error) {
	client, err := o.clientFor(source)
	if err != nil {
		return 0, err
	}
	return client.RemoveAllItems(ctx)
}

func (o *Orchestrator) clientFor(source string) (QueueClient, error) {
	src, err := ParseSource(source)
	if err != nil {
		return nil, err
	}
	client, ok := o.clients[src]
	if !ok {
		return nil, ErrSourceUnavailable(src)
	}
	return client, nil
}
