package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"arrmon/pkg/types"
)

// fakeClient is a scriptable QueueClient for orchestrator tests.
type fakeClient struct {
	name    string
	latency time.Duration // applied to each poll

	mu      sync.Mutex
	items   []types.QueueItem
	err     error
	polls   int
	updates int
	removed []string
}

func (f *fakeClient) Name() string { return f.name }

func (f *fakeClient) set(items []types.QueueItem, err error) {
	f.mu.Lock()
	f.items, f.err = items, err
	f.mu.Unlock()
}

func (f *fakeClient) pollCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.polls
}

func (f *fakeClient) GetQueueItems(ctx context.Context) ([]types.QueueItem, error) {
	if f.latency > 0 {
		time.Sleep(f.latency)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.polls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]types.QueueItem, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeClient) GetDownloadUpdates(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	return nil
}

func (f *fakeClient) RemoveInactiveItems(ctx context.Context) (int, error) { return 2, nil }

func (f *fakeClient) RemoveAllItems(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(f.items)
	f.items = nil
	return n, nil
}

func (f *fakeClient) RemoveStuckDownloads(ctx context.Context, ids []string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, ids...)
	return len(ids), nil
}

// qi builds a minimal queue item for tests.
func qi(id int64, title string, progress float64, sizeLeft int64, status string) types.QueueItem {
	return types.QueueItem{
		ID:       id,
		Title:    title,
		Progress: progress,
		Size:     sizeLeft * 2,
		SizeLeft: sizeLeft,
		Status:   status,
	}
}

func newTestStore(maxSnapshots int, window time.Duration) *ProgressStore {
	return newProgressStore(maxSnapshots, window, zerolog.Nop())
}
