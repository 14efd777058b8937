package arr

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"arrmon/pkg/types"
)

// queueRecord mirrors one /api/v3/queue record. Radarr and Sonarr share the
// envelope; only the media reference fields differ.
type queueRecord struct {
	ID                      int64   `json:"id"`
	Title                   string  `json:"title"`
	MovieID                 int64   `json:"movieId"`
	SeriesID                int64   `json:"seriesId"`
	EpisodeID               int64   `json:"episodeId"`
	SeasonNumber            int     `json:"seasonNumber"`
	Size                    float64 `json:"size"`
	SizeLeft                float64 `json:"sizeleft"`
	Status                  string  `json:"status"`
	TrackedDownloadState    string  `json:"trackedDownloadState"`
	Protocol                string  `json:"protocol"`
	DownloadClient          string  `json:"downloadClient"`
	ErrorMessage            string  `json:"errorMessage"`
	Added                   string  `json:"added"`
	TimeLeft                string  `json:"timeleft"`
	EstimatedCompletionTime string  `json:"estimatedCompletionTime"`
}

type queuePage struct {
	Records      []queueRecord `json:"records"`
	TotalRecords int           `json:"totalRecords"`
}

// statuses whose queue records RemoveInactiveItems deletes.
var inactiveStatuses = map[string]bool{
	"failed":    true,
	"completed": true,
	"warning":   true,
}

// fetchQueue pulls the raw queue with the service-specific params.
func (c *client) fetchQueue(ctx context.Context, params url.Values) ([]queueRecord, error) {
	var page queuePage
	if err := c.getJSON(ctx, "queue", params, &page); err != nil {
		return nil, err
	}
	return page.Records, nil
}

// toQueueItem normalizes one record. Progress is derived from sizeleft/size
// when the sizes are usable; trackedDownloadState wins over the transport
// status because it reflects what the service is actually doing.
func toQueueItem(rec queueRecord, title string) types.QueueItem {
	progress := 0.0
	if rec.Size > 0 {
		progress = 100 * (1 - rec.SizeLeft/rec.Size)
	}
	status := rec.TrackedDownloadState
	if status == "" {
		status = rec.Status
	}
	return types.QueueItem{
		ID:                  rec.ID,
		Title:               title,
		Progress:            progress,
		Size:                int64(rec.Size),
		SizeLeft:            int64(rec.SizeLeft),
		Status:              status,
		Protocol:            rec.Protocol,
		DownloadClient:      rec.DownloadClient,
		ErrorMessage:        rec.ErrorMessage,
		Added:               rec.Added,
		EstimatedCompletion: rec.EstimatedCompletionTime,
		TimeLeft:            rec.TimeLeft,
	}
}

// removeQueueItem deletes one queue record, leaving the download client
// alone and skipping the blocklist.
func (c *client) removeQueueItem(ctx context.Context, id string) error {
	params := url.Values{}
	params.Set("removeFromClient", "true")
	params.Set("blocklist", "false")
	return c.delete(ctx, "queue/"+id, params)
}

// removeInactive deletes every failed/completed/warning record in the queue
// and returns how many were removed. Individual failures are logged and do
// not abort the sweep.
func (c *client) removeInactive(ctx context.Context, params url.Values) (int, error) {
	records, err := c.fetchQueue(ctx, params)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, rec := range records {
		if !inactiveStatuses[strings.ToLower(rec.Status)] {
			continue
		}
		if err := c.removeQueueItem(ctx, fmt.Sprintf("%d", rec.ID)); err != nil {
			c.log.Error().Err(err).Int64("id", rec.ID).Msg("remove queue item failed")
			continue
		}
		removed++
	}
	return removed, nil
}

// removeAll deletes every record in the queue regardless of status and
// returns how many were removed. Same failure policy as removeInactive.
func (c *client) removeAll(ctx context.Context, params url.Values) (int, error) {
	records, err := c.fetchQueue(ctx, params)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, rec := range records {
		if err := c.removeQueueItem(ctx, fmt.Sprintf("%d", rec.ID)); err != nil {
			c.log.Error().Err(err).Int64("id", rec.ID).Msg("remove queue item failed")
			continue
		}
		removed++
	}
	return removed, nil
}

// removeByIDs deletes the given queue record ids and returns how many
// removals succeeded.
func (c *client) removeByIDs(ctx context.Context, ids []string) (int, error) {
	removed := 0
	for _, id := range ids {
		if err := c.removeQueueItem(ctx, id); err != nil {
			c.log.Error().Err(err).Str("id", id).Msg("remove stuck download failed")
			continue
		}
		removed++
	}
	return removed, nil
}

// progressDiff tracks the previous poll per item so GetDownloadUpdates can
// report only meaningful movement (new item, >=10 point delta, completion).
type progressDiff struct {
	mu   sync.Mutex
	prev map[int64]float64
}

// changed returns the items worth reporting and updates the baseline.
func (d *progressDiff) changed(items []types.QueueItem) (updates []types.QueueItem, completed int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.prev == nil {
		d.prev = make(map[int64]float64)
	}
	seen := make(map[int64]bool, len(items))
	for _, item := range items {
		seen[item.ID] = true
		last, ok := d.prev[item.ID]
		if !ok || abs(item.Progress-last) >= 10 {
			updates = append(updates, item)
			d.prev[item.ID] = item.Progress
		}
	}
	for id := range d.prev {
		if !seen[id] {
			delete(d.prev, id)
			completed++
		}
	}
	return updates, completed
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
