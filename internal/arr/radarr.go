package arr

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/rs/zerolog"

	"arrmon/pkg/types"
)

// Radarr is the movie queue client.
type Radarr struct {
	client
	diff progressDiff

	cacheMu    sync.Mutex
	movieCache map[int64]string // movieId -> title
}

func NewRadarr(baseURL, apiKey string, log zerolog.Logger) *Radarr {
	return &Radarr{
		client:     newClient(baseURL, apiKey, "radarr", log),
		movieCache: make(map[int64]string),
	}
}

func (r *Radarr) queueParams() url.Values {
	params := url.Values{}
	params.Set("pageSize", "1000")
	params.Set("page", "1")
	params.Set("sortKey", "timeleft")
	params.Set("sortDirection", "ascending")
	params.Set("includeMovie", "true")
	return params
}

// GetQueueItems returns every movie in the queue regardless of status.
// Records that fail title resolution keep the raw release title; a record
// is only dropped when it carries no usable identity at all.
func (r *Radarr) GetQueueItems(ctx context.Context) ([]types.QueueItem, error) {
	records, err := r.fetchQueue(ctx, r.queueParams())
	if err != nil {
		return nil, err
	}
	items := make([]types.QueueItem, 0, len(records))
	for _, rec := range records {
		if rec.ID == 0 && rec.Title == "" {
			r.log.Warn().Msg("skipping queue record without id or title")
			continue
		}
		items = append(items, toQueueItem(rec, r.movieTitle(ctx, rec)))
	}
	return items, nil
}

// movieTitle resolves the movie title via /movie/{id}, caching per client
// lifetime; falls back to the release title on the record.
func (r *Radarr) movieTitle(ctx context.Context, rec queueRecord) string {
	if rec.MovieID == 0 {
		if rec.Title != "" {
			return rec.Title
		}
		return "Unknown Movie"
	}
	r.cacheMu.Lock()
	title, ok := r.movieCache[rec.MovieID]
	r.cacheMu.Unlock()
	if ok {
		return title
	}

	var movie struct {
		Title string `json:"title"`
	}
	if err := r.getJSON(ctx, fmt.Sprintf("movie/%d", rec.MovieID), nil, &movie); err != nil || movie.Title == "" {
		if rec.Title != "" {
			return rec.Title
		}
		return "Unknown Movie"
	}
	r.cacheMu.Lock()
	r.movieCache[rec.MovieID] = movie.Title
	r.cacheMu.Unlock()
	return movie.Title
}

// GetDownloadUpdates is the best-effort side channel: it re-reads the active
// queue and logs items whose progress moved meaningfully since the last poll.
func (r *Radarr) GetDownloadUpdates(ctx context.Context) error {
	items, err := r.GetQueueItems(ctx)
	if err != nil {
		return err
	}
	active := items[:0:0]
	for _, item := range items {
		switch item.Status {
		case "downloading", "queued":
			active = append(active, item)
		}
	}
	updates, completed := r.diff.changed(active)
	for _, u := range updates {
		r.log.Debug().Str("title", u.Title).Float64("progress", u.Progress).Msg("download update")
	}
	if completed > 0 {
		r.log.Debug().Int("completed", completed).Msg("downloads left the queue")
	}
	return nil
}

// RemoveInactiveItems deletes failed/completed/warning queue records.
func (r *Radarr) RemoveInactiveItems(ctx context.Context) (int, error) {
	return r.removeInactive(ctx, r.queueParams())
}

// RemoveStuckDownloads deletes the given queue record ids.
func (r *Radarr) RemoveStuckDownloads(ctx context.Context, ids []string) (int, error) {
	return r.removeByIDs(ctx, ids)
}

// RemoveAllItems empties the queue regardless of status.
func (r *Radarr) RemoveAllItems(ctx context.Context) (int, error) {
	return r.removeAll(ctx, r.queueParams())
}
