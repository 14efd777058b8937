package arr

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/rs/zerolog"

	"arrmon/pkg/types"
)

// Sonarr is the TV episode queue client.
type Sonarr struct {
	client
	diff progressDiff

	cacheMu     sync.Mutex
	seriesCache map[int64]string // seriesId -> title
	episodeInfo map[int64]episodeRef
}

type episodeRef struct {
	Season  int
	Episode int
}

func NewSonarr(baseURL, apiKey string, log zerolog.Logger) *Sonarr {
	return &Sonarr{
		client:      newClient(baseURL, apiKey, "sonarr", log),
		seriesCache: make(map[int64]string),
		episodeInfo: make(map[int64]episodeRef),
	}
}

func (s *Sonarr) queueParams() url.Values {
	params := url.Values{}
	params.Set("pageSize", "1000")
	params.Set("page", "1")
	params.Set("sortKey", "timeleft")
	params.Set("sortDirection", "ascending")
	params.Set("includeSeries", "true")
	params.Set("includeEpisode", "true")
	return params
}

// GetQueueItems returns every episode in the queue regardless of status.
func (s *Sonarr) GetQueueItems(ctx context.Context) ([]types.QueueItem, error) {
	records, err := s.fetchQueue(ctx, s.queueParams())
	if err != nil {
		return nil, err
	}
	items := make([]types.QueueItem, 0, len(records))
	for _, rec := range records {
		if rec.ID == 0 && rec.Title == "" {
			s.log.Warn().Msg("skipping queue record without id or title")
			continue
		}
		items = append(items, toQueueItem(rec, s.episodeTitle(ctx, rec)))
	}
	return items, nil
}

// episodeTitle renders "Series - S01E02", resolving series and episode
// details with per-client caches and falling back to the release title.
func (s *Sonarr) episodeTitle(ctx context.Context, rec queueRecord) string {
	seriesTitle := "Unknown Series"
	if rec.SeriesID != 0 {
		s.cacheMu.Lock()
		title, ok := s.seriesCache[rec.SeriesID]
		s.cacheMu.Unlock()
		if !ok {
			var series struct {
				Title string `json:"title"`
			}
			if err := s.getJSON(ctx, fmt.Sprintf("series/%d", rec.SeriesID), nil, &series); err == nil && series.Title != "" {
				title = series.Title
				s.cacheMu.Lock()
				s.seriesCache[rec.SeriesID] = title
				s.cacheMu.Unlock()
			}
		}
		if title != "" {
			seriesTitle = title
		}
	} else if rec.Title != "" {
		return rec.Title
	}

	season, episode := rec.SeasonNumber, 0
	if rec.EpisodeID != 0 {
		s.cacheMu.Lock()
		ref, ok := s.episodeInfo[rec.EpisodeID]
		s.cacheMu.Unlock()
		if !ok {
			var ep struct {
				SeasonNumber  int `json:"seasonNumber"`
				EpisodeNumber int `json:"episodeNumber"`
			}
			if err := s.getJSON(ctx, fmt.Sprintf("episode/%d", rec.EpisodeID), nil, &ep); err == nil {
				ref = episodeRef{Season: ep.SeasonNumber, Episode: ep.EpisodeNumber}
				s.cacheMu.Lock()
				s.episodeInfo[rec.EpisodeID] = ref
				s.cacheMu.Unlock()
			}
		}
		if ref.Season != 0 {
			season = ref.Season
		}
		episode = ref.Episode
	}
	return fmt.Sprintf("%s - S%02dE%02d", seriesTitle, season, episode)
}

// GetDownloadUpdates is the best-effort side channel; see Radarr's variant.
func (s *Sonarr) GetDownloadUpdates(ctx context.Context) error {
	items, err := s.GetQueueItems(ctx)
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
	updates, completed := s.diff.changed(active)
	for _, u := range updates {
		s.log.Debug().Str("title", u.Title).Float64("progress", u.Progress).Msg("download update")
	}
	if completed > 0 {
		s.log.Debug().Int("completed", completed).Msg("downloads left the queue")
	}
	return nil
}

// RemoveInactiveItems deletes failed/completed/warning queue records.
func (s *Sonarr) RemoveInactiveItems(ctx context.Context) (int, error) {
	return s.removeInactive(ctx, s.queueParams())
}

// RemoveStuckDownloads deletes the given queue record ids.
func (s *Sonarr) RemoveStuckDownloads(ctx context.Context, ids []string) (int, error) {
	return s.removeByIDs(ctx, ids)
}

// RemoveAllItems empties the queue regardless of status.
func (s *Sonarr) RemoveAllItems(ctx context.Context) (int, error) {
	return s.removeAll(ctx, s.queueParams())
}
