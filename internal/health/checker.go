// Package health probes the external services (Radarr, Sonarr, Plex) for
// liveness and keeps the latest result per service behind a lock.
package health

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"arrmon/pkg/types"
)

// Service status values.
const (
	StatusOnline   = "online"
	StatusOffline  = "offline"
	StatusError    = "error"
	StatusDisabled = "disabled"
	StatusUnknown  = "unknown"
)

// Target describes one service to probe. Radarr/Sonarr answer on
// /api/v3/system/status with an API key; Plex exposes /identity without auth.
type Target struct {
	Name     string
	URL      string
	APIKey   string
	Identity bool // probe /identity (Plex) instead of system/status
}

// Checker runs liveness probes and caches the results.
type Checker struct {
	targets  []Target
	interval time.Duration
	http     *http.Client
	log      zerolog.Logger

	mu       sync.Mutex
	statuses map[string]types.ServiceHealth
	cancel   context.CancelFunc
	done     chan struct{}
}

func New(targets []Target, interval time.Duration, log zerolog.Logger) *Checker {
	c := &Checker{
		targets:  targets,
		interval: interval,
		http:     &http.Client{Timeout: 10 * time.Second},
		log:      log,
		statuses: make(map[string]types.ServiceHealth),
	}
	for _, t := range targets {
		c.statuses[t.Name] = types.ServiceHealth{Status: StatusUnknown}
	}
	return c
}

// Start begins the periodic probe loop. No-op when already running.
func (c *Checker) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	go func() {
		defer close(c.done)
		c.CheckAll(runCtx)
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				c.CheckAll(runCtx)
			}
		}
	}()
}

// Stop cancels the probe loop and waits for it to exit.
func (c *Checker) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// CheckAll probes every target and returns the refreshed status map.
func (c *Checker) CheckAll(ctx context.Context) map[string]types.ServiceHealth {
	for _, t := range c.targets {
		st := c.probe(ctx, t)
		c.mu.Lock()
		c.statuses[t.Name] = st
		c.mu.Unlock()
	}
	return c.Status()
}

// Status returns a copy of the latest probe results.
func (c *Checker) Status() map[string]types.ServiceHealth {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]types.ServiceHealth, len(c.statuses))
	for k, v := range c.statuses {
		out[k] = v
	}
	return out
}

func (c *Checker) probe(ctx context.Context, t Target) types.ServiceHealth {
	if t.URL == "" || (!t.Identity && t.APIKey == "") {
		return types.ServiceHealth{Status: StatusDisabled, CheckedAtUnix: time.Now().Unix()}
	}

	url := t.URL + "/api/v3/system/status"
	if t.Identity {
		url = t.URL + "/identity"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return types.ServiceHealth{Status: StatusError, Error: err.Error(), CheckedAtUnix: time.Now().Unix()}
	}
	if t.Identity {
		req.Header.Set("Accept", "application/xml")
	} else {
		req.Header.Set("X-Api-Key", t.APIKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	latency := float64(time.Since(start).Microseconds()) / 1000
	now := time.Now().Unix()
	if err != nil {
		// Unreachable is "offline"; no error detail kept, matching the
		// distinction from a service that answered with a bad status.
		c.log.Warn().Err(err).Str("service", t.Name).Msg("health probe failed")
		return types.ServiceHealth{Status: StatusOffline, CheckedAtUnix: now}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return types.ServiceHealth{
			Status:        StatusError,
			LatencyMS:     latency,
			CheckedAtUnix: now,
			Error:         fmt.Sprintf("status code: %d", resp.StatusCode),
		}
	}

	return types.ServiceHealth{
		Status:        StatusOnline,
		LatencyMS:     latency,
		Version:       parseVersion(resp.Body, t.Identity),
		CheckedAtUnix: now,
	}
}

// parseVersion extracts a version string from the probe response: a JSON
// {"version": ...} body for the arr services, or the MediaContainer version
// attribute for Plex. Parse failures leave the version unknown.
func parseVersion(body io.Reader, identity bool) string {
	if identity {
		var container struct {
			Version string `xml:"version,attr"`
		}
		if err := xml.NewDecoder(body).Decode(&container); err == nil && container.Version != "" {
			return container.Version
		}
		return "unknown"
	}
	var st struct {
		Version string `json:"version"`
	}
	if err := json.NewDecoder(body).Decode(&st); err == nil && st.Version != "" {
		return st.Version
	}
	return "unknown"
}
