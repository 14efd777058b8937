// Package arr implements REST clients for the Radarr and Sonarr v3 APIs.
// Both clients satisfy monitor.QueueClient; the orchestrator polls them and
// operator commands drive the removal endpoints.
package arr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const apiPrefix = "/api/v3/"

// client carries the transport shared by the Radarr and Sonarr clients.
type client struct {
	baseURL string
	apiKey  string
	name    string
	http    *http.Client
	log     zerolog.Logger
}

func newClient(baseURL, apiKey, name string, log zerolog.Logger) client {
	return client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		name:    name,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     log.With().Str("service", name).Logger(),
	}
}

// Name returns the service name for logging and status reporting.
func (c *client) Name() string { return c.name }

// getJSON issues a GET against an /api/v3 endpoint and decodes the body.
func (c *client) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	body, err := c.do(ctx, http.MethodGet, endpoint, params)
	if err != nil {
		return err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode %s: %w", c.name, endpoint, err)
	}
	return nil
}

// delete issues a DELETE against an /api/v3 endpoint, discarding the body.
func (c *client) delete(ctx context.Context, endpoint string, params url.Values) error {
	body, err := c.do(ctx, http.MethodDelete, endpoint, params)
	if err != nil {
		return err
	}
	defer body.Close()
	_, _ = io.Copy(io.Discard, body)
	return nil
}

func (c *client) do(ctx context.Context, method, endpoint string, params url.Values) (io.ReadCloser, error) {
	u := c.baseURL + apiPrefix + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", c.name, err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %s %s: %w", c.name, method, endpoint, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("%s: %s %s: unexpected status %d", c.name, method, endpoint, resp.StatusCode)
	}
	return resp.Body, nil
}

// systemStatus is the subset of /system/status the monitor cares about.
type systemStatus struct {
	Version string `json:"version"`
}

// SystemStatus probes the service and returns its version. Used both as a
// connection test and by the health checker.
func (c *client) SystemStatus(ctx context.Context) (string, error) {
	var st systemStatus
	if err := c.getJSON(ctx, "system/status", nil, &st); err != nil {
		return "", err
	}
	return st.Version, nil
}
