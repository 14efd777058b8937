package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the daemon.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	Addr string `json:"addr" yaml:"addr" toml:"addr"`

	RadarrURL    string `json:"radarr_url" yaml:"radarr_url" toml:"radarr_url"`
	RadarrAPIKey string `json:"radarr_api_key" yaml:"radarr_api_key" toml:"radarr_api_key"`
	SonarrURL    string `json:"sonarr_url" yaml:"sonarr_url" toml:"sonarr_url"`
	SonarrAPIKey string `json:"sonarr_api_key" yaml:"sonarr_api_key" toml:"sonarr_api_key"`
	PlexURL      string `json:"plex_url" yaml:"plex_url" toml:"plex_url"`

	RefreshIntervalSeconds     int `json:"refresh_interval_seconds" yaml:"refresh_interval_seconds" toml:"refresh_interval_seconds"`
	SourceTimeoutSeconds       int `json:"source_timeout_seconds" yaml:"source_timeout_seconds" toml:"source_timeout_seconds"`
	HealthCheckIntervalSeconds int `json:"health_check_interval_seconds" yaml:"health_check_interval_seconds" toml:"health_check_interval_seconds"`

	StuckThresholdMinutes    int     `json:"stuck_threshold_minutes" yaml:"stuck_threshold_minutes" toml:"stuck_threshold_minutes"`
	MinProgressChangePercent float64 `json:"min_progress_change_percent" yaml:"min_progress_change_percent" toml:"min_progress_change_percent"`
	MinSizeChangeBytes       int64   `json:"min_size_change_bytes" yaml:"min_size_change_bytes" toml:"min_size_change_bytes"`
	ProgressHistoryHours     int     `json:"progress_history_hours" yaml:"progress_history_hours" toml:"progress_history_hours"`
	MaxSnapshotsPerDownload  int     `json:"max_snapshots_per_download" yaml:"max_snapshots_per_download" toml:"max_snapshots_per_download"`

	Verbose bool `json:"verbose" yaml:"verbose" toml:"verbose"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	expanded, err := expandHome(path)
	if err != nil {
		return cfg, err
	}
	b, err := os.ReadFile(expanded)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(expanded)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// Validate checks the assembled configuration. A missing API key disables
// that source with a non-fatal complaint returned in warnings; having no
// source at all is an error.
func (c Config) Validate() (warnings []string, err error) {
	if c.RadarrAPIKey == "" {
		warnings = append(warnings, "radarr api key missing, movie monitoring disabled")
	}
	if c.SonarrAPIKey == "" {
		warnings = append(warnings, "sonarr api key missing, tv monitoring disabled")
	}
	if c.RadarrAPIKey == "" && c.SonarrAPIKey == "" {
		return warnings, fmt.Errorf("no source configured: set a radarr or sonarr api key")
	}
	return warnings, nil
}

// RadarrEnabled reports whether movie monitoring is configured.
func (c Config) RadarrEnabled() bool { return c.RadarrAPIKey != "" }

// SonarrEnabled reports whether TV monitoring is configured.
func (c Config) SonarrEnabled() bool { return c.SonarrAPIKey != "" }

// expandHome expands a leading '~' to the user's home directory.
func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}
