package config

import (
	"os"
	"strconv"
)

// ApplyEnv overlays ARRMON_* environment variables onto cfg. Environment
// wins over the file so containers can override a baked-in config.
func ApplyEnv(cfg Config) Config {
	setStr := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, key string) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setStr(&cfg.Addr, "ARRMON_ADDR")
	setStr(&cfg.RadarrURL, "ARRMON_RADARR_URL")
	setStr(&cfg.RadarrAPIKey, "ARRMON_RADARR_API_KEY")
	setStr(&cfg.SonarrURL, "ARRMON_SONARR_URL")
	setStr(&cfg.SonarrAPIKey, "ARRMON_SONARR_API_KEY")
	setStr(&cfg.PlexURL, "ARRMON_PLEX_URL")

	setInt(&cfg.RefreshIntervalSeconds, "ARRMON_REFRESH_INTERVAL")
	setInt(&cfg.SourceTimeoutSeconds, "ARRMON_SOURCE_TIMEOUT")
	setInt(&cfg.HealthCheckIntervalSeconds, "ARRMON_HEALTH_CHECK_INTERVAL")
	setInt(&cfg.StuckThresholdMinutes, "ARRMON_STUCK_THRESHOLD_MINUTES")
	setInt(&cfg.ProgressHistoryHours, "ARRMON_PROGRESS_HISTORY_HOURS")
	setInt(&cfg.MaxSnapshotsPerDownload, "ARRMON_MAX_SNAPSHOTS_PER_DOWNLOAD")

	if v := os.Getenv("ARRMON_MIN_PROGRESS_CHANGE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.MinProgressChangePercent = f
		}
	}
	if v := os.Getenv("ARRMON_MIN_SIZE_CHANGE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.MinSizeChangeBytes = n
		}
	}
	if v := os.Getenv("ARRMON_VERBOSE"); v != "" {
		cfg.Verbose = v == "1" || v == "true"
	}
	return cfg
}
