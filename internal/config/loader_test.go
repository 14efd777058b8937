package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
addr: ":9000"
radarr_url: "http://radarr:7878"
radarr_api_key: "abc"
refresh_interval_seconds: 60
min_progress_change_percent: 2.5
verbose: true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9000" || cfg.RadarrURL != "http://radarr:7878" || cfg.RadarrAPIKey != "abc" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.RefreshIntervalSeconds != 60 || cfg.MinProgressChangePercent != 2.5 || !cfg.Verbose {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{"sonarr_url":"http://sonarr:8989","sonarr_api_key":"xyz","stuck_threshold_minutes":90}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SonarrURL != "http://sonarr:8989" || cfg.SonarrAPIKey != "xyz" || cfg.StuckThresholdMinutes != 90 {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "config.toml", `
radarr_api_key = "abc"
max_snapshots_per_download = 25
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RadarrAPIKey != "abc" || cfg.MaxSnapshotsPerDownload != 25 {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := writeFile(t, "config.ini", "addr=:9000")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	// No source at all is fatal.
	if _, err := (Config{}).Validate(); err == nil {
		t.Fatal("expected error with no source configured")
	}

	// One missing key is only a warning.
	warnings, err := (Config{RadarrAPIKey: "abc"}).Validate()
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want one for the missing sonarr key", warnings)
	}

	warnings, err = (Config{RadarrAPIKey: "abc", SonarrAPIKey: "xyz"}).Validate()
	if err != nil || len(warnings) != 0 {
		t.Fatalf("fully configured: warnings=%v err=%v", warnings, err)
	}
}

func TestEnabledHelpers(t *testing.T) {
	cfg := Config{RadarrAPIKey: "abc"}
	if !cfg.RadarrEnabled() || cfg.SonarrEnabled() {
		t.Fatalf("enabled = %v/%v", cfg.RadarrEnabled(), cfg.SonarrEnabled())
	}
}
