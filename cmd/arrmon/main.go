package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"arrmon/internal/arr"
	"arrmon/internal/config"
	"arrmon/internal/health"
	"arrmon/internal/httpapi"
	"arrmon/internal/monitor"
)

func main() {
	// Flags with environment variable defaults
	defaultAddr := ":8989"
	if v := os.Getenv("ARRMON_ADDR"); v != "" {
		defaultAddr = v
	}
	addr := flag.String("addr", defaultAddr, "HTTP listen address, e.g. :8989")
	configPath := flag.String("config", "", "Config file (.yaml, .json or .toml); optional")
	verbose := flag.Bool("verbose", false, "Enable verbose logging")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	var cfg config.Config
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", *configPath).Msg("failed to load config")
		}
		cfg = loaded
	}
	cfg = config.ApplyEnv(cfg)
	if *verbose {
		cfg.Verbose = true
	}
	if cfg.Addr != "" {
		*addr = cfg.Addr
	}

	warnings, err := cfg.Validate()
	for _, w := range warnings {
		logger.Warn().Msg(w)
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	mcfg := monitor.Config{
		RefreshInterval:   time.Duration(cfg.RefreshIntervalSeconds) * time.Second,
		SourceTimeout:     time.Duration(cfg.SourceTimeoutSeconds) * time.Second,
		StuckThreshold:    time.Duration(cfg.StuckThresholdMinutes) * time.Minute,
		MinProgressChange: cfg.MinProgressChangePercent,
		MinSizeChange:     cfg.MinSizeChangeBytes,
		HistoryWindow:     time.Duration(cfg.ProgressHistoryHours) * time.Hour,
		MaxSnapshots:      cfg.MaxSnapshotsPerDownload,
		Logger:            logger,
		Verbose:           cfg.Verbose,
	}
	if cfg.RadarrEnabled() {
		mcfg.Radarr = arr.NewRadarr(cfg.RadarrURL, cfg.RadarrAPIKey, logger)
	}
	if cfg.SonarrEnabled() {
		mcfg.Sonarr = arr.NewSonarr(cfg.SonarrURL, cfg.SonarrAPIKey, logger)
	}
	orc := monitor.NewWithConfig(mcfg)

	healthInterval := 5 * time.Minute
	if cfg.HealthCheckIntervalSeconds > 0 {
		healthInterval = time.Duration(cfg.HealthCheckIntervalSeconds) * time.Second
	}
	checker := health.New([]health.Target{
		{Name: "radarr", URL: cfg.RadarrURL, APIKey: cfg.RadarrAPIKey},
		{Name: "sonarr", URL: cfg.SonarrURL, APIKey: cfg.SonarrAPIKey},
		{Name: "plex", URL: cfg.PlexURL, Identity: true},
	}, healthInterval, logger)

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()
	orc.Start(rootCtx)
	checker.Start(rootCtx)

	httpapi.SetLogger(logger)
	httpapi.SetBaseContext(rootCtx)
	mux := httpapi.NewMux(orc, checker)
	srv := &http.Server{Addr: *addr, Handler: mux}

	go func() {
		logger.Info().Str("addr", *addr).Msg("arrmon listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	rootCancel()
	orc.Stop()
	checker.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn().Err(err).Msg("graceful shutdown error")
	}
}
