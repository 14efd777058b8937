package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"arrmon/internal/monitor"
	"arrmon/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Status() types.StatusResponse
	Queue(source string) (types.QueueResponse, error)
	Stuck() []types.StuckDownload
	Stats() types.TrackerStats
	ProgressSummary(source string, itemID int64) (types.ProgressSummary, error)
	RefreshNow(ctx context.Context) error
	RemoveInactive(ctx context.Context, source string) (int, error)
	RemoveStuck(ctx context.Context, source string, ids []string) (int, error)
	RemoveAll(ctx context.Context, source string) (int, error)
	SetVerbose(bool)
	Ready() bool
}

// HealthService exposes the external-service probe results.
type HealthService interface {
	Status() map[string]types.ServiceHealth
}

func NewMux(svc Service, health HealthService) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	r.Use(MetricsMiddleware)
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	// Status returns per-source readiness, refresh counters and tracker stats.
	//
	// @Summary Daemon status
	// @Produce json
	// @Success 200 {object} types.StatusResponse
	// @Router /status [get]
	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.Status())
	})

	// Queue returns the cached queue for one source. Items may be stale when
	// ready is false; the caller decides whether to show them.
	//
	// @Summary Cached queue for a source
	// @Produce json
	// @Param source path string true "radarr or sonarr"
	// @Success 200 {object} types.QueueResponse
	// @Failure 404 {object} types.ErrorResponse
	// @Router /queue/{source} [get]
	r.Get("/queue/{source}", func(w http.ResponseWriter, r *http.Request) {
		resp, err := svc.Queue(chi.URLParam(r, "source"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, resp)
	})

	// @Summary Downloads classified as stalled
	// @Produce json
	// @Success 200 {array} types.StuckDownload
	// @Router /stuck [get]
	r.Get("/stuck", func(w http.ResponseWriter, r *http.Request) {
		stuck := svc.Stuck()
		if stuck == nil {
			stuck = []types.StuckDownload{}
		}
		writeJSON(w, stuck)
	})

	// @Summary Progress-tracking statistics
	// @Produce json
	// @Success 200 {object} types.TrackerStats
	// @Router /stats [get]
	r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.Stats())
	})

	// @Summary Progress summary for one download
	// @Produce json
	// @Param source path string true "radarr or sonarr"
	// @Param id path int true "queue record id"
	// @Success 200 {object} types.ProgressSummary
	// @Failure 404 {object} types.ErrorResponse
	// @Router /downloads/{source}/{id}/progress [get]
	r.Get("/downloads/{source}/{id}/progress", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid download id")
			return
		}
		sum, err := svc.ProgressSummary(chi.URLParam(r, "source"), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, sum)
	})

	// @Summary External service health
	// @Produce json
	// @Success 200 {object} map[string]types.ServiceHealth
	// @Router /health [get]
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, health.Status())
	})

	// @Summary Trigger a refresh cycle outside the normal cadence
	// @Success 202 {string} string "refreshing"
	// @Router /refresh [post]
	r.Post("/refresh", func(w http.ResponseWriter, r *http.Request) {
		joined, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		if err := svc.RefreshNow(joined); err != nil {
			writeServiceError(w, err)
			return
		}
		logAction(r, "refresh")
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte("refreshing"))
	})

	// @Summary Remove failed/completed/warning records from a source queue
	// @Produce json
	// @Param source path string true "radarr or sonarr"
	// @Success 200 {object} types.RemovedResponse
	// @Failure 404 {object} types.ErrorResponse
	// @Router /queue/{source}/inactive/remove [post]
	r.Post("/queue/{source}/inactive/remove", func(w http.ResponseWriter, r *http.Request) {
		joined, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		source := chi.URLParam(r, "source")
		removed, err := svc.RemoveInactive(joined, source)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		logAction(r, "remove inactive")
		writeJSON(w, types.RemovedResponse{Removed: removed})
	})

	// @Summary Empty a source queue regardless of record status
	// @Produce json
	// @Param source path string true "radarr or sonarr"
	// @Success 200 {object} types.RemovedResponse
	// @Failure 404 {object} types.ErrorResponse
	// @Router /queue/{source}/all/remove [post]
	r.Post("/queue/{source}/all/remove", func(w http.ResponseWriter, r *http.Request) {
		joined, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		source := chi.URLParam(r, "source")
		removed, err := svc.RemoveAll(joined, source)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		logAction(r, "remove all")
		writeJSON(w, types.RemovedResponse{Removed: removed})
	})

	// @Summary Remove specific queue records (stuck downloads)
	// @Accept json
	// @Produce json
	// @Param request body types.RemoveStuckRequest true "source and ids"
	// @Success 200 {object} types.RemovedResponse
	// @Failure 400 {object} types.ErrorResponse
	// @Router /stuck/remove [post]
	r.Post("/stuck/remove", func(w http.ResponseWriter, r *http.Request) {
		var req types.RemoveStuckRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if len(req.IDs) == 0 {
			writeJSONError(w, http.StatusBadRequest, "ids are required")
			return
		}
		joined, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		removed, err := svc.RemoveStuck(joined, req.Source, req.IDs)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		logAction(r, "remove stuck")
		writeJSON(w, types.RemovedResponse{Removed: removed})
	})

	// @Summary Toggle verbose logging
	// @Accept json
	// @Param request body types.VerboseRequest true "desired state"
	// @Success 204 {string} string ""
	// @Router /verbose [post]
	r.Post("/verbose", func(w http.ResponseWriter, r *http.Request) {
		var req types.VerboseRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		svc.SetVerbose(req.Enabled)
		w.WriteHeader(http.StatusNoContent)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("loading"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// decodeJSONBody enforces the JSON content type and body cap, then decodes
// into dst. It writes the error response itself and reports success.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// writeServiceError maps well-known monitor errors to HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case monitor.IsUnknownSource(err), monitor.IsDownloadNotFound(err):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case monitor.IsSourceUnavailable(err):
		writeJSONError(w, http.StatusServiceUnavailable, err.Error())
	default:
		if he, ok := err.(HTTPError); ok {
			writeJSONError(w, he.StatusCode(), he.Error())
			return
		}
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
	}
}

// logAction records an operator-facing mutation with its request id.
func logAction(r *http.Request, action string) {
	if zlog == nil || defaultLogLevel < LevelInfo {
		return
	}
	z := zlog.Info().Str("path", r.URL.Path).Str("action", action).Time("at", time.Now())
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		z = z.Str("request_id", rid)
	}
	z.Msg("admin action")
}
