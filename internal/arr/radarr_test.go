package arr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
)

// newRadarrServer serves a minimal Radarr v3 API for client tests.
func newRadarrServer(t *testing.T, records []queueRecord, movieTitles map[string]string) (*httptest.Server, *int32) {
	t.Helper()
	var movieLookups int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/queue", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("pageSize") != "1000" {
			t.Errorf("pageSize = %q, want 1000", r.URL.Query().Get("pageSize"))
		}
		json.NewEncoder(w).Encode(queuePage{Records: records, TotalRecords: len(records)})
	})
	mux.HandleFunc("/api/v3/movie/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&movieLookups, 1)
		id := r.URL.Path[len("/api/v3/movie/"):]
		title, ok := movieTitles[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"title": title})
	})
	return httptest.NewServer(mux), &movieLookups
}

func TestRadarrGetQueueItems(t *testing.T) {
	records := []queueRecord{
		{ID: 1, Title: "Some.Movie.2024.1080p", MovieID: 55, Size: 2000, SizeLeft: 500, Status: "downloading"},
		{ID: 2, Title: "Other.Release", Size: 1000, SizeLeft: 0, Status: "downloading", TrackedDownloadState: "importing"},
		{ID: 0, Title: ""}, // malformed, dropped
	}
	ts, _ := newRadarrServer(t, records, map[string]string{"55": "Some Movie"})
	defer ts.Close()

	r := NewRadarr(ts.URL, "test-key", zerolog.Nop())
	items, err := r.GetQueueItems(context.Background())
	if err != nil {
		t.Fatalf("GetQueueItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2 (malformed record dropped)", len(items))
	}

	if items[0].Title != "Some Movie" {
		t.Fatalf("title = %q, want resolved movie title", items[0].Title)
	}
	if items[0].Progress != 75 {
		t.Fatalf("progress = %v, want 75", items[0].Progress)
	}
	// trackedDownloadState wins over the transport status.
	if items[1].Status != "importing" {
		t.Fatalf("status = %q, want importing", items[1].Status)
	}
	// No movie id: keep the release title.
	if items[1].Title != "Other.Release" {
		t.Fatalf("title = %q, want release title fallback", items[1].Title)
	}
}

func TestRadarrMovieTitleIsCached(t *testing.T) {
	records := []queueRecord{
		{ID: 1, Title: "rel", MovieID: 55, Size: 100, SizeLeft: 50, Status: "downloading"},
	}
	ts, lookups := newRadarrServer(t, records, map[string]string{"55": "Some Movie"})
	defer ts.Close()

	r := NewRadarr(ts.URL, "test-key", zerolog.Nop())
	for i := 0; i < 3; i++ {
		if _, err := r.GetQueueItems(context.Background()); err != nil {
			t.Fatalf("GetQueueItems: %v", err)
		}
	}
	if got := atomic.LoadInt32(lookups); got != 1 {
		t.Fatalf("movie lookups = %d, want 1 (cached afterwards)", got)
	}
}

func TestRadarrRemoveInactiveItems(t *testing.T) {
	records := []queueRecord{
		{ID: 1, Title: "active", Status: "downloading"},
		{ID: 2, Title: "done", Status: "completed"},
		{ID: 3, Title: "broken", Status: "Failed"},
	}
	var deleted []string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/queue", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(queuePage{Records: records})
	})
	mux.HandleFunc("/api/v3/queue/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.URL.Query().Get("removeFromClient") != "true" || r.URL.Query().Get("blocklist") != "false" {
			t.Errorf("delete params = %v", r.URL.Query())
		}
		deleted = append(deleted, r.URL.Path[len("/api/v3/queue/"):])
		w.WriteHeader(http.StatusOK)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	r := NewRadarr(ts.URL, "test-key", zerolog.Nop())
	n, err := r.RemoveInactiveItems(context.Background())
	if err != nil {
		t.Fatalf("RemoveInactiveItems: %v", err)
	}
	if n != 2 {
		t.Fatalf("removed = %d, want 2 (completed + failed)", n)
	}
	if len(deleted) != 2 || deleted[0] != "2" || deleted[1] != "3" {
		t.Fatalf("deleted ids = %v, want [2 3]", deleted)
	}
}

func TestRadarrRemoveAllItems(t *testing.T) {
	records := []queueRecord{
		{ID: 1, Title: "active", Status: "downloading"},
		{ID: 2, Title: "done", Status: "completed"},
		{ID: 3, Title: "queued", Status: "queued"},
	}
	var deleted []string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/queue", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(queuePage{Records: records})
	})
	mux.HandleFunc("/api/v3/queue/", func(w http.ResponseWriter, r *http.Request) {
		deleted = append(deleted, r.URL.Path[len("/api/v3/queue/"):])
		w.WriteHeader(http.StatusOK)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	r := NewRadarr(ts.URL, "test-key", zerolog.Nop())
	n, err := r.RemoveAllItems(context.Background())
	if err != nil {
		t.Fatalf("RemoveAllItems: %v", err)
	}
	if n != 3 {
		t.Fatalf("removed = %d, want every record regardless of status", n)
	}
	if len(deleted) != 3 {
		t.Fatalf("deleted ids = %v, want all three", deleted)
	}
}

func TestRadarrRemoveStuckDownloadsToleratesFailures(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/queue/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v3/queue/13" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	r := NewRadarr(ts.URL, "test-key", zerolog.Nop())
	n, err := r.RemoveStuckDownloads(context.Background(), []string{"12", "13", "14"})
	if err != nil {
		t.Fatalf("RemoveStuckDownloads: %v", err)
	}
	if n != 2 {
		t.Fatalf("removed = %d, want 2 (one delete failed)", n)
	}
}

func TestRadarrQueueError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	r := NewRadarr(ts.URL, "test-key", zerolog.Nop())
	if _, err := r.GetQueueItems(context.Background()); err == nil {
		t.Fatal("expected error for non-2xx queue response")
	}
}

func TestClientSystemStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/system/status" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"version": "5.4.6.8723"})
	}))
	defer ts.Close()

	r := NewRadarr(ts.URL, "test-key", zerolog.Nop())
	v, err := r.SystemStatus(context.Background())
	if err != nil {
		t.Fatalf("SystemStatus: %v", err)
	}
	if v != "5.4.6.8723" {
		t.Fatalf("version = %q", v)
	}
}
