package syncer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/gazhub/offline-worker/pkg/database"
	"github.com/gazhub/offline-worker/pkg/s"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

func testDrainer(t *testing.T) *Drainer {
	t.Helper()
	backend, err := database.GetBackend("leveldb", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return &Drainer{Database: backend, Client: http.DefaultClient}
}

func enqueue(t *testing.T, d *Drainer, url string) int64 {
	t.Helper()
	id, err := d.Database.EnqueueAction(s.PendingAction{
		URL:  url,
		Data: json.RawMessage(`{"qty":1}`),
	})
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func queuedURLs(t *testing.T, d *Drainer) []string {
	t.Helper()
	actions, err := d.Database.ListActions()
	if err != nil {
		t.Fatal(err)
	}
	urls := make([]string, 0, len(actions))
	for _, action := range actions {
		urls = append(urls, action.URL)
	}
	return urls
}

func TestDrainAcceptAll(t *testing.T) {
	var seen []string
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer remote.Close()

	d := testDrainer(t)
	enqueue(t, d, remote.URL+"/api/orders")
	enqueue(t, d, remote.URL+"/api/feedback")

	result, err := d.Drain(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(s.DrainResult{Attempted: 2, Replayed: 2}, result); diff != "" {
		t.Fatal(diff)
	}
	if diff := cmp.Diff([]string{"/api/orders", "/api/feedback"}, seen); diff != "" {
		t.Fatal(diff)
	}
	if diff := cmp.Diff([]string{}, queuedURLs(t, d)); diff != "" {
		t.Fatal(diff)
	}

	// A second drain with an empty queue is a no-op
	result, err = d.Drain(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(s.DrainResult{}, result); diff != "" {
		t.Fatal(diff)
	}
}

func TestDrainPartialFailureIsolated(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/b" || r.URL.Path == "/api/d" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer remote.Close()

	d := testDrainer(t)
	for _, path := range []string{"/api/a", "/api/b", "/api/c", "/api/d"} {
		enqueue(t, d, remote.URL+path)
	}

	result, err := d.Drain(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(s.DrainResult{Attempted: 4, Replayed: 2, Failed: 2}, result); diff != "" {
		t.Fatal(diff)
	}

	// The rejected actions survive, in their original relative order
	if diff := cmp.Diff([]string{remote.URL + "/api/b", remote.URL + "/api/d"}, queuedURLs(t, d)); diff != "" {
		t.Fatal(diff)
	}
}

func TestDrainTransportErrorStaysQueued(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	deadURL := remote.URL
	remote.Close()

	d := testDrainer(t)
	enqueue(t, d, deadURL+"/api/orders")

	result, err := d.Drain(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(s.DrainResult{Attempted: 1, Failed: 1}, result); diff != "" {
		t.Fatal(diff)
	}
	if diff := cmp.Diff([]string{deadURL + "/api/orders"}, queuedURLs(t, d)); diff != "" {
		t.Fatal(diff)
	}
}

func TestDrainMergesHeaders(t *testing.T) {
	var contentType, custom string
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		custom = r.Header.Get("X-Client")
		w.WriteHeader(http.StatusOK)
	}))
	defer remote.Close()

	d := testDrainer(t)
	_, err := d.Database.EnqueueAction(s.PendingAction{
		URL:     remote.URL + "/api/orders",
		Headers: map[string]string{"X-Client": "storefront"},
		Data:    json.RawMessage(`{}`),
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err = d.Drain(context.Background()); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff("application/json", contentType); diff != "" {
		t.Fatal(diff)
	}
	if diff := cmp.Diff("storefront", custom); diff != "" {
		t.Fatal(diff)
	}
}

func TestValidTag(t *testing.T) {
	if !ValidTag(TagPendingData) || !ValidTag(TagContentSync) {
		t.Fatal("expected both sync tags to be accepted")
	}
	if ValidTag("widget-update") {
		t.Fatal("widget-update is a periodicsync tag, not a sync tag")
	}
}
