package widget

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gazhub/offline-worker/pkg/cache"
	"github.com/gazhub/offline-worker/pkg/e"
	"github.com/gazhub/offline-worker/pkg/s"
	"github.com/gazhub/offline-worker/pkg/storage"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

type recordingHub struct {
	messages []s.WorkerMessage
}

func (h *recordingHub) Broadcast(msg s.WorkerMessage) {
	h.messages = append(h.messages, msg)
}

func widgetBucket(t *testing.T) *cache.Bucket {
	t.Helper()
	backend, err := storage.GetStorageBackend("disk", t.TempDir())
	require.NoError(t, err)
	return &cache.Bucket{Name: "gazhub-widget-v1", Storage: backend}
}

func testRefresher(t *testing.T, origin string) (*Refresher, *recordingHub) {
	t.Helper()
	hub := &recordingHub{}
	return &Refresher{
		DataURL:     origin + "/widgets/quick-order/data.json",
		TemplateURL: origin + "/widgets/quick-order/template.html",
		Bucket:      widgetBucket(t),
		Hub:         hub,
		Client:      http.DefaultClient,
	}, hub
}

func TestRefreshCachesBothAssets(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/widgets/quick-order/data.json":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"items":[{"sku":"tea-01"}],"updatedAt":"2020-01-01T00:00:00Z"}`))
		case "/widgets/quick-order/template.html":
			w.Write([]byte("<template><ul></ul></template>"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer origin.Close()

	r, hub := testRefresher(t, origin.URL)
	r.Refresh(context.Background())

	data, err := r.Bucket.Get(r.DataURL)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data.Body, &body))
	// The stale origin stamp is replaced at fetch time
	assert.NotEqual(t, "2020-01-01T00:00:00Z", body["updatedAt"])
	assert.NotEmpty(t, body["updatedAt"])
	assert.Equal(t, "max-age=3600", data.Headers["Cache-Control"])

	tmpl, err := r.Bucket.Get(r.TemplateURL)
	require.NoError(t, err)
	assert.Equal(t, "<template><ul></ul></template>", string(tmpl.Body))
	assert.Equal(t, "max-age=86400", tmpl.Headers["Cache-Control"])

	require.Len(t, hub.messages, 1)
	assert.Equal(t, s.MsgWidgetUpdated, hub.messages[0].Type)
	assert.NotEmpty(t, hub.messages[0].Timestamp)
}

func TestRefreshFailureIsIsolated(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/widgets/quick-order/template.html" {
			w.Write([]byte("<template></template>"))
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer origin.Close()

	r, hub := testRefresher(t, origin.URL)
	r.Refresh(context.Background())

	_, err := r.Bucket.Get(r.DataURL)
	assert.ErrorIs(t, err, e.ErrNoCachedResponse)

	_, err = r.Bucket.Get(r.TemplateURL)
	assert.NoError(t, err)

	// Tabs are still told to re-render
	require.Len(t, hub.messages, 1)
	assert.Equal(t, s.MsgWidgetUpdated, hub.messages[0].Type)
}

func TestRequestUpdatePrefersNetwork(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[]}`))
	}))
	defer origin.Close()

	r, _ := testRefresher(t, origin.URL)
	data, fromCache, err := r.RequestUpdate(context.Background())
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Contains(t, string(data), "updatedAt")
}

func TestRequestUpdateFallsBackToCache(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[{"sku":"tea-01"}]}`))
	}))

	r, _ := testRefresher(t, origin.URL)
	_, _, err := r.RequestUpdate(context.Background())
	require.NoError(t, err)

	origin.Close()

	data, fromCache, err := r.RequestUpdate(context.Background())
	require.NoError(t, err)
	assert.True(t, fromCache)
	assert.Contains(t, string(data), "tea-01")
}

func TestRequestUpdateNoData(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	origin.Close()

	r, _ := testRefresher(t, origin.URL)
	_, _, err := r.RequestUpdate(context.Background())
	assert.ErrorIs(t, err, e.ErrNoWidgetData)
}
