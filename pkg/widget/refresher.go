// Package widget keeps the quick-order widget's data and template cached in
// their own bucket, fresh without a foreground tab.
package widget

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gazhub/offline-worker/pkg/cache"
	"github.com/gazhub/offline-worker/pkg/e"
	"github.com/gazhub/offline-worker/pkg/metrics"
	"github.com/gazhub/offline-worker/pkg/s"
)

// TagWidgetUpdate is the periodic trigger that refreshes both widget assets.
const TagWidgetUpdate = "widget-update"

const (
	dataMaxAge     = "max-age=3600"
	templateMaxAge = "max-age=86400"
)

type Broadcaster interface {
	Broadcast(msg s.WorkerMessage)
}

type Refresher struct {
	DataURL     string
	TemplateURL string
	Bucket      *cache.Bucket
	Hub         Broadcaster
	Client      *http.Client
}

// Refresh fetches the widget data and template concurrently. Each fetch's
// failure is isolated; whatever happened, all open tabs get a WIDGET_UPDATED
// signal afterwards.
func (r *Refresher) Refresh(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		if _, err := r.refreshData(ctx); err != nil {
			log.Warn().Err(err).Msg("Widget data refresh failed")
			metrics.WidgetRefresh("data", "failed")
			return
		}
		metrics.WidgetRefresh("data", "ok")
	}()

	go func() {
		defer wg.Done()
		if err := r.refreshTemplate(ctx); err != nil {
			log.Warn().Err(err).Msg("Widget template refresh failed")
			metrics.WidgetRefresh("template", "failed")
			return
		}
		metrics.WidgetRefresh("template", "ok")
	}()

	wg.Wait()

	r.Hub.Broadcast(s.WorkerMessage{
		Type:      s.MsgWidgetUpdated,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// RequestUpdate is the explicit client path: network first bypassing any
// cache, then the cached copy tagged fromCache, then an error.
func (r *Refresher) RequestUpdate(ctx context.Context) (json.RawMessage, bool, error) {
	data, err := r.refreshData(ctx)
	if err == nil {
		return data, false, nil
	}
	log.Debug().Err(err).Msg("Widget network fetch failed, falling back to cache")

	cached, err := r.Bucket.Get(r.DataURL)
	if err != nil {
		return nil, false, e.ErrNoWidgetData
	}

	return cached.Body, true, nil
}

// refreshData fetches the data JSON, rewrites its updatedAt stamp to now and
// stores it. Consumers judge staleness by that field, never by cache age.
func (r *Refresher) refreshData(ctx context.Context) (json.RawMessage, error) {
	body, err := r.fetch(ctx, r.DataURL)
	if err != nil {
		return nil, err
	}

	var data map[string]interface{}
	if err = json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("widget data is not valid JSON: %w", err)
	}
	data["updatedAt"] = time.Now().UTC().Format(time.RFC3339)

	fresh, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	err = r.Bucket.Put(r.DataURL, s.CachedResponse{
		Status: http.StatusOK,
		Headers: map[string]string{
			"Content-Type":  "application/json",
			"Cache-Control": dataMaxAge,
		},
		Body: fresh,
	})
	if err != nil {
		return nil, err
	}

	return fresh, nil
}

func (r *Refresher) refreshTemplate(ctx context.Context) error {
	body, err := r.fetch(ctx, r.TemplateURL)
	if err != nil {
		return err
	}

	return r.Bucket.Put(r.TemplateURL, s.CachedResponse{
		Status: http.StatusOK,
		Headers: map[string]string{
			"Content-Type":  "text/html; charset=utf-8",
			"Cache-Control": templateMaxAge,
		},
		Body: body,
	})
}

func (r *Refresher) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("widget fetch of %s returned %d", url, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
