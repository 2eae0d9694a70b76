// Package lifecycle drives the worker's install/activate transitions:
// fallback pre-caching, stale cache generation cleanup and version
// broadcast to connected tabs.
package lifecycle

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gazhub/offline-worker/pkg/cache"
	"github.com/gazhub/offline-worker/pkg/config"
	"github.com/gazhub/offline-worker/pkg/database"
	"github.com/gazhub/offline-worker/pkg/s"
	"github.com/gazhub/offline-worker/pkg/storage"
)

const stagedFileTTL = 24 * time.Hour

type Broadcaster interface {
	Broadcast(msg s.WorkerMessage)
}

type Controller struct {
	Storage  storage.Backend
	Database database.Backend
	Names    cache.Names
	Offline  *cache.Bucket
	Manifest config.Manifest
	Origin   *url.URL
	Client   *http.Client
	Hub      Broadcaster
	Info     s.VersionInfo
}

// Install pre-populates the offline-fallback assets. Any asset failing to
// fetch fails the install; a worker without its fallback page is worse than
// the old one.
func (c *Controller) Install(ctx context.Context) error {
	for _, asset := range c.Manifest.Assets {
		if err := c.precache(ctx, asset); err != nil {
			return fmt.Errorf("precache of %s failed: %w", asset, err)
		}
	}

	log.Info().Int("assets", len(c.Manifest.Assets)).Str("generation", c.Names.Generation).Msg("Install complete")
	return nil
}

func (c *Controller) precache(ctx context.Context, asset string) error {
	assetURL := *c.Origin
	parsed, err := url.Parse(asset)
	if err != nil {
		return err
	}
	assetURL.Path = parsed.Path
	assetURL.RawQuery = parsed.RawQuery

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL.String(), nil)
	if err != nil {
		return err
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("origin returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	headers := make(map[string]string, len(resp.Header))
	for name := range resp.Header {
		headers[name] = resp.Header.Get(name)
	}

	return c.Offline.Put(asset, s.CachedResponse{
		Status:  resp.StatusCode,
		Headers: headers,
		Body:    body,
	})
}

// Activate deletes every cache bucket of an older generation, sweeps
// never-collected staged files and tells all tabs which worker now serves
// them.
func (c *Controller) Activate(ctx context.Context) error {
	buckets, err := c.Storage.ListBuckets()
	if err != nil {
		return err
	}

	for _, bucket := range buckets {
		if !c.Names.IsStale(bucket) {
			continue
		}
		if err = c.Storage.DeleteBucket(bucket); err != nil {
			return fmt.Errorf("failed to delete stale bucket %s: %w", bucket, err)
		}
		log.Info().Str("bucket", bucket).Msg("Deleted stale cache bucket")
	}

	if swept, err2 := c.Database.SweepStagedFiles(time.Now().Add(-stagedFileTTL)); err2 != nil {
		log.Warn().Err(err2).Msg("Staged file sweep failed")
	} else if swept > 0 {
		log.Info().Int("swept", swept).Msg("Swept expired staged files")
	}

	version := c.Version()
	c.Hub.Broadcast(s.WorkerMessage{Type: s.MsgVersionInfo, Version: &version})

	log.Info().Str("generation", c.Names.Generation).Msg("Activation complete")
	return nil
}

func (c *Controller) Version() s.VersionInfo {
	info := c.Info
	info.Generation = c.Names.Generation
	return info
}
