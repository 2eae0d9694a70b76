// Package syncer replays queued offline actions against the remote API when
// a sync trigger reports connectivity has plausibly returned.
package syncer

import (
	"bytes"
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/gazhub/offline-worker/pkg/database"
	"github.com/gazhub/offline-worker/pkg/metrics"
	"github.com/gazhub/offline-worker/pkg/s"
	"github.com/gazhub/offline-worker/pkg/utils"
)

// Sync trigger tags accepted by the drain endpoint. Both invoke the same
// routine.
const (
	TagPendingData = "sync-pending-data"
	TagContentSync = "content-sync"
)

func ValidTag(tag string) bool {
	return tag == TagPendingData || tag == TagContentSync
}

var defaultHeaders = map[string]string{"Content-Type": "application/json"}

type Drainer struct {
	Database database.Backend
	Client   *http.Client
}

// Drain replays every queued action in insertion order and removes the ones
// the remote accepts. One action's failure never blocks the rest; failures
// stay queued for the next trigger.
func (d *Drainer) Drain(ctx context.Context) (s.DrainResult, error) {
	actions, err := d.Database.ListActions()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list pending actions")
		return s.DrainResult{}, err
	}

	result := s.DrainResult{Attempted: len(actions)}
	for _, action := range actions {
		if err = d.replay(ctx, action); err != nil {
			log.Warn().Err(err).Int64("action_id", action.ID).Str("url", action.URL).Msg("Replay failed, action stays queued")
			metrics.ActionReplayed("failed")
			result.Failed++
			continue
		}

		if err = d.Database.RemoveAction(action.ID); err != nil {
			// The remote accepted it but the delete failed, the action
			// will be replayed again on the next trigger
			log.Error().Err(err).Int64("action_id", action.ID).Msg("Failed to remove replayed action")
			metrics.ActionReplayed("failed")
			result.Failed++
			continue
		}

		metrics.ActionReplayed("replayed")
		result.Replayed++
	}

	metrics.SetQueueDepth(result.Failed)
	log.Info().Int("attempted", result.Attempted).Int("replayed", result.Replayed).
		Int("failed", result.Failed).Msg("Drained pending action queue")

	return result, nil
}

func (d *Drainer) replay(ctx context.Context, action s.PendingAction) error {
	method := action.Method
	if method == "" {
		method = http.MethodPost
	}

	req, err := http.NewRequestWithContext(ctx, method, action.URL, bytes.NewReader(action.Data))
	if err != nil {
		return err
	}
	for name, value := range utils.MergeHeaders(defaultHeaders, action.Headers) {
		req.Header.Set(name, value)
	}

	resp, err := d.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &ReplayError{Status: resp.StatusCode, URL: action.URL}
	}

	return nil
}

type ReplayError struct {
	Status int
	URL    string
}

func (r *ReplayError) Error() string {
	return "replay of " + r.URL + " returned " + http.StatusText(r.Status)
}
