package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gazhub/offline-worker/pkg/e"
	"github.com/gazhub/offline-worker/pkg/s"
	"github.com/gazhub/offline-worker/pkg/storage"
)

// Bucket is one named cache namespace. Entries are CachedResponse envelopes
// keyed by URL; MaxEntries/MaxAge of zero means unbounded.
type Bucket struct {
	Name       string
	Storage    storage.Backend
	MaxEntries int
	MaxAge     time.Duration
}

// Key derives the storage key for a URL. Hashing keeps arbitrary URLs
// filename-safe across all storage backends.
func Key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

func (b *Bucket) Put(url string, resp s.CachedResponse) error {
	if resp.StoredAt.IsZero() {
		resp.StoredAt = time.Now().UTC()
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	if _, err = b.Storage.Write(b.Name, Key(url), bytes.NewReader(raw)); err != nil {
		return err
	}

	if evicted, err2 := b.Evict(); err2 != nil {
		log.Warn().Err(err2).Str("bucket", b.Name).Msg("Eviction pass failed")
	} else if evicted > 0 {
		log.Debug().Int("evicted", evicted).Str("bucket", b.Name).Msg("Evicted cache entries")
	}

	return nil
}

func (b *Bucket) Get(url string) (s.CachedResponse, error) {
	rc, err := b.Storage.Read(b.Name, Key(url))
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return s.CachedResponse{}, e.ErrNoCachedResponse
		}
		return s.CachedResponse{}, err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return s.CachedResponse{}, err
	}

	var resp s.CachedResponse
	if err = json.Unmarshal(raw, &resp); err != nil {
		return s.CachedResponse{}, err
	}

	if b.MaxAge > 0 && time.Since(resp.StoredAt) > b.MaxAge {
		return s.CachedResponse{}, e.ErrNoCachedResponse
	}

	return resp, nil
}

// Evict enforces the entry-count and max-age ceilings, oldest entries first.
func (b *Bucket) Evict() (int, error) {
	if b.MaxEntries == 0 && b.MaxAge == 0 {
		return 0, nil
	}

	objects, err := b.Storage.List(b.Name)
	if err != nil {
		return 0, err
	}

	sort.Slice(objects, func(i, j int) bool {
		return objects[i].Modified.Before(objects[j].Modified)
	})

	evicted := 0
	remaining := make([]s.ObjectInfo, 0, len(objects))
	for _, object := range objects {
		if b.MaxAge > 0 && time.Since(object.Modified) > b.MaxAge {
			if err = b.Storage.Delete(b.Name, object.Key); err != nil {
				return evicted, err
			}
			evicted++
			continue
		}
		remaining = append(remaining, object)
	}

	if b.MaxEntries > 0 {
		for len(remaining) > b.MaxEntries {
			if err = b.Storage.Delete(b.Name, remaining[0].Key); err != nil {
				return evicted, err
			}
			remaining = remaining[1:]
			evicted++
		}
	}

	return evicted, nil
}
