package cache

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/gazhub/offline-worker/pkg/e"
	"github.com/gazhub/offline-worker/pkg/s"
	"github.com/gazhub/offline-worker/pkg/storage/disk"
)

func diskBucket(t *testing.T, name string, maxEntries int, maxAge time.Duration) *Bucket {
	t.Helper()
	backend, err := disk.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return &Bucket{Name: name, Storage: backend, MaxEntries: maxEntries, MaxAge: maxAge}
}

func TestBucketRoundTrip(t *testing.T) {
	bucket := diskBucket(t, "gazhub-pages-v1", 0, 0)

	stored := s.CachedResponse{
		Status:  200,
		Headers: map[string]string{"Content-Type": "text/html"},
		Body:    []byte("<html>hello</html>"),
	}
	if err := bucket.Put("/catalog?page=2", stored); err != nil {
		t.Fatal(err)
	}

	got, err := bucket.Get("/catalog?page=2")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(stored.Body, got.Body); diff != "" {
		t.Fatal(diff)
	}
	if got.StoredAt.IsZero() {
		t.Fatal("expected StoredAt to be stamped on Put")
	}
}

func TestBucketMiss(t *testing.T) {
	bucket := diskBucket(t, "gazhub-pages-v1", 0, 0)

	_, err := bucket.Get("/never-cached")
	if !errors.Is(err, e.ErrNoCachedResponse) {
		t.Fatalf("expected ErrNoCachedResponse, got %v", err)
	}
}

func TestBucketExpiredEntryIsAMiss(t *testing.T) {
	bucket := diskBucket(t, "gazhub-assets-v1", 0, time.Hour)

	old := s.CachedResponse{
		Status:   200,
		Headers:  map[string]string{},
		Body:     []byte("stale"),
		StoredAt: time.Now().Add(-2 * time.Hour),
	}
	if err := bucket.Put("/app.js", old); err != nil {
		t.Fatal(err)
	}

	_, err := bucket.Get("/app.js")
	if !errors.Is(err, e.ErrNoCachedResponse) {
		t.Fatalf("expected ErrNoCachedResponse for over-age entry, got %v", err)
	}
}

func TestBucketEntryCeiling(t *testing.T) {
	const ceiling = 5
	bucket := diskBucket(t, "gazhub-images-v1", ceiling, 0)

	for i := 0; i < ceiling*3; i++ {
		err := bucket.Put(fmt.Sprintf("/img/%d.png", i), s.CachedResponse{
			Status:  200,
			Headers: map[string]string{},
			Body:    []byte("png"),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	objects, err := bucket.Storage.List(bucket.Name)
	if err != nil {
		t.Fatal(err)
	}
	if len(objects) > ceiling {
		t.Fatalf("bucket holds %d entries, ceiling is %d", len(objects), ceiling)
	}
}
