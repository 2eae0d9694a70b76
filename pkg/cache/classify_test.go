package cache

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name        string
		mode        string
		destination string
		expected    Strategy
	}{
		{"navigation", "navigate", "document", NetworkFirst},
		{"navigation-no-dest", "navigate", "", NetworkFirst},
		{"style", "no-cors", "style", StaleWhileRevalidate},
		{"script", "cors", "script", StaleWhileRevalidate},
		{"worker", "same-origin", "worker", StaleWhileRevalidate},
		{"image", "no-cors", "image", CacheFirst},
		{"api-call", "cors", "empty", PassThrough},
		{"font", "cors", "font", PassThrough},
		{"no-headers", "", "", PassThrough},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.expected, Classify(tc.mode, tc.destination)); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

// The same mode/destination pair always yields the same strategy, no matter
// what was requested.
func TestClassifyIgnoresURL(t *testing.T) {
	first := Classify("no-cors", "image")
	second := Classify("no-cors", "image")
	if first != second || first != CacheFirst {
		t.Fatalf("expected stable cache-first classification, got %s and %s", first, second)
	}
}

func TestNamesStale(t *testing.T) {
	names := Names{Prefix: "gazhub", Generation: "v2"}

	cases := []struct {
		bucket string
		stale  bool
	}{
		{"gazhub-pages-v1", true},
		{"gazhub-assets-v1", true},
		{"gazhub-pages-v2", false},
		{"gazhub-offline-v2", false},
		{"someone-elses-bucket", false},
	}

	for _, tc := range cases {
		if got := names.IsStale(tc.bucket); got != tc.stale {
			t.Errorf("IsStale(%q) = %v, expected %v", tc.bucket, got, tc.stale)
		}
	}
}
