package database

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/gazhub/offline-worker/pkg/e"
	"github.com/gazhub/offline-worker/pkg/s"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	if _, exists := os.LookupEnv("DEBUG"); exists {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	os.Exit(m.Run())
}

func TestDatabaseBackends(t *testing.T) {
	// Shared behaviour every durable store backend must satisfy
	runTests := func(backend Backend, t *testing.T) {
		t.Run("enqueue-defaults", testEnqueueDefaults(backend))
		t.Run("list-insertion-order", testListInsertionOrder(backend))
		t.Run("remove-idempotent", testRemoveIdempotent(backend))
		t.Run("staged-file-roundtrip", testStagedFileRoundTrip(backend))
		t.Run("staged-file-missing", testStagedFileMissing(backend))
		t.Run("staged-file-sweep", testStagedFileSweep(backend))
	}

	t.Run("sqlite", func(t *testing.T) {
		backend, err := GetBackend("sqlite", "file::memory:?cache=shared")
		require.NoError(t, err)

		runTests(backend, t)
	})

	t.Run("leveldb", func(t *testing.T) {
		backend, err := GetBackend("leveldb", t.TempDir())
		require.NoError(t, err)

		runTests(backend, t)
	})

	t.Run("postgres", func(t *testing.T) {
		pgURL := os.Getenv("DB_POSTGRES")
		if pgURL == "" {
			t.Skip("Skipped postgres as no env var")
		}
		backend, err := GetBackend("postgres", pgURL)
		require.NoError(t, err)

		runTests(backend, t)
	})
}

func TestGetBackendInvalid(t *testing.T) {
	_, err := GetBackend("mongodb", "")
	require.Error(t, err)
}

func drainAll(t *testing.T, backend Backend) {
	t.Helper()
	actions, err := backend.ListActions()
	require.NoError(t, err)
	for _, action := range actions {
		require.NoError(t, backend.RemoveAction(action.ID))
	}
}

func testEnqueueDefaults(backend Backend) func(*testing.T) {
	return func(t *testing.T) {
		defer drainAll(t, backend)

		id, err := backend.EnqueueAction(s.PendingAction{
			URL:  "/api/orders",
			Data: json.RawMessage(`{"qty":1}`),
		})
		require.NoError(t, err)
		require.Greater(t, id, int64(0))

		actions, err := backend.ListActions()
		require.NoError(t, err)
		require.Len(t, actions, 1)
		require.Equal(t, "POST", actions[0].Method)
		require.Equal(t, "/api/orders", actions[0].URL)
		require.JSONEq(t, `{"qty":1}`, string(actions[0].Data))
		require.NotEmpty(t, actions[0].CreatedAt)
	}
}

func testListInsertionOrder(backend Backend) func(*testing.T) {
	return func(t *testing.T) {
		defer drainAll(t, backend)

		urls := []string{"/api/a", "/api/b", "/api/c"}
		for _, u := range urls {
			_, err := backend.EnqueueAction(s.PendingAction{URL: u, Method: "PUT"})
			require.NoError(t, err)
		}

		actions, err := backend.ListActions()
		require.NoError(t, err)
		require.Len(t, actions, len(urls))
		for i, action := range actions {
			require.Equal(t, urls[i], action.URL)
		}
	}
}

func testRemoveIdempotent(backend Backend) func(*testing.T) {
	return func(t *testing.T) {
		defer drainAll(t, backend)

		id, err := backend.EnqueueAction(s.PendingAction{URL: "/api/x"})
		require.NoError(t, err)

		require.NoError(t, backend.RemoveAction(id))
		// Removing again must not error
		require.NoError(t, backend.RemoveAction(id))
		require.NoError(t, backend.RemoveAction(99999))

		actions, err := backend.ListActions()
		require.NoError(t, err)
		require.Empty(t, actions)
	}
}

func testStagedFileRoundTrip(backend Backend) func(*testing.T) {
	return func(t *testing.T) {
		file := s.StagedFile{
			ID:          "1700000000000-roundtrip",
			Name:        "order.csv",
			ContentType: "text/csv",
			Size:        11,
			Content:     "qty,product",
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
		}
		require.NoError(t, backend.StageFile(file))

		got, err := backend.GetStagedFile(file.ID)
		require.NoError(t, err)
		require.Equal(t, file, got)

		require.NoError(t, backend.DeleteStagedFile(file.ID))
		_, err = backend.GetStagedFile(file.ID)
		require.ErrorIs(t, err, e.ErrNotFound)
	}
}

func testStagedFileMissing(backend Backend) func(*testing.T) {
	return func(t *testing.T) {
		_, err := backend.GetStagedFile("nope")
		require.ErrorIs(t, err, e.ErrNotFound)

		require.NoError(t, backend.DeleteStagedFile("nope"))
	}
}

func testStagedFileSweep(backend Backend) func(*testing.T) {
	return func(t *testing.T) {
		old := s.StagedFile{
			ID:        "1600000000000-old",
			Name:      "stale.txt",
			Timestamp: time.Now().Add(-48 * time.Hour).UTC().Format(time.RFC3339),
		}
		fresh := s.StagedFile{
			ID:        "1700000000001-fresh",
			Name:      "fresh.txt",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}
		require.NoError(t, backend.StageFile(old))
		require.NoError(t, backend.StageFile(fresh))

		swept, err := backend.SweepStagedFiles(time.Now().Add(-24 * time.Hour))
		require.NoError(t, err)
		require.Equal(t, 1, swept)

		_, err = backend.GetStagedFile(old.ID)
		require.ErrorIs(t, err, e.ErrNotFound)
		_, err = backend.GetStagedFile(fresh.ID)
		require.NoError(t, err)

		require.NoError(t, backend.DeleteStagedFile(fresh.ID))
	}
}
