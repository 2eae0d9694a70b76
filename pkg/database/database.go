package database

import (
	"errors"
	"time"

	"github.com/gazhub/offline-worker/pkg/database/leveldb"
	"github.com/gazhub/offline-worker/pkg/database/postgres"
	"github.com/gazhub/offline-worker/pkg/database/sqlite"
	"github.com/gazhub/offline-worker/pkg/s"
)

// Backend is the durable store for pending actions and staged files. Every
// call is one bounded read-write operation; callers never see a half-applied
// record.
type Backend interface {
	Type() string

	// EnqueueAction inserts one pending action and returns its assigned id.
	EnqueueAction(action s.PendingAction) (int64, error)
	// ListActions returns all queued actions in insertion order.
	ListActions() ([]s.PendingAction, error)
	// RemoveAction deletes one action by id. Removing a nonexistent id is
	// not an error.
	RemoveAction(id int64) error

	StageFile(file s.StagedFile) error
	GetStagedFile(id string) (s.StagedFile, error)
	DeleteStagedFile(id string) error
	// SweepStagedFiles removes staged files older than the cutoff and
	// returns how many were deleted.
	SweepStagedFiles(olderThan time.Time) (int, error)
}

func GetBackend(backend, connectionString string) (Backend, error) {
	switch backend {
	case "sqlite":
		return sqlite.NewSQLiteBackend(connectionString)
	case "postgres":
		return postgres.NewPostgresBackend(connectionString)
	case "leveldb":
		return leveldb.NewLevelDBBackend(connectionString)
	default:
		return nil, errors.New("invalid database backend")
	}
}
