package leveldb

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/gazhub/offline-worker/pkg/e"
	"github.com/gazhub/offline-worker/pkg/s"
)

const (
	actionPrefix = "a:"
	filePrefix   = "f:"
	seqKey       = "seq:actions"
)

// Backend stores actions under zero-padded sequence keys so a prefix scan
// yields insertion order, and staged files under their caller-supplied ids.
type Backend struct {
	db *leveldb.DB

	mu sync.Mutex // guards the sequence counter
}

func NewLevelDBBackend(connectionString string) (*Backend, error) {
	db, err := leveldb.OpenFile(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", e.ErrStoreUnavailable, err)
	}

	return &Backend{db: db}, nil
}

func (b *Backend) Type() string { return "leveldb" }

func (b *Backend) Close() error { return b.db.Close() }

func actionKey(id int64) []byte {
	return []byte(fmt.Sprintf("%s%020d", actionPrefix, id))
}

func (b *Backend) nextSeq() (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var seq int64
	raw, err := b.db.Get([]byte(seqKey), nil)
	if err != nil && err != leveldb.ErrNotFound {
		return 0, err
	}
	if err == nil {
		seq = int64(binary.BigEndian.Uint64(raw))
	}
	seq++

	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(seq))
	if err = b.db.Put([]byte(seqKey), buf, nil); err != nil {
		return 0, err
	}

	return seq, nil
}

func (b *Backend) EnqueueAction(action s.PendingAction) (int64, error) {
	id, err := b.nextSeq()
	if err != nil {
		return -1, err
	}

	action.ID = id
	if action.Method == "" {
		action.Method = "POST"
	}
	if action.CreatedAt == "" {
		action.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	value, err := json.Marshal(action)
	if err != nil {
		return -1, err
	}

	if err = b.db.Put(actionKey(id), value, nil); err != nil {
		return -1, err
	}

	log.Debug().Int64("action_id", id).Str("url", action.URL).Msg("Queued pending action")
	return id, nil
}

func (b *Backend) ListActions() ([]s.PendingAction, error) {
	it := b.db.NewIterator(util.BytesPrefix([]byte(actionPrefix)), nil)
	defer it.Release()

	result := make([]s.PendingAction, 0)
	for it.Next() {
		var action s.PendingAction
		if err := json.Unmarshal(it.Value(), &action); err != nil {
			return nil, err
		}
		result = append(result, action)
	}
	if err := it.Error(); err != nil {
		return nil, err
	}

	return result, nil
}

func (b *Backend) RemoveAction(id int64) error {
	// leveldb Delete on a missing key is a no-op
	return b.db.Delete(actionKey(id), nil)
}

func (b *Backend) StageFile(file s.StagedFile) error {
	value, err := json.Marshal(file)
	if err != nil {
		return err
	}
	return b.db.Put([]byte(filePrefix+file.ID), value, nil)
}

func (b *Backend) GetStagedFile(id string) (s.StagedFile, error) {
	raw, err := b.db.Get([]byte(filePrefix+id), nil)
	if err == leveldb.ErrNotFound {
		return s.StagedFile{}, e.ErrNotFound
	} else if err != nil {
		return s.StagedFile{}, err
	}

	var file s.StagedFile
	if err = json.Unmarshal(raw, &file); err != nil {
		return s.StagedFile{}, err
	}

	return file, nil
}

func (b *Backend) DeleteStagedFile(id string) error {
	return b.db.Delete([]byte(filePrefix+id), nil)
}

func (b *Backend) SweepStagedFiles(olderThan time.Time) (int, error) {
	it := b.db.NewIterator(util.BytesPrefix([]byte(filePrefix)), nil)
	defer it.Release()

	batch := new(leveldb.Batch)
	count := 0
	for it.Next() {
		var file s.StagedFile
		if err := json.Unmarshal(it.Value(), &file); err != nil {
			continue
		}
		created, err := time.Parse(time.RFC3339, file.Timestamp)
		if err != nil || created.Before(olderThan) {
			key := make([]byte, len(it.Key()))
			copy(key, it.Key())
			batch.Delete(key)
			count++
		}
	}
	if err := it.Error(); err != nil {
		return 0, err
	}

	if count > 0 {
		if err := b.db.Write(batch, nil); err != nil {
			return 0, err
		}
	}

	return count, nil
}
