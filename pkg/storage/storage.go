package storage

import (
	"errors"
	"io"

	awss3 "github.com/gazhub/offline-worker/pkg/storage/aws-s3"
	"github.com/gazhub/offline-worker/pkg/storage/azureblob"
	"github.com/gazhub/offline-worker/pkg/storage/disk"
	"github.com/gazhub/offline-worker/pkg/s"
)

// Backend holds cached response envelopes grouped into named buckets. Keys
// are opaque filename-safe strings; the cache layer derives them from URLs.
type Backend interface {
	Setup() error
	Type() string
	Write(bucket, key string, r io.Reader) (int64, error)
	Read(bucket, key string) (io.ReadCloser, error)
	Delete(bucket, key string) error
	List(bucket string) ([]s.ObjectInfo, error)
	ListBuckets() ([]string, error)
	DeleteBucket(bucket string) error
}

func GetStorageBackend(backend, connectionString string) (Backend, error) {
	var b Backend
	var err error

	switch backend {
	case "disk":
		b, err = disk.New(connectionString)
	case "s3":
		b, err = awss3.New(connectionString)
	case "azureblob":
		b, err = azureblob.New(connectionString)
	default:
		return nil, errors.New("invalid storage backend")
	}

	if err != nil {
		return nil, err
	}

	if err := b.Setup(); err != nil {
		return nil, err
	}

	return b, nil
}
