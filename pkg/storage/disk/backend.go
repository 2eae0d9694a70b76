package disk

import (
	"errors"
	"io"
	"os"
	p "path"
	"strings"

	"github.com/gazhub/offline-worker/pkg/e"
	"github.com/gazhub/offline-worker/pkg/s"
)

type Backend struct {
	BaseDir string
}

func New(connectionString string) (*Backend, error) {
	if _, err := os.Stat(connectionString); os.IsNotExist(err) {
		return nil, errors.New("path does not exist")
	}

	backend := Backend{BaseDir: connectionString}
	return &backend, nil
}

func (b *Backend) Setup() error {
	return nil
}

func (b *Backend) Type() string {
	return "disk"
}

func (b *Backend) objectPath(bucket, key string) (string, error) {
	filePath := p.Clean(p.Join(b.BaseDir, bucket, key))
	if !strings.HasPrefix(filePath, b.BaseDir) {
		return "", e.ErrNotFound
	}
	return filePath, nil
}

func (b *Backend) Write(bucket, key string, r io.Reader) (int64, error) {
	filePath, err := b.objectPath(bucket, key)
	if err != nil {
		return 0, err
	}

	if err = os.MkdirAll(p.Join(b.BaseDir, bucket), 0o755); err != nil {
		return 0, err
	}

	fp, err := os.OpenFile(filePath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, err
	}

	writtenBytes, err := io.Copy(fp, r)
	_ = fp.Close()

	if err != nil {
		_ = os.Remove(filePath)
		return 0, err
	}

	return writtenBytes, nil
}

func (b *Backend) Read(bucket, key string) (io.ReadCloser, error) {
	filePath, err := b.objectPath(bucket, key)
	if err != nil {
		return nil, err
	}

	fp, err := os.Open(filePath)
	if os.IsNotExist(err) {
		return nil, e.ErrNotFound
	} else if err != nil {
		return nil, err
	}

	return fp, nil
}

func (b *Backend) Delete(bucket, key string) error {
	filePath, err := b.objectPath(bucket, key)
	if err != nil {
		return err
	}

	err = os.Remove(filePath)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (b *Backend) List(bucket string) ([]s.ObjectInfo, error) {
	entries, err := os.ReadDir(p.Join(b.BaseDir, bucket))
	if os.IsNotExist(err) {
		return []s.ObjectInfo{}, nil
	} else if err != nil {
		return nil, err
	}

	result := make([]s.ObjectInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err2 := entry.Info()
		if err2 != nil {
			continue
		}
		result = append(result, s.ObjectInfo{
			Key:      entry.Name(),
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
	}

	return result, nil
}

func (b *Backend) ListBuckets() ([]string, error) {
	entries, err := os.ReadDir(b.BaseDir)
	if err != nil {
		return nil, err
	}

	result := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			result = append(result, entry.Name())
		}
	}

	return result, nil
}

func (b *Backend) DeleteBucket(bucket string) error {
	bucketPath := p.Clean(p.Join(b.BaseDir, bucket))
	if !strings.HasPrefix(bucketPath, b.BaseDir) || bucketPath == p.Clean(b.BaseDir) {
		return e.ErrNotFound
	}
	return os.RemoveAll(bucketPath)
}
