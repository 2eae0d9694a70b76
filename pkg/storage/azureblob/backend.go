package azureblob

import (
	"context"
	"errors"
	"io"
	"io/ioutil"
	"os"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	"github.com/gazhub/offline-worker/pkg/e"
	"github.com/gazhub/offline-worker/pkg/s"
)

type Backend struct {
	Client    azblob.ContainerClient
	container string
}

func ParsePartsFromConnectionString(connStr string) (string, string, string, bool) {
	container := ""
	account := ""
	key := ""

	parts := strings.Split(connStr, ";")
	for _, part := range parts {
		subParts := strings.SplitN(part, "=", 2)
		if len(subParts) < 2 {
			return "", "", "", false
		}

		if subParts[0] == "Container" {
			container = subParts[1]
		} else if subParts[0] == "AccountName" {
			account = subParts[1]
		}
		if subParts[0] == "AccountKey" {
			key = subParts[1]
		}
	}

	if container == "" || account == "" || key == "" {
		return "", "", "", false
	}

	return account, key, container, true
}

func New(connectionString string) (*Backend, error) {
	_, _, container, found := ParsePartsFromConnectionString(connectionString)
	if !found {
		return &Backend{}, errors.New("container missing from connection string")
	}

	client, err := azblob.NewContainerClientFromConnectionString(connectionString, container, &azblob.ClientOptions{})
	if err != nil {
		return &Backend{}, err
	}

	backend := Backend{
		container: container,
		Client:    client,
	}
	return &backend, nil
}

func (b *Backend) Setup() error {
	return nil
}

func (b *Backend) Type() string {
	return "azureblob"
}

func blobName(bucket, key string) string {
	return bucket + "/" + key
}

// Upload needs an io.ReadSeekCloser but we only have an io.Reader, so the
// payload goes through a temp file first.
func (b *Backend) Write(bucket, key string, r io.Reader) (int64, error) {
	blobClient := b.Client.NewBlockBlobClient(blobName(bucket, key))

	f, err := ioutil.TempFile(os.TempDir(), "blob-*")
	if err != nil {
		return 0, err
	}
	defer func() {
		name := f.Name()
		_ = f.Close()
		_ = os.Remove(name)
	}()

	count, err := f.ReadFrom(r)
	if err != nil {
		return 0, err
	}
	if _, err = f.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}

	if _, err = blobClient.Upload(context.Background(), f, &azblob.UploadBlockBlobOptions{}); err != nil {
		return 0, err
	}

	return count, nil
}

func (b *Backend) Read(bucket, key string) (io.ReadCloser, error) {
	blobClient := b.Client.NewBlockBlobClient(blobName(bucket, key))

	resp, err := blobClient.Download(context.Background(), &azblob.DownloadBlobOptions{})
	if err != nil {
		var storageErr *azblob.StorageError
		if errors.As(err, &storageErr) && storageErr.ErrorCode == azblob.StorageErrorCodeBlobNotFound {
			return nil, e.ErrNotFound
		}
		return nil, err
	}

	return resp.Body(azblob.RetryReaderOptions{}), nil
}

func (b *Backend) Delete(bucket, key string) error {
	blobClient := b.Client.NewBlockBlobClient(blobName(bucket, key))
	_, err := blobClient.Delete(context.Background(), &azblob.DeleteBlobOptions{})
	return err
}

func (b *Backend) List(bucket string) ([]s.ObjectInfo, error) {
	prefix := bucket + "/"
	pager := b.Client.ListBlobsFlat(&azblob.ContainerListBlobFlatSegmentOptions{Prefix: &prefix})

	result := make([]s.ObjectInfo, 0)
	for pager.NextPage(context.Background()) {
		resp := pager.PageResponse()
		for _, item := range resp.ContainerListBlobFlatSegmentResult.Segment.BlobItems {
			if item.Name == nil {
				continue
			}
			info := s.ObjectInfo{Key: strings.TrimPrefix(*item.Name, prefix)}
			if item.Properties != nil {
				if item.Properties.ContentLength != nil {
					info.Size = *item.Properties.ContentLength
				}
				if item.Properties.LastModified != nil {
					info.Modified = *item.Properties.LastModified
				}
			}
			result = append(result, info)
		}
	}
	if err := pager.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (b *Backend) ListBuckets() ([]string, error) {
	pager := b.Client.ListBlobsFlat(&azblob.ContainerListBlobFlatSegmentOptions{})

	seen := make(map[string]struct{})
	result := make([]string, 0)
	for pager.NextPage(context.Background()) {
		resp := pager.PageResponse()
		for _, item := range resp.ContainerListBlobFlatSegmentResult.Segment.BlobItems {
			if item.Name == nil {
				continue
			}
			parts := strings.SplitN(*item.Name, "/", 2)
			if len(parts) != 2 {
				continue
			}
			if _, ok := seen[parts[0]]; !ok {
				seen[parts[0]] = struct{}{}
				result = append(result, parts[0])
			}
		}
	}
	if err := pager.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (b *Backend) DeleteBucket(bucket string) error {
	objects, err := b.List(bucket)
	if err != nil {
		return err
	}

	for _, object := range objects {
		if err = b.Delete(bucket, object.Key); err != nil {
			return err
		}
	}

	return nil
}
