package awss3

import (
	"errors"
	"io"
	"net/url"
	p "path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"

	"github.com/gazhub/offline-worker/pkg/e"
	"github.com/gazhub/offline-worker/pkg/s"
)

type Backend struct {
	BucketURL string
	Session   *session.Session
	Client    *s3.S3

	bucket string
	prefix string
	region string
}

func New(connectionString string) (*Backend, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String("us-east-1")})
	if err != nil {
		return &Backend{}, err
	}

	backend := Backend{
		BucketURL: connectionString,
		Session:   sess,
		region:    "us-east-1", // Region is calculated in Setup()
	}
	return &backend, nil
}

func (b *Backend) Setup() error {
	parsedURL, err := url.Parse(b.BucketURL)
	if err != nil {
		return err
	}

	if parsedURL.Scheme != "s3" {
		//goland:noinspection GoErrorStringFormat
		return errors.New("S3 url should be in the format of s3://bucket/prefix")
	}

	b.bucket = parsedURL.Host
	b.prefix = strings.TrimPrefix(parsedURL.Path, "/")

	b.Client = s3.New(b.Session, &aws.Config{Region: aws.String(b.region)})
	resp, err := b.Client.GetBucketLocation(&s3.GetBucketLocationInput{Bucket: aws.String(b.bucket)})
	if err != nil {
		return err
	}

	if resp.LocationConstraint != nil {
		b.region = *resp.LocationConstraint
		b.Session.Config.Region = resp.LocationConstraint
		b.Client = s3.New(b.Session, &aws.Config{Region: resp.LocationConstraint})
	}

	return nil
}

func (b *Backend) Type() string {
	return "s3"
}

func (b *Backend) objectKey(bucket, key string) string {
	return p.Join(b.prefix, bucket, key)
}

func (b *Backend) Write(bucket, key string, r io.Reader) (int64, error) {
	objectKey := b.objectKey(bucket, key)

	uploader := s3manager.NewUploader(b.Session)
	_, err := uploader.Upload(&s3manager.UploadInput{
		Bucket: aws.String(b.bucket),
		Body:   r,
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return 0, err
	}

	headResponse, err := b.Client.HeadObject(&s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return 0, err
	}

	return *headResponse.ContentLength, nil
}

func (b *Backend) Read(bucket, key string) (io.ReadCloser, error) {
	resp, err := b.Client.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.objectKey(bucket, key)),
	})
	if err != nil {
		var awsErr awserr.Error
		if errors.As(err, &awsErr) && awsErr.Code() == s3.ErrCodeNoSuchKey {
			return nil, e.ErrNotFound
		}
		return nil, err
	}

	return resp.Body, nil
}

func (b *Backend) Delete(bucket, key string) error {
	_, err := b.Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.objectKey(bucket, key)),
	})

	return err
}

func (b *Backend) List(bucket string) ([]s.ObjectInfo, error) {
	listPrefix := p.Join(b.prefix, bucket) + "/"

	result := make([]s.ObjectInfo, 0)
	err := b.Client.ListObjectsV2Pages(&s3.ListObjectsV2Input{
		Bucket: aws.String(b.bucket),
		Prefix: aws.String(listPrefix),
	}, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, object := range page.Contents {
			result = append(result, s.ObjectInfo{
				Key:      strings.TrimPrefix(*object.Key, listPrefix),
				Size:     *object.Size,
				Modified: *object.LastModified,
			})
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (b *Backend) ListBuckets() ([]string, error) {
	listPrefix := ""
	if b.prefix != "" {
		listPrefix = b.prefix + "/"
	}

	result := make([]string, 0)
	err := b.Client.ListObjectsV2Pages(&s3.ListObjectsV2Input{
		Bucket:    aws.String(b.bucket),
		Prefix:    aws.String(listPrefix),
		Delimiter: aws.String("/"),
	}, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, commonPrefix := range page.CommonPrefixes {
			name := strings.TrimPrefix(*commonPrefix.Prefix, listPrefix)
			result = append(result, strings.TrimSuffix(name, "/"))
		}
		return true
	})
	if err != nil {
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
