package s3store

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"clipcap/internal/pkg/errors"
	"clipcap/internal/pkg/fetch"
)

// DefaultPresignTTL is used when the caller does not request an expiry.
const DefaultPresignTTL = 24 * time.Hour

// Store implements ports.ObjectStore backed by S3. Presigned GET URLs are
// the capability URLs handed to the renderer and to polling callers.
type Store struct {
	client   *s3.Client
	presign  *s3.PresignClient
	uploader *manager.Uploader
	bucket   string
	httpc    *http.Client
}

func New(client *s3.Client, bucket string) *Store {
	return &Store{
		client:   client,
		presign:  s3.NewPresignClient(client),
		uploader: manager.NewUploader(client),
		bucket:   bucket,
		httpc:    &http.Client{Timeout: 60 * time.Second},
	}
}

func (s *Store) Provider() string { return "s3" }

func (s *Store) Presign(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultPresignTTL
	}

	out, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(po *s3.PresignOptions) {
		po.Expires = ttl
	})
	if err != nil {
		return "", errors.Storage(err, "objectstore.presign", "failed to presign object "+key)
	}

	return out.URL, nil
}

func (s *Store) Download(ctx context.Context, url string) ([]byte, error) {
	data, err := fetch.Bytes(ctx, s.httpc, url)
	if err != nil {
		return nil, errors.Storage(err, "objectstore.download", "failed to download object")
	}
	return data, nil
}

func (s *Store) Upload(ctx context.Context, data []byte, key, contentType string) error {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return errors.Storage(err, "objectstore.upload", "failed to upload object "+key)
	}
	return nil
}
