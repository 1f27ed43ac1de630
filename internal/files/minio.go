package files

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL is the base of returned object URLs; defaults to the endpoint.
	PublicURL string
}

// MinioBlob stores objects in an S3 compatible bucket.
type MinioBlob struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewMinioBlob(ctx context.Context, conf MinioConfig) (*MinioBlob, error) {
	client, err := minio.New(conf.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(conf.AccessKey, conf.SecretKey, ""),
		Secure: conf.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, conf.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", conf.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, conf.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", conf.Bucket, err)
		}
	}

	public := conf.PublicURL
	if public == "" {
		scheme := "http"
		if conf.UseSSL {
			scheme = "https"
		}
		public = scheme + "://" + conf.Endpoint
	}

	return &MinioBlob{client: client, bucket: conf.Bucket, publicURL: strings.TrimRight(public, "/")}, nil
}

func (b *MinioBlob) Put(ctx context.Context, objectPath string, r io.Reader, size int64, contentType string, meta map[string]string) (string, error) {
	_, err := b.client.PutObject(ctx, b.bucket, objectPath, r, size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: meta,
	})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", objectPath, err)
	}
	return b.publicURL + "/" + b.bucket + "/" + escapePath(objectPath), nil
}

func (b *MinioBlob) Remove(ctx context.Context, objectPath string) error {
	return b.client.RemoveObject(ctx, b.bucket, objectPath, minio.RemoveObjectOptions{})
}

func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, s := range parts {
		parts[i] = url.PathEscape(s)
	}
	return strings.Join(parts, "/")
}

var _ Blob = (*MinioBlob)(nil)
