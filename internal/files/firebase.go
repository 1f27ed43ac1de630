package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
)

const downloadTokensKey = "firebaseStorageDownloadTokens"

// FirebaseBlob stores objects in a Firebase Storage bucket. URLs carry a
// download token, the same form the Firebase web SDK hands out.
type FirebaseBlob struct {
	bucket *gcs.BucketHandle
	name   string
}

// NewFirebaseBlob wraps a bucket from the admin SDK's storage client.
func NewFirebaseBlob(bucket *gcs.BucketHandle, name string) *FirebaseBlob {
	return &FirebaseBlob{bucket: bucket, name: name}
}

func (b *FirebaseBlob) Put(ctx context.Context, objectPath string, r io.Reader, _ int64, contentType string, meta map[string]string) (string, error) {
	token := uuid.NewString()

	w := b.bucket.Object(objectPath).NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = map[string]string{downloadTokensKey: token}
	for k, v := range meta {
		w.Metadata[k] = v
	}

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write %s: %w", objectPath, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", objectPath, err)
	}

	return DownloadURL(b.name, objectPath, token), nil
}

func (b *FirebaseBlob) Remove(ctx context.Context, objectPath string) error {
	err := b.bucket.Object(objectPath).Delete(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil
	}
	return err
}

// DownloadURL is the public Firebase Storage URL of an object.
func DownloadURL(bucket, objectPath, token string) string {
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		bucket, url.PathEscape(objectPath), url.QueryEscape(token))
}

var _ Blob = (*FirebaseBlob)(nil)
