package files

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/msgtobala/user-story-generator/internal/logging"
	"github.com/msgtobala/user-story-generator/internal/metrics"
	"github.com/msgtobala/user-story-generator/internal/templates/domain"
	"github.com/msgtobala/user-story-generator/internal/validation"
)

// Upload is one file of a batch.
type Upload struct {
	Name        string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// Outcome is the result for one file; exactly one of Attachment and Err is set.
type Outcome struct {
	Name       string
	Attachment *domain.FileAttachment
	Err        error
}

// BatchError lists the files of a batch that were not stored.
type BatchError struct {
	Failed []string
}

func (e *BatchError) Error() string {
	return "failed to upload: " + strings.Join(e.Failed, ", ")
}

type Uploader struct {
	blob        Blob
	now         func() time.Time
	concurrency int
}

func NewUploader(blob Blob) *Uploader {
	return &Uploader{blob: blob, now: time.Now, concurrency: 4}
}

// UploadBatch validates and stores files for ownerID. existing is the number
// of attachments the owner already has. Each file succeeds or fails on its own;
// the returned error is a *BatchError when any file failed, or a validation
// error when the batch would exceed MaxFiles.
func (u *Uploader) UploadBatch(ctx context.Context, ownerID string, existing int, uploads []Upload) ([]Outcome, error) {
	if existing+len(uploads) > MaxFiles {
		return nil, validation.Errorf("Maximum %d files allowed", MaxFiles)
	}

	outcomes := make([]Outcome, len(uploads))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.concurrency)

	for i, up := range uploads {
		outcomes[i].Name = up.Name
		if err := check(up); err != nil {
			outcomes[i].Err = err
			continue
		}
		g.Go(func() error {
			att, err := u.put(gctx, ownerID, up)
			if err != nil {
				outcomes[i].Err = fmt.Errorf("upload %s: %w", up.Name, err)
				return nil
			}
			outcomes[i].Attachment = att
			return nil
		})
	}
	_ = g.Wait()

	var failed []string
	for _, o := range outcomes {
		if o.Err != nil {
			failed = append(failed, o.Name)
			metrics.Uploads.WithLabelValues("failed").Inc()
			logging.FromContext(ctx).Warn("attachment upload failed",
				zap.String("owner_id", ownerID), zap.String("file", o.Name), zap.Error(o.Err))
			continue
		}
		metrics.Uploads.WithLabelValues("stored").Inc()
	}
	if len(failed) > 0 {
		return outcomes, &BatchError{Failed: failed}
	}
	return outcomes, nil
}

// Attachments returns the stored attachments of outcomes, in input order.
func Attachments(outcomes []Outcome) []domain.FileAttachment {
	out := make([]domain.FileAttachment, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Attachment != nil {
			out = append(out, *o.Attachment)
		}
	}
	return out
}

// Delete removes a stored file. Failures are logged only; the file may
// already be gone.
func (u *Uploader) Delete(ctx context.Context, ownerID, fileID string) {
	if err := u.blob.Remove(ctx, ObjectPath(ownerID, fileID)); err != nil {
		logging.FromContext(ctx).Warn("attachment delete failed",
			zap.String("owner_id", ownerID), zap.String("file_id", fileID), zap.Error(err))
	}
}

func check(up Upload) error {
	if !Accepted(up.Name, up.ContentType) {
		return validation.Errorf("%s: File type not supported", up.Name)
	}
	if up.Size > MaxFileSize {
		return validation.Errorf("%s: File too large (max %dMB)", up.Name, MaxFileSize>>20)
	}
	return nil
}

func (u *Uploader) put(ctx context.Context, ownerID string, up Upload) (*domain.FileAttachment, error) {
	rc, err := up.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, MaxFileSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxFileSize {
		return nil, errors.New("file exceeds the size limit")
	}

	contentType := up.ContentType
	if contentType == "" {
		contentType = mimetype.Detect(data).String()
	}
	if contentType == "" {
		contentType = defaultContentType
	}

	now := u.now()
	fileID := NewFileID(up.Name, now)
	meta := map[string]string{
		"originalName": up.Name,
		"uploadedAt":   now.UTC().Format(time.RFC3339),
	}

	url, err := u.blob.Put(ctx, ObjectPath(ownerID, fileID), bytes.NewReader(data), int64(len(data)), contentType, meta)
	if err != nil {
		return nil, err
	}

	return &domain.FileAttachment{
		ID:         fileID,
		Name:       up.Name,
		Type:       contentType,
		Size:       int64(len(data)),
		URL:        url,
		UploadedAt: now,
	}, nil
}
