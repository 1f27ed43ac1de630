package http

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apihttp "github.com/msgtobala/user-story-generator/internal/api/http"
	"github.com/msgtobala/user-story-generator/internal/files"
	"github.com/msgtobala/user-story-generator/internal/templates/domain"
	"github.com/msgtobala/user-story-generator/internal/validation"
)

type failedUpload struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

func (h *Handler) uploadAttachments(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	t, err := h.templates.Get(ctx, id)
	if err != nil {
		apihttp.WriteError(c, err, "Failed to load template", domain.ErrTemplateNotFound)
		return
	}

	uploads, ok := formUploads(c)
	if !ok {
		return
	}

	outcomes, batchErr := h.uploader.UploadBatch(ctx, t.ID, len(t.Attachments), uploads)
	if batchErr != nil && validation.Is(batchErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": batchErr.Error()})
		return
	}

	stored := files.Attachments(outcomes)
	if len(stored) > 0 {
		if t, err = h.templates.AddAttachments(ctx, t.ID, stored); err != nil {
			apihttp.WriteError(c, err, "Failed to save template. Please try again.", domain.ErrTemplateNotFound)
			return
		}
	}

	body := batchBody(outcomes, batchErr)
	body["template"] = t
	c.JSON(http.StatusOK, body)
}

func (h *Handler) deleteAttachment(c *gin.Context) {
	ctx := c.Request.Context()
	id, fileID := c.Param("id"), c.Param("file_id")

	t, err := h.templates.RemoveAttachment(ctx, id, fileID)
	if err != nil {
		apihttp.WriteError(c, err, "Failed to remove attachment", domain.ErrTemplateNotFound, domain.ErrAttachmentNotFound)
		return
	}
	h.uploader.Delete(ctx, id, fileID)
	c.JSON(http.StatusOK, gin.H{"template": t})
}

// saved templates manage their files through /templates/:id/attachments
const errNotTempOwner = "owner_id must be a temporary upload owner"

// uploadTemp stores files for a template form that has not been saved yet.
// The client keeps the returned owner id and attachments until it saves.
func (h *Handler) uploadTemp(c *gin.Context) {
	uploads, ok := formUploads(c)
	if !ok {
		return
	}

	owner := c.PostForm("owner_id")
	if owner == "" {
		owner = files.TempOwnerID(time.Now())
	} else if !files.IsTempOwner(owner) {
		c.JSON(http.StatusBadRequest, gin.H{"error": errNotTempOwner})
		return
	}
	// attachments the form already holds, for the MaxFiles check
	existing, _ := strconv.Atoi(c.PostForm("existing"))
	if existing < 0 {
		existing = 0
	}

	outcomes, batchErr := h.uploader.UploadBatch(c.Request.Context(), owner, existing, uploads)
	if batchErr != nil && validation.Is(batchErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": batchErr.Error()})
		return
	}

	body := batchBody(outcomes, batchErr)
	body["ownerId"] = owner
	c.JSON(http.StatusOK, body)
}

func (h *Handler) deleteTemp(c *gin.Context) {
	owner := c.Param("owner_id")
	if !files.IsTempOwner(owner) {
		c.JSON(http.StatusBadRequest, gin.H{"error": errNotTempOwner})
		return
	}
	h.uploader.Delete(c.Request.Context(), owner, c.Param("file_id"))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func formUploads(c *gin.Context) ([]files.Upload, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expected multipart form with files"})
		return nil, false
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files provided"})
		return nil, false
	}

	uploads := make([]files.Upload, 0, len(headers))
	for _, fh := range headers {
		uploads = append(uploads, files.Upload{
			Name:        fh.Filename,
			Size:        fh.Size,
			ContentType: fh.Header.Get("Content-Type"),
			Open:        opener(fh),
		})
	}
	return uploads, true
}

func opener(fh *multipart.FileHeader) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return fh.Open()
	}
}

func batchBody(outcomes []files.Outcome, batchErr error) gin.H {
	failed := make([]failedUpload, 0)
	for _, o := range outcomes {
		if o.Err != nil {
			failed = append(failed, failedUpload{Name: o.Name, Error: o.Err.Error()})
		}
	}
	body := gin.H{
		"attachments": files.Attachments(outcomes),
		"failed":      failed,
	}
	var be *files.BatchError
	if errors.As(batchErr, &be) {
		body["error"] = be.Error()
	}
	return body
}
