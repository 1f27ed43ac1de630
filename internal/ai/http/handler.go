package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"github.com/msgtobala/user-story-generator/internal/ai"
	apihttp "github.com/msgtobala/user-story-generator/internal/api/http"
	"github.com/msgtobala/user-story-generator/internal/files"
)

type Handler struct {
	gen *ai.Generator
}

func New(gen *ai.Generator) *Handler {
	return &Handler{gen: gen}
}

// Register attaches AI routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/acceptance-criteria", h.acceptanceCriteria)
	rg.POST("/stories", h.stories)
}

func (h *Handler) acceptanceCriteria(c *gin.Context) {
	var req ai.CriteriaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	criteria, err := h.gen.GenerateAcceptanceCriteria(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err, "Failed to generate acceptance criteria")
		return
	}
	c.JSON(http.StatusOK, gin.H{"acceptanceCriteria": criteria})
}

func (h *Handler) stories(c *gin.Context) {
	fh, err := c.FormFile("document")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "document is required"})
		return
	}
	if fh.Size > files.MaxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": fh.Filename + ": File too large (max 25MB)"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read document"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, files.MaxFileSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read document"})
		return
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mimetype.Detect(data).String()
	}
	contentType, _, _ = strings.Cut(contentType, ";")
	if !files.Accepted(fh.Filename, contentType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fh.Filename + ": File type not supported"})
		return
	}

	stories, err := h.gen.GenerateStories(c.Request.Context(), ai.Document{
		Name:     fh.Filename,
		MIMEType: contentType,
		Data:     data,
	})
	if err != nil {
		h.writeError(c, err, "Failed to generate user stories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"stories": stories, "count": len(stories)})
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, ai.ErrMissingAPIKey) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	apihttp.WriteError(c, err, fallback)
}
