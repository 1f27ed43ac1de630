package http

import (
	"github.com/gin-gonic/gin"

	"github.com/msgtobala/user-story-generator/internal/files"
	"github.com/msgtobala/user-story-generator/internal/templates/service"
)

type Handler struct {
	templates *service.TemplateService
	uploader  *files.Uploader
}

func New(templates *service.TemplateService, uploader *files.Uploader) *Handler {
	return &Handler{templates: templates, uploader: uploader}
}

// Register attaches template routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.GET("/modules", h.modules)
	rg.POST("/import", h.importStories)
	rg.GET("/:id", h.get)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.delete)
	rg.POST("/:id/clone", h.clone)
	rg.POST("/:id/attachments", h.uploadAttachments)
	rg.DELETE("/:id/attachments/:file_id", h.deleteAttachment)
}

// RegisterUploads attaches the upload route for templates that are not saved yet.
func (h *Handler) RegisterUploads(rg *gin.RouterGroup) {
	rg.POST("", h.uploadTemp)
	rg.DELETE("/:owner_id/:file_id", h.deleteTemp)
}
