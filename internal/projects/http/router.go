package http

import "github.com/gin-gonic/gin"

// Register attaches project routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.GET("/:id", h.get)
	rg.PATCH("/:id", h.rename)
	rg.DELETE("/:id", h.delete)
	rg.GET("/:id/export", h.export)
	rg.PATCH("/:id/stories/:story_id", h.updateStoryField)
	rg.PUT("/:id/stories/:story_id", h.replaceStory)
}

// RegisterDrafts attaches the project creation draft routes.
func (h *Handler) RegisterDrafts(rg *gin.RouterGroup) {
	rg.POST("", h.newDraft)
	rg.GET("/:id", h.getDraft)
	rg.POST("/:id/modules/toggle", h.toggleModule)
	rg.POST("/:id/templates/toggle", h.toggleTemplate)
	rg.PUT("/:id/search", h.setSearch)
	rg.POST("/:id/clear", h.clearDraft)
	rg.POST("/:id/commit", h.commitDraft)
	rg.DELETE("/:id", h.cancelDraft)
}
