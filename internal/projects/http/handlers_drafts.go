package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apihttp "github.com/msgtobala/user-story-generator/internal/api/http"
	"github.com/msgtobala/user-story-generator/internal/projects/domain"
	"github.com/msgtobala/user-story-generator/internal/projects/service"
)

func (h *Handler) newDraft(c *gin.Context) {
	v, err := h.drafts.New(c.Request.Context(), c.GetString("firebase_uid"))
	if err != nil {
		apihttp.WriteError(c, err, "Failed to start project")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"draft": v})
}

func (h *Handler) getDraft(c *gin.Context) {
	v, err := h.drafts.Get(c.Request.Context(), c.GetString("firebase_uid"), c.Param("id"))
	h.draftResponse(c, v, err)
}

func (h *Handler) toggleModule(c *gin.Context) {
	var req toggleModuleReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Module == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "module is required"})
		return
	}
	v, err := h.drafts.ToggleModule(c.Request.Context(), c.GetString("firebase_uid"), c.Param("id"), req.Module)
	h.draftResponse(c, v, err)
}

func (h *Handler) toggleTemplate(c *gin.Context) {
	var req toggleTemplateReq
	if err := c.ShouldBindJSON(&req); err != nil || req.TemplateID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "templateId is required"})
		return
	}
	v, err := h.drafts.ToggleTemplate(c.Request.Context(), c.GetString("firebase_uid"), c.Param("id"), req.TemplateID)
	h.draftResponse(c, v, err)
}

func (h *Handler) setSearch(c *gin.Context) {
	var req searchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	v, err := h.drafts.SetSearch(c.Request.Context(), c.GetString("firebase_uid"), c.Param("id"), req.SearchTerm)
	h.draftResponse(c, v, err)
}

func (h *Handler) clearDraft(c *gin.Context) {
	v, err := h.drafts.Clear(c.Request.Context(), c.GetString("firebase_uid"), c.Param("id"))
	h.draftResponse(c, v, err)
}

func (h *Handler) commitDraft(c *gin.Context) {
	var req commitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	p, err := h.drafts.Commit(c.Request.Context(), c.GetString("firebase_uid"), c.Param("id"), req.Name, req.Description)
	if err != nil {
		apihttp.WriteError(c, err, "Failed to create project", domain.ErrDraftNotFound)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"project": p})
}

func (h *Handler) cancelDraft(c *gin.Context) {
	if err := h.drafts.Cancel(c.Request.Context(), c.GetString("firebase_uid"), c.Param("id")); err != nil {
		apihttp.WriteError(c, err, "Failed to discard project draft", domain.ErrDraftNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) draftResponse(c *gin.Context, v *service.DraftView, err error) {
	if err != nil {
		apihttp.WriteError(c, err, "Failed to update project draft", domain.ErrDraftNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": v})
}
