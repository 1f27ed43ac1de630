package http

import (
	"bytes"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	apihttp "github.com/msgtobala/user-story-generator/internal/api/http"
	"github.com/msgtobala/user-story-generator/internal/export"
	"github.com/msgtobala/user-story-generator/internal/projects/domain"
)

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	p, err := h.projects.CreateFromSelection(c.Request.Context(), req.Name, req.Description, req.SelectedTemplateIDs)
	if err != nil {
		apihttp.WriteError(c, err, "Failed to create project")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"project": p})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.projects.List(c.Request.Context())
	if err != nil {
		apihttp.WriteError(c, err, "Failed to load projects")
		return
	}

	summaries := make([]gin.H, 0, len(items))
	for i := range items {
		summaries = append(summaries, gin.H{
			"project":      items[i],
			"statusCounts": items[i].StatusCounts(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"projects": summaries, "count": len(items)})
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.projects.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		apihttp.WriteError(c, err, "Failed to load project", domain.ErrProjectNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": p, "statusCounts": p.StatusCounts()})
}

func (h *Handler) rename(c *gin.Context) {
	var req renameReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	p, err := h.projects.Rename(c.Request.Context(), c.Param("id"), req.Name, req.Description)
	if err != nil {
		apihttp.WriteError(c, err, "Failed to update project", domain.ErrProjectNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": p})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.projects.Delete(c.Request.Context(), c.Param("id")); err != nil {
		apihttp.WriteError(c, err, "Failed to delete project", domain.ErrProjectNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) updateStoryField(c *gin.Context) {
	var req fieldReq
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Value) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	p, err := h.projects.UpdateStoryField(c.Request.Context(), c.Param("id"), c.Param("story_id"), req.Field, req.Value)
	if err != nil {
		apihttp.WriteError(c, err, "Failed to update story", domain.ErrProjectNotFound, domain.ErrStoryNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": p})
}

func (h *Handler) replaceStory(c *gin.Context) {
	var story domain.ProjectStory
	if err := c.ShouldBindJSON(&story); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	story.ID = c.Param("story_id")

	p, err := h.projects.ReplaceStory(c.Request.Context(), c.Param("id"), story)
	if err != nil {
		apihttp.WriteError(c, err, "Failed to update story", domain.ErrProjectNotFound, domain.ErrStoryNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": p})
}

func (h *Handler) export(c *gin.Context) {
	p, err := h.projects.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		apihttp.WriteError(c, err, "Failed to load project", domain.ErrProjectNotFound)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteProject(&buf, p, time.Now()); err != nil {
		apihttp.WriteError(c, err, "Failed to export project")
		return
	}

	name := export.FileName(p)
	c.Header("Content-Disposition", `attachment; filename*=UTF-8''`+url.PathEscape(name))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}
