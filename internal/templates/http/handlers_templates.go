package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apihttp "github.com/msgtobala/user-story-generator/internal/api/http"
	"github.com/msgtobala/user-story-generator/internal/templates/domain"
)

func (h *Handler) list(c *gin.Context) {
	spec, err := filterSpec(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items, err := h.templates.Search(c.Request.Context(), spec)
	if err != nil {
		apihttp.WriteError(c, err, "Failed to load templates")
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": items, "count": len(items), "filters": spec})
}

// filterSpec reads ?search=&module=&module=&sort=. Each module is its own
// parameter so names may contain commas. A missing sort means newest first.
func filterSpec(c *gin.Context) (domain.FilterSpec, error) {
	sortBy := domain.DefaultSort
	if raw, ok := c.GetQuery("sort"); ok {
		parsed, err := domain.ParseSortBy(raw)
		if err != nil {
			return domain.FilterSpec{}, err
		}
		sortBy = parsed
	}

	var modules []string
	for _, m := range c.QueryArray("module") {
		if m = strings.TrimSpace(m); m != "" {
			modules = append(modules, m)
		}
	}

	return domain.FilterSpec{
		SearchTerm:      c.Query("search"),
		SelectedModules: modules,
		SortBy:          sortBy,
	}, nil
}

func (h *Handler) modules(c *gin.Context) {
	names, err := h.templates.Modules(c.Request.Context())
	if err != nil {
		apihttp.WriteError(c, err, "Failed to load templates")
		return
	}
	c.JSON(http.StatusOK, gin.H{"modules": names})
}

func (h *Handler) get(c *gin.Context) {
	t, err := h.templates.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		apihttp.WriteError(c, err, "Failed to load template", domain.ErrTemplateNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"template": t})
}

func (h *Handler) create(c *gin.Context) {
	var in domain.TemplateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	t, err := h.templates.Create(c.Request.Context(), in)
	if err != nil {
		apihttp.WriteError(c, err, "Failed to save template. Please try again.")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"template": t})
}

func (h *Handler) update(c *gin.Context) {
	var in domain.TemplateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	t, err := h.templates.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		apihttp.WriteError(c, err, "Failed to save template. Please try again.", domain.ErrTemplateNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"template": t})
}

func (h *Handler) clone(c *gin.Context) {
	t, err := h.templates.Clone(c.Request.Context(), c.Param("id"))
	if err != nil {
		apihttp.WriteError(c, err, "Failed to clone template", domain.ErrTemplateNotFound)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"template": t})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.templates.Delete(c.Request.Context(), c.Param("id")); err != nil {
		apihttp.WriteError(c, err, "Failed to delete template", domain.ErrTemplateNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type importReq struct {
	Stories []domain.TemplateInput `json:"stories"`
}

func (h *Handler) importStories(c *gin.Context) {
	var req importReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	items, err := h.templates.Import(c.Request.Context(), req.Stories)
	if err != nil {
		apihttp.WriteError(c, err, "Failed to save templates")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"templates": items, "count": len(items)})
}
