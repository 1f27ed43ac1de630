package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apihttp "github.com/msgtobala/user-story-generator/internal/api/http"
	"github.com/msgtobala/user-story-generator/internal/modules/service"
)

type Handler struct {
	modules *service.ModuleService
}

func New(modules *service.ModuleService) *Handler {
	return &Handler{modules: modules}
}

// Register attaches module routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.add)
}

func (h *Handler) list(c *gin.Context) {
	names, err := h.modules.List(c.Request.Context())
	if err != nil {
		apihttp.WriteError(c, err, "Failed to load modules")
		return
	}
	c.JSON(http.StatusOK, gin.H{"modules": names})
}

type addReq struct {
	Name string `json:"name"`
}

func (h *Handler) add(c *gin.Context) {
	var req addReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if err := h.modules.Add(c.Request.Context(), req.Name); err != nil {
		apihttp.WriteError(c, err, "Failed to add module")
		return
	}
	names, err := h.modules.List(c.Request.Context())
	if err != nil {
		apihttp.WriteError(c, err, "Failed to load modules")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"modules": names})
}
