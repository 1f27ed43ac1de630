package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/msgtobala/user-story-generator/internal/logging"
	"github.com/msgtobala/user-story-generator/internal/validation"
)

// WriteError maps err onto a JSON error response. Validation errors become
// 400 with their message, any of notFound becomes 404, and everything else is
// logged and answered with 500 and fallback.
func WriteError(c *gin.Context, err error, fallback string, notFound ...error) {
	if validation.Is(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	for _, nf := range notFound {
		if errors.Is(err, nf) {
			c.JSON(http.StatusNotFound, gin.H{"error": nf.Error()})
			return
		}
	}

	logging.FromContext(c.Request.Context()).Error(fallback,
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallback, "details": err.Error()})
}
