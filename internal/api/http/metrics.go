package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterMetrics exposes the default prometheus registry at /metrics.
func RegisterMetrics(r gin.IRouter) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
