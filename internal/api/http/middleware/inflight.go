package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/msgtobala/user-story-generator/internal/logging"
)

const inflightPrefix = "usg:inflight:"

// InFlight rejects a mutating request with 409 while an identical one (same
// user, method, route and path parameters) is still being handled. The lock
// expires after ttl in case the process dies mid-request.
func InFlight(rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || !mutating(c.Request.Method) {
			c.Next()
			return
		}

		key := inflightKey(c)
		ctx := c.Request.Context()
		ok, err := rdb.SetNX(ctx, key, "1", ttl).Result()
		if err != nil {
			// guard unavailable; let the request through
			logging.FromContext(ctx).Warn("in-flight guard", zap.Error(err))
			c.Next()
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "the same request is already in progress"})
			return
		}

		defer func() {
			if err := rdb.Del(context.WithoutCancel(ctx), key).Err(); err != nil {
				logging.FromContext(ctx).Warn("release in-flight guard", zap.Error(err))
			}
		}()
		c.Next()
	}
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func inflightKey(c *gin.Context) string {
	var b strings.Builder
	b.WriteString(inflightPrefix)
	b.WriteString(c.GetString("firebase_uid"))
	b.WriteByte(':')
	b.WriteString(c.Request.Method)
	b.WriteByte(':')
	b.WriteString(c.FullPath())
	for _, p := range c.Params {
		b.WriteByte(':')
		b.WriteString(p.Value)
	}
	return b.String()
}
