package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const DemoUserID = "demo-user"

// HeaderUser sets a firebase uid in context without enforcing auth.
// - If X-User-Id is missing, it falls back to "demo-user".
// - Use this ONLY for development/testing (AUTH_MODE=header).
func HeaderUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := strings.TrimSpace(c.GetHeader("X-User-Id"))
		if uid == "" {
			uid = DemoUserID
		}
		c.Set(CtxFirebaseUID, uid)

		if email := strings.TrimSpace(c.GetHeader("X-User-Email")); email != "" {
			c.Set(CtxEmail, email)
		}

		c.Next()
	}
}
