package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CtxFirebaseUID = "firebase_uid"
	CtxEmail       = "email"
)

// UserFirebaseUID extracts the Firebase UID from the Gin context
// This is set by FirebaseAuthMiddleware or HeaderUser
func UserFirebaseUID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxFirebaseUID))
}

// UserEmail returns the email claim of the verified token, if any.
func UserEmail(c *gin.Context) string {
	return c.GetString(CtxEmail)
}
