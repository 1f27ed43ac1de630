package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apihttp "github.com/msgtobala/user-story-generator/internal/api/http"
	"github.com/msgtobala/user-story-generator/internal/auth/domain"
)

// GetProfile returns the current user's profile
func (h *Handler) GetProfile(c *gin.Context) {
	firebaseUID := c.GetString("firebase_uid")
	if firebaseUID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	user, err := h.authService.CurrentUser(c.Request.Context(), firebaseUID)
	if err != nil {
		writeError(c, err, "failed to load user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile updates the user's display name
func (h *Handler) UpdateProfile(c *gin.Context) {
	firebaseUID := c.GetString("firebase_uid")
	if firebaseUID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req profileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), firebaseUID, req.DisplayName)
	if err != nil {
		writeError(c, err, "failed to update user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ChangePassword sets a new password after checking the current one.
func (h *Handler) ChangePassword(c *gin.Context) {
	firebaseUID := c.GetString("firebase_uid")
	if firebaseUID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req passwordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	// the email claim comes from the verified token
	email := c.GetString("email")
	if err := h.authService.ChangePassword(c.Request.Context(), firebaseUID, email, req.CurrentPassword, req.NewPassword); err != nil {
		writeError(c, err, "failed to change password")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrEmailExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrTooManyAttempts):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	default:
		apihttp.WriteError(c, err, fallback, domain.ErrUserNotFound)
	}
}
