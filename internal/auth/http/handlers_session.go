package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) SignIn(c *gin.Context) {
	var req signInReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sess, err := h.authService.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err, "failed to sign in")
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": sess})
}

func (h *Handler) SignUp(c *gin.Context) {
	var req signUpReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sess, err := h.authService.SignUp(c.Request.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		writeError(c, err, "failed to create account")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": sess})
}

func (h *Handler) PasswordReset(c *gin.Context) {
	var req resetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.authService.SendPasswordReset(c.Request.Context(), req.Email); err != nil {
		writeError(c, err, "failed to send password reset email")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset email sent! Check your inbox."})
}

// SignOut revokes the caller's refresh tokens
func (h *Handler) SignOut(c *gin.Context) {
	firebaseUID := c.GetString("firebase_uid")
	if firebaseUID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := h.authService.SignOut(c.Request.Context(), firebaseUID); err != nil {
		writeError(c, err, "failed to sign out")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
