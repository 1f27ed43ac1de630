package http

import "github.com/gin-gonic/gin"

// RegisterPublic attaches the routes that work without a token.
func (h *Handler) RegisterPublic(rg *gin.RouterGroup) {
	rg.POST("/signin", h.SignIn)
	rg.POST("/signup", h.SignUp)
	rg.POST("/password-reset", h.PasswordReset)
}

// Register attaches the routes for the signed-in user.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/signout", h.SignOut)
	rg.GET("/me", h.GetProfile)
	rg.PUT("/profile", h.UpdateProfile)
	rg.PUT("/password", h.ChangePassword)
}
