package http

import "github.com/msgtobala/user-story-generator/internal/auth/service"

type Handler struct {
	authService *service.AuthService
}

func New(authService *service.AuthService) *Handler {
	return &Handler{
		authService: authService,
	}
}

type signInReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signUpReq struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type resetReq struct {
	Email string `json:"email"`
}

type profileReq struct {
	DisplayName string `json:"display_name"`
}

type passwordReq struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}
