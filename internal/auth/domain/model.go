package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrEmailExists        = errors.New("An account with this email already exists")
	ErrTooManyAttempts    = errors.New("Too many failed attempts. Please try again later")
)

// User is the Firebase Auth account as exposed by the API.
// Firebase UID is the primary identifier
type User struct {
	FirebaseUID   string     `json:"firebase_uid"`
	Email         string     `json:"email"`
	DisplayName   string     `json:"display_name"`
	PhotoURL      string     `json:"photo_url,omitempty"`
	EmailVerified bool       `json:"email_verified"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
}

// Session is the result of a password sign-in. The id token is what the
// client sends as its bearer token.
type Session struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	User         *User  `json:"user"`
}

// Credentials is the verified identity returned by the password endpoint.
type Credentials struct {
	UID          string
	IDToken      string
	RefreshToken string
	ExpiresIn    int64
}
