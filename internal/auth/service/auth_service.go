package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/msgtobala/user-story-generator/internal/auth/domain"
	"github.com/msgtobala/user-story-generator/internal/logging"
	"github.com/msgtobala/user-story-generator/internal/validation"
)

const minPasswordLength = 6

// Users manages accounts with admin privileges.
type Users interface {
	GetByFirebaseUID(ctx context.Context, uid string) (*domain.User, error)
	Create(ctx context.Context, email, password, displayName string) (*domain.User, error)
	UpdateDisplayName(ctx context.Context, uid, displayName string) (*domain.User, error)
	UpdatePassword(ctx context.Context, uid, password string) error
	RevokeSessions(ctx context.Context, uid string) error
}

// Identity performs the password operations a signed-out client would.
type Identity interface {
	VerifyPassword(ctx context.Context, email, password string) (*domain.Credentials, error)
	SendPasswordReset(ctx context.Context, email string) error
}

type AuthService struct {
	users    Users
	identity Identity
}

func NewAuthService(users Users, identity Identity) *AuthService {
	return &AuthService{users: users, identity: identity}
}

// SignIn checks email and password and returns a session for the account.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	return s.session(ctx, email, password)
}

// SignUp creates an account and signs it in.
func (s *AuthService) SignUp(ctx context.Context, email, password, displayName string) (*domain.Session, error) {
	email = strings.TrimSpace(email)
	displayName = strings.TrimSpace(displayName)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if displayName == "" {
		return nil, validation.New("Full name is required")
	}

	u, err := s.users.Create(ctx, email, password, displayName)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("user signed up", zap.String("firebase_uid", u.FirebaseUID))
	return s.session(ctx, email, password)
}

// SignOut revokes the refresh tokens of uid. ID tokens already issued stay
// valid until they expire.
func (s *AuthService) SignOut(ctx context.Context, uid string) error {
	return s.users.RevokeSessions(ctx, uid)
}

// SendPasswordReset mails a reset link. Unknown addresses are not reported.
func (s *AuthService) SendPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return err
	}
	err := s.identity.SendPasswordReset(ctx, email)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		return nil
	}
	return err
}

func (s *AuthService) CurrentUser(ctx context.Context, uid string) (*domain.User, error) {
	return s.users.GetByFirebaseUID(ctx, uid)
}

func (s *AuthService) UpdateProfile(ctx context.Context, uid, displayName string) (*domain.User, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, validation.New("Full name is required")
	}
	return s.users.UpdateDisplayName(ctx, uid, displayName)
}

// ChangePassword re-verifies the current password of uid before setting the
// new one.
func (s *AuthService) ChangePassword(ctx context.Context, uid, email, current, next string) error {
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return err
	}
	if current == "" {
		return validation.New("Current password is required")
	}
	if err := validatePassword(next); err != nil {
		return err
	}

	creds, err := s.identity.VerifyPassword(ctx, email, current)
	if err != nil {
		return err
	}
	if creds.UID != uid {
		return domain.ErrInvalidCredentials
	}
	return s.users.UpdatePassword(ctx, uid, next)
}

func (s *AuthService) session(ctx context.Context, email, password string) (*domain.Session, error) {
	creds, err := s.identity.VerifyPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetByFirebaseUID(ctx, creds.UID)
	if err != nil {
		return nil, err
	}
	return &domain.Session{
		IDToken:      creds.IDToken,
		RefreshToken: creds.RefreshToken,
		ExpiresIn:    creds.ExpiresIn,
		User:         u,
	}, nil
}

func validateEmail(email string) error {
	if email == "" {
		return validation.New("Email is required")
	}
	if !strings.Contains(email, "@") {
		return validation.New("Please enter a valid email address")
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return validation.New("Password is required")
	}
	if len(password) < minPasswordLength {
		return validation.New("Password must be at least 6 characters long")
	}
	return nil
}
