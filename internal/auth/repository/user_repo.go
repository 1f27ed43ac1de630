package repository

import (
	"context"
	"fmt"
	"time"

	"firebase.google.com/go/v4/auth"

	"github.com/msgtobala/user-story-generator/internal/auth/domain"
)

// AdminClient is the part of the Firebase admin auth client used for user
// management. *auth.Client satisfies it.
type AdminClient interface {
	GetUser(ctx context.Context, uid string) (*auth.UserRecord, error)
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	UpdateUser(ctx context.Context, uid string, user *auth.UserToUpdate) (*auth.UserRecord, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// UserRepository reads and writes Firebase Auth accounts.
type UserRepository struct {
	client AdminClient
}

func NewUserRepository(client AdminClient) *UserRepository {
	return &UserRepository{client: client}
}

// GetByFirebaseUID retrieves a user by their Firebase UID
func (r *UserRepository) GetByFirebaseUID(ctx context.Context, uid string) (*domain.User, error) {
	rec, err := r.client.GetUser(ctx, uid)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user %s: %w", uid, err)
	}
	return toUser(rec), nil
}

func (r *UserRepository) Create(ctx context.Context, email, password, displayName string) (*domain.User, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)

	rec, err := r.client.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return nil, domain.ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return toUser(rec), nil
}

func (r *UserRepository) UpdateDisplayName(ctx context.Context, uid, displayName string) (*domain.User, error) {
	return r.update(ctx, uid, (&auth.UserToUpdate{}).DisplayName(displayName))
}

func (r *UserRepository) UpdatePassword(ctx context.Context, uid, password string) error {
	_, err := r.update(ctx, uid, (&auth.UserToUpdate{}).Password(password))
	return err
}

// RevokeSessions invalidates every refresh token of uid.
func (r *UserRepository) RevokeSessions(ctx context.Context, uid string) error {
	if err := r.client.RevokeRefreshTokens(ctx, uid); err != nil {
		if auth.IsUserNotFound(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("revoke refresh tokens for %s: %w", uid, err)
	}
	return nil
}

func (r *UserRepository) update(ctx context.Context, uid string, params *auth.UserToUpdate) (*domain.User, error) {
	rec, err := r.client.UpdateUser(ctx, uid, params)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("update user %s: %w", uid, err)
	}
	return toUser(rec), nil
}

func toUser(rec *auth.UserRecord) *domain.User {
	u := &domain.User{
		FirebaseUID:   rec.UID,
		Email:         rec.Email,
		DisplayName:   rec.DisplayName,
		PhotoURL:      rec.PhotoURL,
		EmailVerified: rec.EmailVerified,
	}
	if meta := rec.UserMetadata; meta != nil {
		if meta.CreationTimestamp > 0 {
			t := time.UnixMilli(meta.CreationTimestamp).UTC()
			u.CreatedAt = &t
		}
		if meta.LastLogInTimestamp > 0 {
			t := time.UnixMilli(meta.LastLogInTimestamp).UTC()
			u.LastLoginAt = &t
		}
	}
	return u
}
