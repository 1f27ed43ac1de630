package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"github.com/msgtobala/user-story-generator/internal/auth/domain"
)

type fakeAdmin struct {
	rec     *auth.UserRecord
	revoked []string
}

func (f *fakeAdmin) GetUser(context.Context, string) (*auth.UserRecord, error) {
	return f.rec, nil
}

func (f *fakeAdmin) CreateUser(context.Context, *auth.UserToCreate) (*auth.UserRecord, error) {
	return f.rec, nil
}

func (f *fakeAdmin) UpdateUser(context.Context, string, *auth.UserToUpdate) (*auth.UserRecord, error) {
	return f.rec, nil
}

func (f *fakeAdmin) RevokeRefreshTokens(_ context.Context, uid string) error {
	f.revoked = append(f.revoked, uid)
	return nil
}

func TestGetByFirebaseUID(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	admin := &fakeAdmin{rec: &auth.UserRecord{
		UserInfo:      &auth.UserInfo{UID: "u1", Email: "ada@example.com", DisplayName: "Ada"},
		EmailVerified: true,
		UserMetadata:  &auth.UserMetadata{CreationTimestamp: created.UnixMilli()},
	}}
	repo := NewUserRepository(admin)

	u, err := repo.GetByFirebaseUID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.True(t, u.EmailVerified)
	require.NotNil(t, u.CreatedAt)
	assert.Equal(t, created, *u.CreatedAt)
	assert.Nil(t, u.LastLoginAt)

	require.NoError(t, repo.RevokeSessions(context.Background(), "u1"))
	assert.Equal(t, []string{"u1"}, admin.revoked)
}

func TestMapIdentityError(t *testing.T) {
	assert.ErrorIs(t, mapIdentityError(&googleapi.Error{Code: 400, Message: "INVALID_PASSWORD"}), domain.ErrInvalidCredentials)
	assert.ErrorIs(t, mapIdentityError(&googleapi.Error{Code: 400, Message: "INVALID_LOGIN_CREDENTIALS"}), domain.ErrInvalidCredentials)
	assert.ErrorIs(t, mapIdentityError(&googleapi.Error{Code: 400, Message: "TOO_MANY_ATTEMPTS_TRY_LATER : Too many"}), domain.ErrTooManyAttempts)

	other := errors.New("connection reset")
	assert.ErrorIs(t, mapIdentityError(other), other)
}
