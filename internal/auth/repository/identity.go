package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"

	"github.com/msgtobala/user-story-generator/internal/auth/domain"
)

// IdentityClient signs users in with email and password and sends password
// reset mail through the Identity Toolkit API. These are client-side
// operations the admin SDK does not offer.
type IdentityClient struct {
	svc *identitytoolkit.Service
}

func NewIdentityClient(ctx context.Context, apiKey string) (*IdentityClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("FIREBASE_API_KEY is required for password sign-in")
	}
	svc, err := identitytoolkit.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create identity toolkit client: %w", err)
	}
	return &IdentityClient{svc: svc}, nil
}

func (c *IdentityClient) VerifyPassword(ctx context.Context, email, password string) (*domain.Credentials, error) {
	resp, err := c.svc.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return nil, mapIdentityError(err)
	}
	return &domain.Credentials{
		UID:          resp.LocalId,
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
	}, nil
}

func (c *IdentityClient) SendPasswordReset(ctx context.Context, email string) error {
	_, err := c.svc.Relyingparty.GetOobConfirmationCode(&identitytoolkit.Relyingparty{
		RequestType: "PASSWORD_RESET",
		Email:       email,
	}).Context(ctx).Do()
	if err != nil {
		return mapIdentityError(err)
	}
	return nil
}

func mapIdentityError(err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return fmt.Errorf("identity toolkit: %w", err)
	}
	switch msg := gerr.Message; {
	case strings.HasPrefix(msg, "EMAIL_NOT_FOUND"),
		strings.HasPrefix(msg, "INVALID_PASSWORD"),
		strings.HasPrefix(msg, "INVALID_LOGIN_CREDENTIALS"),
		strings.HasPrefix(msg, "USER_DISABLED"):
		return domain.ErrInvalidCredentials
	case strings.HasPrefix(msg, "TOO_MANY_ATTEMPTS_TRY_LATER"):
		return domain.ErrTooManyAttempts
	}
	return fmt.Errorf("identity toolkit: %w", err)
}
