package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Briancute/local-lead-finder/internal/auth"
	"github.com/Briancute/local-lead-finder/internal/repository"
)

func newAuthService(t *testing.T) (*AuthService, *auth.TokenIssuer, *repository.Memory) {
	t.Helper()
	tokens, err := auth.NewTokenIssuer("test-secret", 0)
	require.NoError(t, err)
	store := repository.NewMemory()
	return NewAuthService(store, tokens, discardLogger()), tokens, store
}

func TestAuthService_Register(t *testing.T) {
	svc, tokens, _ := newAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{Name: " Ana ", Email: " Ana@Example.COM ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", res.User.Name)
	assert.Equal(t, "ana@example.com", res.User.Email)
	assert.Equal(t, 0, res.User.APIQuotaUsed)
	assert.Equal(t, 1000, res.User.APIQuotaLimit)
	assert.NotEqual(t, "secret1", res.User.PasswordHash)

	id, err := tokens.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, id.UserID)
	assert.Equal(t, "ana@example.com", id.Email)

	_, err = svc.Register(ctx, RegisterInput{Name: "Other", Email: "ANA@example.com", Password: "secret2"})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestAuthService_Register_Validation(t *testing.T) {
	t.Parallel()

	svc, _, _ := newAuthService(t)

	tests := []struct {
		name    string
		input   RegisterInput
		wantErr error
	}{
		{"missing_name", RegisterInput{Email: "a@b.co", Password: "secret1"}, ErrMissingFields},
		{"missing_email", RegisterInput{Name: "A", Password: "secret1"}, ErrMissingFields},
		{"missing_password", RegisterInput{Name: "A", Email: "a@b.co"}, ErrMissingFields},
		{"short_password", RegisterInput{Name: "A", Email: "a@b.co", Password: "12345"}, ErrPasswordTooShort},
		{"bad_email", RegisterInput{Name: "A", Email: "not-an-email", Password: "secret1"}, ErrInvalidEmail},
		{"display_name_email", RegisterInput{Name: "A", Email: "Ana <a@b.co>", Password: "secret1"}, ErrInvalidEmail},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.Register(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	svc, _, store := newAuthService(t)
	ctx := context.Background()

	hash, err := auth.HashPassword(repository.DemoPassword)
	require.NoError(t, err)
	demo, err := repository.SeedDemoUser(ctx, store, hash)
	require.NoError(t, err)

	res, err := svc.Login(ctx, " DEMO@leadfinder.com", repository.DemoPassword)
	require.NoError(t, err)
	assert.Equal(t, demo.ID, res.User.ID)
	assert.Equal(t, 5, res.User.APIQuotaUsed)
	assert.NotEmpty(t, res.Token)

	_, err = svc.Login(ctx, repository.DemoEmail, "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "unknown email is indistinguishable from a bad password")

	_, err = svc.Login(ctx, "", "x")
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestAuthService_Me(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)

	me, err := svc.Me(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", me.Email)

	_, err = svc.Me(ctx, "404")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
