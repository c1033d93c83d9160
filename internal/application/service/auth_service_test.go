package service

import (
	"context"
	"testing"
	"time"

	infraRepo "github.com/dukani/erp-api/internal/infrastructure/repository"
	"github.com/dukani/erp-api/pkg/apperror"
	"github.com/dukani/erp-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := newTestDB(t)
	return NewAuthService(
		infraRepo.NewUserRepository(db),
		infraRepo.NewTenantRepository(db),
		infraRepo.NewTxManager(db),
		utils.NewJWTManager("test-secret", "dukani-api", time.Minute, time.Hour),
	)
}

func TestAuthRegisterAndLogin(t *testing.T) {
	auth := newAuthService(t)
	ctx := context.Background()

	input := &RegisterInput{
		CompanyName: "Acme Traders",
		FirstName:   "Amina",
		LastName:    "Odhiambo",
		Email:       "amina@example.com",
		Password:    "s3cret-pass",
	}

	result, err := auth.Register(ctx, input)
	require.NoError(t, err)

	t.Run("registration creates the tenant and the user", func(t *testing.T) {
		require.NotNil(t, result.Tenant)
		assert.Equal(t, "Acme Traders", result.Tenant.Name)
		assert.Equal(t, "acme-traders", result.Tenant.Slug)
		assert.Equal(t, result.Tenant.ID, result.User.TenantID)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
	})

	t.Run("the password is not stored in clear", func(t *testing.T) {
		assert.NotEqual(t, input.Password, result.User.Password)
	})

	t.Run("registering the same email again conflicts", func(t *testing.T) {
		_, err := auth.Register(ctx, input)
		require.Error(t, err)
	})

	t.Run("login succeeds with the right password", func(t *testing.T) {
		got, err := auth.Login(ctx, input.Email, input.Password)
		require.NoError(t, err)
		assert.Equal(t, result.User.ID, got.User.ID)
		assert.NotEmpty(t, got.AccessToken)
	})

	t.Run("login fails with the wrong password", func(t *testing.T) {
		_, err := auth.Login(ctx, input.Email, "wrong")
		require.ErrorIs(t, err, apperror.ErrInvalidCredentials)
	})

	t.Run("login fails for an unknown email", func(t *testing.T) {
		_, err := auth.Login(ctx, "nobody@example.com", input.Password)
		require.ErrorIs(t, err, apperror.ErrInvalidCredentials)
	})

	t.Run("refresh issues a new token pair", func(t *testing.T) {
		got, err := auth.Refresh(ctx, result.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, result.User.ID, got.User.ID)
		assert.NotEmpty(t, got.AccessToken)
	})

	t.Run("refresh rejects garbage tokens", func(t *testing.T) {
		_, err := auth.Refresh(ctx, "not-a-token")
		require.ErrorIs(t, err, apperror.ErrInvalidToken)
	})
}
