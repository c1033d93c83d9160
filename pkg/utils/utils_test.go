package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Acme Traders", "acme-traders"},
		{"  Dukani  ERP!  ", "dukani-erp"},
		{"Wanjiku's Stores", "wanjikus-stores"},
		{"---", ""},
		{"MJENGO hardware 2", "mjengo-hardware-2"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.in), "input %q", tc.in)
	}
}

func TestFormatDocumentNo(t *testing.T) {
	assert.Equal(t, "INV-000001", FormatDocumentNo("INV-", 1))
	assert.Equal(t, "INV-000042", FormatDocumentNo("INV-", 42))
	assert.Equal(t, "RCT-1000000", FormatDocumentNo("RCT-", 1000000))
}

func TestJWTManagerRoundTrip(t *testing.T) {
	manager := NewJWTManager("test-secret", "dukani-api", time.Minute, time.Hour)
	userID := uuid.New()
	tenantID := uuid.New()

	t.Run("access token carries the identity", func(t *testing.T) {
		token, err := manager.GenerateAccessToken(userID, tenantID, "owner@example.com")
		require.NoError(t, err)

		claims, err := manager.ValidateAccessToken(token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, tenantID, claims.TenantID)
		assert.Equal(t, "owner@example.com", claims.Email)
	})

	t.Run("refresh token round trips the user id", func(t *testing.T) {
		token, err := manager.GenerateRefreshToken(userID)
		require.NoError(t, err)

		got, err := manager.ValidateRefreshToken(token)
		require.NoError(t, err)
		assert.Equal(t, userID, got)
	})

	t.Run("a token signed with another secret is rejected", func(t *testing.T) {
		other := NewJWTManager("other-secret", "dukani-api", time.Minute, time.Hour)
		token, err := other.GenerateAccessToken(userID, tenantID, "owner@example.com")
		require.NoError(t, err)

		_, err = manager.ValidateAccessToken(token)
		require.Error(t, err)
	})

	t.Run("expired tokens are rejected", func(t *testing.T) {
		expired := NewJWTManager("test-secret", "dukani-api", -time.Minute, time.Hour)
		token, err := expired.GenerateAccessToken(userID, tenantID, "owner@example.com")
		require.NoError(t, err)

		_, err = manager.ValidateAccessToken(token)
		require.Error(t, err)
	})
}
