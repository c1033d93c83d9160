package apperror

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageErrorHidesCauseFromClients(t *testing.T) {
	cause := errors.New("pq: connection reset by peer")
	appErr := NewStorageError(cause)

	t.Run("the client-facing message is generic", func(t *testing.T) {
		assert.Equal(t, http.StatusInternalServerError, appErr.Code)
		assert.Equal(t, "Internal server error", appErr.Message)

		data, err := json.Marshal(appErr)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "connection reset")
	})

	t.Run("logs still see the cause", func(t *testing.T) {
		assert.Contains(t, appErr.Error(), "connection reset by peer")
		assert.ErrorIs(t, appErr, cause)
	})

	t.Run("nil in, nil out", func(t *testing.T) {
		assert.Nil(t, NewStorageError(nil))
	})
}

func TestGetAppError(t *testing.T) {
	t.Run("passes an AppError through", func(t *testing.T) {
		appErr := NewNotFoundError("Customer")
		assert.Same(t, appErr, GetAppError(appErr))
	})

	t.Run("wraps a raw error without exposing its text", func(t *testing.T) {
		cause := errors.New("sqlite3: database is locked")
		appErr := GetAppError(cause)

		assert.Equal(t, http.StatusInternalServerError, appErr.Code)
		assert.Equal(t, "Internal server error", appErr.Message)
		assert.ErrorIs(t, appErr, cause)
	})
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFoundError("Product")))
	assert.False(t, IsNotFound(NewConflictError("taken")))
	assert.False(t, IsNotFound(errors.New("plain")))
}
