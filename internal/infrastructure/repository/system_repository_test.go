package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceNext(t *testing.T) {
	db := newTestDB(t)
	ctx, _ := newTenant(t, db, "Acme Traders")
	repo := NewSequenceRepository(db)

	t.Run("starts at one and advances", func(t *testing.T) {
		for want := int64(1); want <= 3; want++ {
			got, err := repo.Next(ctx, "invoice")
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	})

	t.Run("kinds count independently", func(t *testing.T) {
		got, err := repo.Next(ctx, "customer")
		require.NoError(t, err)
		assert.Equal(t, int64(1), got)
	})

	t.Run("tenants count independently", func(t *testing.T) {
		otherCtx, _ := newTenant(t, db, "Beta Traders")
		got, err := repo.Next(otherCtx, "invoice")
		require.NoError(t, err)
		assert.Equal(t, int64(1), got)
	})
}

func TestSequenceSnapshotRestore(t *testing.T) {
	db := newTestDB(t)
	ctx, _ := newTenant(t, db, "Acme Traders")
	repo := NewSequenceRepository(db)

	for i := 0; i < 3; i++ {
		_, err := repo.Next(ctx, "invoice")
		require.NoError(t, err)
	}
	_, err := repo.Next(ctx, "customer")
	require.NoError(t, err)

	snapshot, err := repo.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), snapshot["invoice"])
	assert.Equal(t, int64(2), snapshot["customer"])

	require.NoError(t, repo.Restore(ctx, map[string]int64{"invoice": 10}))

	t.Run("restored counters replace the old ones", func(t *testing.T) {
		got, err := repo.Next(ctx, "invoice")
		require.NoError(t, err)
		assert.Equal(t, int64(10), got)
	})

	t.Run("counters absent from the restore start over", func(t *testing.T) {
		got, err := repo.Next(ctx, "customer")
		require.NoError(t, err)
		assert.Equal(t, int64(1), got)
	})
}
