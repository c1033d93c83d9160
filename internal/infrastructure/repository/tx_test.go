package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/dukani/erp-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxManagerRollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	ctx, tenant := newTenant(t, db, "Acme Traders")

	repo := NewCustomerRepository(db)
	manager := NewTxManager(db)

	boom := errors.New("boom")
	err := manager.Do(ctx, func(ctx context.Context) error {
		if err := repo.Create(ctx, &entity.Customer{
			TenantID: tenant.ID, Number: 1, Name: "Wanjiku Stores", IsActive: true,
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	customers, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, customers)
}

func TestTxManagerCommits(t *testing.T) {
	db := newTestDB(t)
	ctx, tenant := newTenant(t, db, "Acme Traders")

	repo := NewCustomerRepository(db)
	manager := NewTxManager(db)

	require.NoError(t, manager.Do(ctx, func(ctx context.Context) error {
		return repo.Create(ctx, &entity.Customer{
			TenantID: tenant.ID, Number: 1, Name: "Wanjiku Stores", IsActive: true,
		})
	}))

	customers, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, customers, 1)
}

func TestTxManagerNestedJoinsOuter(t *testing.T) {
	db := newTestDB(t)
	ctx, tenant := newTenant(t, db, "Acme Traders")

	repo := NewCustomerRepository(db)
	manager := NewTxManager(db)

	boom := errors.New("boom")
	err := manager.Do(ctx, func(ctx context.Context) error {
		if err := manager.Do(ctx, func(ctx context.Context) error {
			return repo.Create(ctx, &entity.Customer{
				TenantID: tenant.ID, Number: 1, Name: "Inner Write", IsActive: true,
			})
		}); err != nil {
			return err
		}
		// the inner Do joined this transaction, so failing here must undo
		// its write as well
		return boom
	})
	require.ErrorIs(t, err, boom)

	customers, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, customers)
}
