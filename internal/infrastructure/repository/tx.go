package repository

import (
	"context"

	domainRepo "github.com/dukani/erp-api/internal/domain/repository"
	"gorm.io/gorm"
)

type txCtxKey struct{}

// conn returns the gorm handle for this call: the transaction carried in
// the context when inside TxManager.Do, the base connection otherwise.
// Every repository method goes through this, so joining an open unit of
// work is automatic.
func conn(ctx context.Context, base *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txCtxKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return base.WithContext(ctx)
}

type txManager struct {
	db *gorm.DB
}

// NewTxManager creates a TxManager over the given database connection.
func NewTxManager(db *gorm.DB) domainRepo.TxManager {
	return &txManager{db: db}
}

// Do runs fn inside one database transaction. Nested calls join the outer
// transaction rather than opening a savepoint.
func (m *txManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txCtxKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txCtxKey{}, tx))
	})
}
