package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dukani/erp-api/internal/domain/entity"
	domainRepo "github.com/dukani/erp-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) domainRepo.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, txn *entity.Transaction) error {
	return conn(ctx, r.db).Create(txn).Error
}

func (r *transactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var txn entity.Transaction
	err := conn(ctx, r.db).Scopes(TenantScope(ctx)).
		Preload("Items").
		First(&txn, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &txn, err
}

func (r *transactionRepository) Update(ctx context.Context, txn *entity.Transaction) error {
	return conn(ctx, r.db).Omit("Items").Save(txn).Error
}

func (r *transactionRepository) ReplaceItems(ctx context.Context, txnID uuid.UUID, items []entity.TransactionItem) error {
	db := conn(ctx, r.db)
	// Item rows are immutable snapshots, so an edit swaps the whole set.
	if err := db.Where("transaction_id = ?", txnID).Delete(&entity.TransactionItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].TransactionID = txnID
	}
	return db.Create(&items).Error
}

func (r *transactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := conn(ctx, r.db)
	if err := db.Where("transaction_id = ?", id).Delete(&entity.TransactionItem{}).Error; err != nil {
		return err
	}
	return db.Scopes(TenantScope(ctx)).Delete(&entity.Transaction{}, "id = ?", id).Error
}

func (r *transactionRepository) List(ctx context.Context, params *domainRepo.TransactionFilterParams) ([]entity.Transaction, int64, error) {
	var txns []entity.Transaction
	var total int64

	query := conn(ctx, r.db).Model(&entity.Transaction{}).Scopes(TenantScope(ctx))

	if params.Type != nil {
		query = query.Where("type = ?", *params.Type)
	}
	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}
	if params.DateFrom != nil {
		query = query.Where("date >= ?", *params.DateFrom)
	}
	if params.DateTo != nil {
		query = query.Where("date <= ?", *params.DateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Items").
		Order("date DESC, created_at DESC").
		Find(&txns).Error

	return txns, total, err
}

func (r *transactionRepository) ListInRange(ctx context.Context, from, to time.Time) ([]entity.Transaction, error) {
	var txns []entity.Transaction
	query := conn(ctx, r.db).Scopes(TenantScope(ctx))
	if !from.IsZero() {
		query = query.Where("date >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("date <= ?", to)
	}
	err := query.Order("date ASC, created_at ASC").Find(&txns).Error
	return txns, err
}

func (r *transactionRepository) ListAll(ctx context.Context) ([]entity.Transaction, error) {
	var txns []entity.Transaction
	err := conn(ctx, r.db).Scopes(TenantScope(ctx)).
		Preload("Items").
		Order("created_at ASC").
		Find(&txns).Error
	return txns, err
}
