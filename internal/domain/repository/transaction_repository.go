package repository

import (
	"context"
	"time"

	"github.com/dukani/erp-api/internal/domain/entity"
	"github.com/dukani/erp-api/internal/domain/enum"
	"github.com/dukani/erp-api/pkg/pagination"
	"github.com/google/uuid"
)

// TransactionFilterParams narrows transaction listings.
type TransactionFilterParams struct {
	Pagination *pagination.PaginationParams
	Type       *enum.TransactionType
	CustomerID *uuid.UUID
	DateFrom   *time.Time
	DateTo     *time.Time
}

// TransactionRepository defines the interface for ledger transaction
// persistence. Items are always loaded with their transaction.
type TransactionRepository interface {
	Create(ctx context.Context, txn *entity.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)
	Update(ctx context.Context, txn *entity.Transaction) error
	// ReplaceItems swaps a transaction's line items for a fresh snapshot
	// set. Used on edit, where the end state must match delete+create.
	ReplaceItems(ctx context.Context, txnID uuid.UUID, items []entity.TransactionItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *TransactionFilterParams) ([]entity.Transaction, int64, error)
	// ListInRange returns every stored transaction whose date falls inside
	// [from, to] (zero bounds are open). Backs the from-scratch summary
	// fold and reconciliation.
	ListInRange(ctx context.Context, from, to time.Time) ([]entity.Transaction, error)
	ListAll(ctx context.Context) ([]entity.Transaction, error)
}
