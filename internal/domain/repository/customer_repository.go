package repository

import (
	"context"

	"github.com/dukani/erp-api/internal/domain/entity"
	"github.com/dukani/erp-api/internal/domain/enum"
	"github.com/dukani/erp-api/pkg/pagination"
	"github.com/google/uuid"
)

// CustomerFilterParams narrows customer listings.
type CustomerFilterParams struct {
	Pagination *pagination.PaginationParams
	Category   *enum.CustomerCategory
	ActiveOnly bool
	// Search is a case-insensitive substring match over name, email,
	// phone and tax pin.
	Search string
}

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *CustomerFilterParams) ([]entity.Customer, int64, error)
	ListAll(ctx context.Context) ([]entity.Customer, error)
	// CountTransactions reports how many ledger transactions reference the
	// customer; deletion is blocked while any remain.
	CountTransactions(ctx context.Context, id uuid.UUID) (int64, error)
}

// PriceRepository manages per-customer negotiated product prices.
type PriceRepository interface {
	Upsert(ctx context.Context, price *entity.CustomerProductPrice) error
	GetForCustomerProduct(ctx context.Context, customerID, productID uuid.UUID) (*entity.CustomerProductPrice, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.CustomerProductPrice, error)
	ListAll(ctx context.Context) ([]entity.CustomerProductPrice, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
