package repository

import (
	"context"

	"github.com/dukani/erp-api/internal/domain/entity"
	"github.com/dukani/erp-api/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryRepository persists inventory projections and the append-only
// stock movement log.
type InventoryRepository interface {
	// GetRecord returns the inventory record for a product, or nil if the
	// product has never moved.
	GetRecord(ctx context.Context, productID uuid.UUID) (*entity.InventoryRecord, error)
	ListRecords(ctx context.Context) ([]entity.InventoryRecord, error)
	// ApplyDelta adjusts a product's current stock, creating the record on
	// first movement. Callers append the corresponding movement themselves.
	ApplyDelta(ctx context.Context, productID uuid.UUID, delta decimal.Decimal) error
	// AppendMovement writes one immutable movement log entry.
	AppendMovement(ctx context.Context, movement *entity.StockMovement) error
	ListMovements(ctx context.Context, productID uuid.UUID, params *pagination.PaginationParams) ([]entity.StockMovement, int64, error)
	ListMovementsByTransaction(ctx context.Context, transactionID uuid.UUID) ([]entity.StockMovement, error)
	ListAllMovements(ctx context.Context) ([]entity.StockMovement, error)
	// DeleteByProduct removes the record and all movements for a product.
	// Only the product-deletion cascade may call this.
	DeleteByProduct(ctx context.Context, productID uuid.UUID) error
}
