package service

import (
	"context"

	"github.com/dukani/erp-api/internal/domain/entity"
	"github.com/dukani/erp-api/internal/domain/enum"
	"github.com/dukani/erp-api/internal/domain/repository"
	infraRepo "github.com/dukani/erp-api/internal/infrastructure/repository"
	"github.com/dukani/erp-api/pkg/apperror"
	"github.com/dukani/erp-api/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryService maintains stock projections and the movement log. The
// ledger calls ProcessTransactionInventory and CancelTransactionInventory
// inside its own unit of work; nothing else writes stock.
type InventoryService struct {
	inventoryRepo repository.InventoryRepository
	productRepo   repository.ProductRepository
}

// NewInventoryService creates a new inventory service
func NewInventoryService(
	inventoryRepo repository.InventoryRepository,
	productRepo repository.ProductRepository,
) *InventoryService {
	return &InventoryService{
		inventoryRepo: inventoryRepo,
		productRepo:   productRepo,
	}
}

// ProcessTransactionInventory applies a transaction's stock effect: one
// movement per line item, signed by the transaction type. Payments are a
// no-op. Stock may go negative; the ledger records what happened, it does
// not refuse sales.
func (s *InventoryService) ProcessTransactionInventory(ctx context.Context, txn *entity.Transaction) error {
	tenantID, err := infraRepo.RequireTenant(ctx)
	if err != nil {
		return err
	}
	if !txn.Type.AffectsInventory() {
		return nil
	}

	sign := decimal.NewFromInt(int64(txn.Type.StockSign()))
	reason := enum.ForTransactionType(txn.Type)

	for _, item := range txn.Items {
		delta := item.Quantity.Mul(sign)
		movement := &entity.StockMovement{
			TenantID:      tenantID,
			ProductID:     item.ProductID,
			TransactionID: txn.ID,
			Delta:         delta,
			Reason:        reason,
		}
		if err := s.inventoryRepo.AppendMovement(ctx, movement); err != nil {
			return err
		}
		if err := s.inventoryRepo.ApplyDelta(ctx, item.ProductID, delta); err != nil {
			return err
		}
	}
	return nil
}

// CancelTransactionInventory undoes a transaction's stock effect by
// appending compensating reversal movements for every movement the
// transaction produced. Prior rows are never edited or removed.
func (s *InventoryService) CancelTransactionInventory(ctx context.Context, txn *entity.Transaction) error {
	tenantID, err := infraRepo.RequireTenant(ctx)
	if err != nil {
		return err
	}

	movements, err := s.inventoryRepo.ListMovementsByTransaction(ctx, txn.ID)
	if err != nil {
		return err
	}

	// Net the transaction's movements per product so repeated edits, each
	// of which already appended reversals, cancel to exactly zero.
	net := make(map[uuid.UUID]decimal.Decimal)
	order := make([]uuid.UUID, 0)
	for _, m := range movements {
		if _, seen := net[m.ProductID]; !seen {
			order = append(order, m.ProductID)
		}
		net[m.ProductID] = net[m.ProductID].Add(m.Delta)
	}

	for _, productID := range order {
		delta := net[productID].Neg()
		if delta.IsZero() {
			continue
		}
		reversal := &entity.StockMovement{
			TenantID:      tenantID,
			ProductID:     productID,
			TransactionID: txn.ID,
			Delta:         delta,
			Reason:        enum.MovementReasonReversal,
		}
		if err := s.inventoryRepo.AppendMovement(ctx, reversal); err != nil {
			return err
		}
		if err := s.inventoryRepo.ApplyDelta(ctx, productID, delta); err != nil {
			return err
		}
	}
	return nil
}

// GetStock returns a product's current stock level. Products with no
// movements report zero.
func (s *InventoryService) GetStock(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return decimal.Zero, apperror.NewStorageError(err)
	}
	if product == nil {
		return decimal.Zero, apperror.NewNotFoundError("Product")
	}

	record, err := s.inventoryRepo.GetRecord(ctx, productID)
	if err != nil {
		return decimal.Zero, apperror.NewStorageError(err)
	}
	if record == nil {
		return decimal.Zero, nil
	}
	return record.CurrentStock, nil
}

// StockLevel pairs a product with its current stock for listings.
type StockLevel struct {
	Product      entity.Product  `json:"product"`
	CurrentStock decimal.Decimal `json:"current_stock"`
}

// ListStock returns current stock for every product in the tenant,
// including products that have never moved.
func (s *InventoryService) ListStock(ctx context.Context) ([]StockLevel, error) {
	products, err := s.productRepo.ListAll(ctx)
	if err != nil {
		return nil, apperror.NewStorageError(err)
	}
	records, err := s.inventoryRepo.ListRecords(ctx)
	if err != nil {
		return nil, apperror.NewStorageError(err)
	}

	byProduct := make(map[uuid.UUID]decimal.Decimal, len(records))
	for _, r := range records {
		byProduct[r.ProductID] = r.CurrentStock
	}

	levels := make([]StockLevel, 0, len(products))
	for _, p := range products {
		levels = append(levels, StockLevel{Product: p, CurrentStock: byProduct[p.ID]})
	}
	return levels, nil
}

// ListMovements returns a product's movement history, newest first.
func (s *InventoryService) ListMovements(ctx context.Context, productID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.StockMovement], error) {
	if params == nil {
		params = &pagination.PaginationParams{}
	}
	movements, total, err := s.inventoryRepo.ListMovements(ctx, productID, params)
	if err != nil {
		return nil, apperror.NewStorageError(err)
	}
	return pagination.NewPaginatedResult(movements, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}
