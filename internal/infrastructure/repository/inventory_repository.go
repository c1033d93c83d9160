package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dukani/erp-api/internal/domain/entity"
	domainRepo "github.com/dukani/erp-api/internal/domain/repository"
	"github.com/dukani/erp-api/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type inventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(db *gorm.DB) domainRepo.InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) GetRecord(ctx context.Context, productID uuid.UUID) (*entity.InventoryRecord, error) {
	var record entity.InventoryRecord
	err := conn(ctx, r.db).Scopes(TenantScope(ctx)).First(&record, "product_id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &record, err
}

func (r *inventoryRepository) ListRecords(ctx context.Context) ([]entity.InventoryRecord, error) {
	var records []entity.InventoryRecord
	err := conn(ctx, r.db).Scopes(TenantScope(ctx)).Find(&records).Error
	return records, err
}

func (r *inventoryRepository) ApplyDelta(ctx context.Context, productID uuid.UUID, delta decimal.Decimal) error {
	tenantID, err := RequireTenant(ctx)
	if err != nil {
		return err
	}
	db := conn(ctx, r.db)

	var record entity.InventoryRecord
	findErr := db.Scopes(TenantScope(ctx)).First(&record, "product_id = ?", productID).Error
	if errors.Is(findErr, gorm.ErrRecordNotFound) {
		record = entity.InventoryRecord{
			TenantID:     tenantID,
			ProductID:    productID,
			CurrentStock: delta,
			LastUpdated:  time.Now().UTC(),
		}
		return db.Create(&record).Error
	}
	if findErr != nil {
		return findErr
	}

	record.CurrentStock = record.CurrentStock.Add(delta)
	record.LastUpdated = time.Now().UTC()
	return db.Save(&record).Error
}

func (r *inventoryRepository) AppendMovement(ctx context.Context, movement *entity.StockMovement) error {
	return conn(ctx, r.db).Create(movement).Error
}

func (r *inventoryRepository) ListMovements(ctx context.Context, productID uuid.UUID, params *pagination.PaginationParams) ([]entity.StockMovement, int64, error) {
	var movements []entity.StockMovement
	var total int64

	query := conn(ctx, r.db).Model(&entity.StockMovement{}).Scopes(TenantScope(ctx)).
		Where("product_id = ?", productID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("created_at DESC").
		Find(&movements).Error

	return movements, total, err
}

func (r *inventoryRepository) ListMovementsByTransaction(ctx context.Context, transactionID uuid.UUID) ([]entity.StockMovement, error) {
	var movements []entity.StockMovement
	err := conn(ctx, r.db).Scopes(TenantScope(ctx)).
		Where("transaction_id = ?", transactionID).
		Order("created_at ASC").
		Find(&movements).Error
	return movements, err
}

func (r *inventoryRepository) ListAllMovements(ctx context.Context) ([]entity.StockMovement, error) {
	var movements []entity.StockMovement
	err := conn(ctx, r.db).Scopes(TenantScope(ctx)).Order("created_at ASC").Find(&movements).Error
	return movements, err
}

func (r *inventoryRepository) DeleteByProduct(ctx context.Context, productID uuid.UUID) error {
	db := conn(ctx, r.db)
	if err := db.Scopes(TenantScope(ctx)).Where("product_id = ?", productID).Delete(&entity.StockMovement{}).Error; err != nil {
		return err
	}
	return db.Scopes(TenantScope(ctx)).Where("product_id = ?", productID).Delete(&entity.InventoryRecord{}).Error
}
