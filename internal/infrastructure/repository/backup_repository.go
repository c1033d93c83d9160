package repository

import (
	"context"

	"github.com/dukani/erp-api/internal/domain/entity"
	domainRepo "github.com/dukani/erp-api/internal/domain/repository"
	"gorm.io/gorm"
)

type backupRepository struct {
	db *gorm.DB
}

// NewBackupRepository creates a new backup repository
func NewBackupRepository(db *gorm.DB) domainRepo.BackupRepository {
	return &backupRepository{db: db}
}

func (r *backupRepository) Wipe(ctx context.Context) error {
	tenantID, err := RequireTenant(ctx)
	if err != nil {
		return err
	}
	db := conn(ctx, r.db)

	// Items carry no tenant id; they go through their transactions.
	txnIDs := db.Session(&gorm.Session{NewDB: true}).Unscoped().
		Model(&entity.Transaction{}).
		Select("id").
		Where("tenant_id = ?", tenantID)
	if err := db.Unscoped().Where("transaction_id IN (?)", txnIDs).Delete(&entity.TransactionItem{}).Error; err != nil {
		return err
	}

	for _, model := range []interface{}{
		&entity.Transaction{},
		&entity.StockMovement{},
		&entity.InventoryRecord{},
		&entity.CustomerProductPrice{},
		&entity.Product{},
		&entity.Customer{},
		&entity.Sequence{},
	} {
		if err := db.Unscoped().Where("tenant_id = ?", tenantID).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
