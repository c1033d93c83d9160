package entity

import (
	"time"

	"github.com/dukani/erp-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryRecord holds the current stock level for one product. It is a
// projection of the stock movement log: only movement application writes it.
type InventoryRecord struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TenantID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_tenant_product,priority:1" json:"tenant_id"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_tenant_product,priority:2" json:"product_id"`
	CurrentStock decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"current_stock"`
	LastUpdated  time.Time       `gorm:"not null" json:"last_updated"`

	// Relationships
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new inventory record
func (r *InventoryRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InventoryRecord model
func (InventoryRecord) TableName() string {
	return "inventory_records"
}

// StockMovement is an append-only log entry recording one inventory change
// and its cause. Rows are never updated; corrections and deletions of the
// originating transaction append compensating rows instead. The only
// removal path is the cascade when the product itself is deleted.
type StockMovement struct {
	ID            uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	TenantID      uuid.UUID           `gorm:"type:uuid;not null;index" json:"tenant_id"`
	ProductID     uuid.UUID           `gorm:"type:uuid;not null;index" json:"product_id"`
	TransactionID uuid.UUID           `gorm:"type:uuid;not null;index" json:"transaction_id"`
	Delta         decimal.Decimal     `gorm:"type:decimal(18,4);not null" json:"delta"`
	Reason        enum.MovementReason `gorm:"size:20;not null" json:"reason"`
	CreatedAt     time.Time           `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new stock movement
func (m *StockMovement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StockMovement model
func (StockMovement) TableName() string {
	return "stock_movements"
}
