package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultProductUnit is the unit assumed for products restored from backups
// that predate the unit field.
const DefaultProductUnit = "kg"

// Product represents a sellable item. Stock lives in the product's
// InventoryRecord, never here; the ledger is the only stock writer.
type Product struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TenantID     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_products_tenant_code,priority:1" json:"tenant_id"`
	Number       int64          `gorm:"not null;default:0" json:"number"`
	Name         string         `gorm:"size:255;not null" json:"name"`
	Code         string         `gorm:"size:100;not null;uniqueIndex:idx_products_tenant_code,priority:2" json:"code"`
	Unit         string         `gorm:"size:50;not null;default:'kg'" json:"unit"`
	SellingPrice int64          `gorm:"not null;default:0" json:"-"` // cents
	Provenance   *string        `gorm:"type:text" json:"provenance,omitempty"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Tenant Tenant `gorm:"foreignKey:TenantID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// MarshalJSON exposes the selling price in decimal currency units.
func (p Product) MarshalJSON() ([]byte, error) {
	type Alias Product
	return json.Marshal(&struct {
		Alias
		SellingPrice float64 `json:"selling_price"`
	}{
		Alias:        Alias(p),
		SellingPrice: float64(p.SellingPrice) / 100,
	})
}
