package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustomerProductPrice is a negotiated unit price for one customer and one
// product, overriding the product's list price when present. Included in
// backup documents as customerProductPrices.
type CustomerProductPrice struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TenantID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"tenant_id"`
	CustomerID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_prices_customer_product,priority:1" json:"customer_id"`
	ProductID  uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_prices_customer_product,priority:2" json:"product_id"`
	UnitPrice  int64          `gorm:"not null" json:"-"` // cents
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Customer Customer `gorm:"foreignKey:CustomerID" json:"-"`
	Product  Product  `gorm:"foreignKey:ProductID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new price override
func (p *CustomerProductPrice) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CustomerProductPrice model
func (CustomerProductPrice) TableName() string {
	return "customer_product_prices"
}

// MarshalJSON exposes the unit price in decimal currency units.
func (p CustomerProductPrice) MarshalJSON() ([]byte, error) {
	type Alias CustomerProductPrice
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
	}{
		Alias:     Alias(p),
		UnitPrice: float64(p.UnitPrice) / 100,
	})
}
