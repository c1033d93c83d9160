package entity

import (
	"encoding/json"
	"time"

	"github.com/dukani/erp-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer represents a trading partner: a buyer (category "customer") or a
// supplier. OutstandingBalance is a running total in cents maintained only
// by the ledger; nothing else writes it.
type Customer struct {
	ID                 uuid.UUID             `gorm:"type:uuid;primary_key" json:"id"`
	TenantID           uuid.UUID             `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Number             int64                 `gorm:"not null;default:0" json:"number"`
	Name               string                `gorm:"size:255;not null" json:"name"`
	Category           enum.CustomerCategory `gorm:"size:20;not null;default:'customer'" json:"category"`
	Email              *string               `gorm:"size:255" json:"email,omitempty"`
	Phone              *string               `gorm:"size:50" json:"phone,omitempty"`
	TaxPin             *string               `gorm:"size:50" json:"tax_pin,omitempty"`
	Address            *string               `gorm:"type:text" json:"address,omitempty"`
	OutstandingBalance int64                 `gorm:"not null;default:0" json:"-"` // cents
	IsActive           bool                  `gorm:"default:true" json:"is_active"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
	DeletedAt          gorm.DeletedAt        `gorm:"index" json:"-"`

	// Relationships
	Tenant Tenant `gorm:"foreignKey:TenantID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

// ApplyBalanceDelta adjusts the outstanding balance, clamping at zero.
// Overpayment is absorbed rather than carried as credit; this is the single
// place that policy lives, so switching to credit-carrying is a local change.
func (c *Customer) ApplyBalanceDelta(delta int64) {
	c.OutstandingBalance += delta
	if c.OutstandingBalance < 0 {
		c.OutstandingBalance = 0
	}
}

// MarshalJSON exposes the outstanding balance in decimal currency units.
func (c Customer) MarshalJSON() ([]byte, error) {
	type Alias Customer
	return json.Marshal(&struct {
		Alias
		OutstandingBalance float64 `json:"outstanding_balance"`
	}{
		Alias:              Alias(c),
		OutstandingBalance: float64(c.OutstandingBalance) / 100,
	})
}
