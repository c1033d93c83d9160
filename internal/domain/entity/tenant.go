package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tenant is the unit of data isolation. Every ledger entity carries its id,
// and every repository query is scoped to the tenant resolved from the
// request context.
type Tenant struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Slug      string         `gorm:"size:255;unique;not null" json:"slug"`
	Settings  TenantSettings `gorm:"type:jsonb;serializer:json" json:"settings"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new tenant
func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Tenant model
func (Tenant) TableName() string {
	return "tenants"
}

// TenantSettings holds per-company business configuration. Stored as a
// single jsonb document on the tenant row and included in backups.
type TenantSettings struct {
	Currency      string  `json:"currency,omitempty"`
	Timezone      string  `json:"timezone,omitempty"`
	TaxRate       float64 `json:"tax_rate,omitempty"`
	TaxLabel      string  `json:"tax_label,omitempty"`
	InvoicePrefix string  `json:"invoice_prefix,omitempty"`
	DefaultUnit   string  `json:"default_unit,omitempty"`
	AutoBackup    bool    `json:"auto_backup"`
}

// Scan implements the sql.Scanner interface for TenantSettings
func (ts *TenantSettings) Scan(value interface{}) error {
	if value == nil {
		*ts = TenantSettings{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan TenantSettings: unsupported type")
	}

	return json.Unmarshal(bytes, ts)
}

// Value implements the driver.Valuer interface for TenantSettings
func (ts TenantSettings) Value() (driver.Value, error) {
	return json.Marshal(ts)
}

// DefaultTenantSettings returns the settings applied to new tenants and to
// restored backups that predate a given field.
func DefaultTenantSettings() TenantSettings {
	return TenantSettings{
		Currency:      "KES",
		Timezone:      "Africa/Nairobi",
		TaxRate:       16.0,
		TaxLabel:      "VAT",
		InvoicePrefix: "INV-",
		DefaultUnit:   "kg",
		AutoBackup:    true,
	}
}
