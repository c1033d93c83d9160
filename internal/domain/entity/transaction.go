package entity

import (
	"encoding/json"
	"time"

	"github.com/dukani/erp-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction is one ledger entry: a sale, a purchase, or a payment. Its
// side effects on inventory and customer balance are derived by the ledger
// and applied in the same database transaction that persists it.
type Transaction struct {
	ID         uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	TenantID   uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_txn_tenant_invoice,priority:1" json:"tenant_id"`
	CustomerID uuid.UUID            `gorm:"type:uuid;not null;index" json:"customer_id"`
	Type       enum.TransactionType `gorm:"size:20;not null;index" json:"type"`
	Date       time.Time            `gorm:"not null;index" json:"date"`
	InvoiceNo  string               `gorm:"size:100;not null;uniqueIndex:idx_txn_tenant_invoice,priority:2" json:"invoice_no"`

	TotalAmount int64 `gorm:"not null;default:0" json:"-"` // cents
	TaxAmount   int64 `gorm:"not null;default:0" json:"-"` // cents

	// SettledPaymentID references a prior payment consumed into this
	// invoice; SettledByID is the inverse mark set on that payment.
	SettledPaymentID *uuid.UUID `gorm:"type:uuid" json:"settled_payment_id,omitempty"`
	SettledByID      *uuid.UUID `gorm:"type:uuid" json:"settled_by_id,omitempty"`

	Notes     *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Tenant   Tenant            `gorm:"foreignKey:TenantID" json:"-"`
	Customer *Customer         `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []TransactionItem `gorm:"foreignKey:TransactionID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}

// ItemsTotal sums the line totals in cents.
func (t *Transaction) ItemsTotal() int64 {
	var sum int64
	for _, item := range t.Items {
		sum += item.LineTotal
	}
	return sum
}

// BalanceEffect is the signed delta this transaction applies to its
// customer's outstanding balance: sales add the total, payments subtract
// it, purchases leave it untouched.
func (t *Transaction) BalanceEffect() int64 {
	switch {
	case t.Type == enum.TransactionTypeSales:
		return t.TotalAmount
	case t.Type.IsPayment():
		return -t.TotalAmount
	}
	return 0
}

// MarshalJSON exposes money fields in decimal currency units.
func (t Transaction) MarshalJSON() ([]byte, error) {
	type Alias Transaction
	return json.Marshal(&struct {
		Alias
		TotalAmount float64 `json:"total_amount"`
		TaxAmount   float64 `json:"tax_amount"`
	}{
		Alias:       Alias(t),
		TotalAmount: float64(t.TotalAmount) / 100,
		TaxAmount:   float64(t.TaxAmount) / 100,
	})
}

// TransactionItem is one line of a transaction. Product name and unit are
// snapshotted at transaction time so later product edits or deletions do
// not rewrite history.
type TransactionItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index" json:"transaction_id"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName   string          `gorm:"size:255;not null" json:"product_name"`
	Unit          string          `gorm:"size:50;not null" json:"unit"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	UnitPrice     int64           `gorm:"not null" json:"-"` // cents
	LineTotal     int64           `gorm:"not null" json:"-"` // cents
	CreatedAt     time.Time       `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new transaction item
func (i *TransactionItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the TransactionItem model
func (TransactionItem) TableName() string {
	return "transaction_items"
}

// MarshalJSON exposes money fields in decimal currency units.
func (i TransactionItem) MarshalJSON() ([]byte, error) {
	type Alias TransactionItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		LineTotal float64 `json:"line_total"`
	}{
		Alias:     Alias(i),
		UnitPrice: float64(i.UnitPrice) / 100,
		LineTotal: float64(i.LineTotal) / 100,
	})
}
