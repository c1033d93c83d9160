package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sequence kinds. One counter per tenant and kind.
const (
	SequenceKindInvoice  = "invoice"
	SequenceKindCustomer = "customer"
	SequenceKindProduct  = "product"
)

// Sequence is a per-tenant monotonic counter used for human-facing document
// numbers (invoice numbers, customer numbers). Counters are exported in the
// backup document as nextIds and restored verbatim so numbering never
// regresses after a restore.
type Sequence struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_sequences_tenant_kind,priority:1" json:"tenant_id"`
	Kind     string    `gorm:"size:50;not null;uniqueIndex:idx_sequences_tenant_kind,priority:2" json:"kind"`
	Next     int64     `gorm:"not null;default:1" json:"next"`
}

// BeforeCreate generates a UUID before creating a new sequence
func (s *Sequence) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sequence model
func (Sequence) TableName() string {
	return "sequences"
}
