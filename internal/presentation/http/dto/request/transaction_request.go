package request

import (
	"github.com/shopspring/decimal"
)

// TransactionItemRequest is one line of a transaction payload. Money is in
// decimal currency units on the wire and converted to cents at the edge.
type TransactionItemRequest struct {
	ProductID string          `json:"product_id" binding:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice float64         `json:"unit_price" binding:"min=0"`
}

// CreateTransactionRequest represents the create transaction payload
type CreateTransactionRequest struct {
	Type             string                   `json:"type" binding:"required"`
	CustomerID       string                   `json:"customer_id" binding:"required,uuid"`
	Date             string                   `json:"date" binding:"required"`
	Items            []TransactionItemRequest `json:"items"`
	TotalAmount      float64                  `json:"total_amount" binding:"min=0"`
	TaxAmount        float64                  `json:"tax_amount" binding:"min=0"`
	Notes            *string                  `json:"notes"`
	SettledPaymentID *string                  `json:"settled_payment_id" binding:"omitempty,uuid"`
}

// UpdateTransactionRequest represents the update transaction payload. Items
// replace the stored set when present.
type UpdateTransactionRequest struct {
	CustomerID  *string                  `json:"customer_id" binding:"omitempty,uuid"`
	Date        *string                  `json:"date"`
	Items       []TransactionItemRequest `json:"items"`
	TotalAmount *float64                 `json:"total_amount" binding:"omitempty,min=0"`
	TaxAmount   *float64                 `json:"tax_amount" binding:"omitempty,min=0"`
	Notes       *string                  `json:"notes"`
}
