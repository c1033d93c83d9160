package enum

// TransactionType classifies a ledger transaction. The legacy payment_in /
// payment_out values still appear in old backup documents and are accepted
// on input; both behave as payments.
type TransactionType string

const (
	TransactionTypeSales      TransactionType = "sales"
	TransactionTypePurchase   TransactionType = "purchase"
	TransactionTypePayment    TransactionType = "payment"
	TransactionTypePaymentIn  TransactionType = "payment_in"
	TransactionTypePaymentOut TransactionType = "payment_out"
)

// IsValid reports whether t is a known transaction type.
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeSales, TransactionTypePurchase,
		TransactionTypePayment, TransactionTypePaymentIn, TransactionTypePaymentOut:
		return true
	}
	return false
}

// IsPayment reports whether t belongs to the payment family. Payments never
// touch inventory.
func (t TransactionType) IsPayment() bool {
	switch t {
	case TransactionTypePayment, TransactionTypePaymentIn, TransactionTypePaymentOut:
		return true
	}
	return false
}

// AffectsInventory reports whether transactions of this type move stock.
func (t TransactionType) AffectsInventory() bool {
	return t == TransactionTypeSales || t == TransactionTypePurchase
}

// StockSign is the direction stock moves for this type: sales consume
// stock, purchases add to it.
func (t TransactionType) StockSign() int {
	switch t {
	case TransactionTypeSales:
		return -1
	case TransactionTypePurchase:
		return +1
	}
	return 0
}

func (t TransactionType) String() string {
	return string(t)
}
