package enum

// MovementReason records why a stock movement was appended. Corrections are
// always new compensating rows, never edits of prior rows.
type MovementReason string

const (
	// MovementReasonSale is stock leaving for a sales transaction.
	MovementReasonSale MovementReason = "sale"
	// MovementReasonPurchase is stock arriving from a purchase transaction.
	MovementReasonPurchase MovementReason = "purchase"
	// MovementReasonReversal compensates a prior movement when its
	// transaction is edited or deleted.
	MovementReasonReversal MovementReason = "reversal"
	// MovementReasonRestore is applied when rebuilding inventory from a
	// restored backup document.
	MovementReasonRestore MovementReason = "restore"
)

// ForTransactionType returns the reason used when applying a transaction's
// items as movements.
func ForTransactionType(t TransactionType) MovementReason {
	if t == TransactionTypePurchase {
		return MovementReasonPurchase
	}
	return MovementReasonSale
}
