package repository

import "context"

// BackupRepository supports wholesale replacement of a tenant's data
// during restore. Restore never merges; it wipes and rebuilds.
type BackupRepository interface {
	// Wipe hard-deletes every ledger row belonging to the tenant in the
	// context: transactions and items, movements, inventory, prices,
	// products, customers and sequences. The tenant row itself survives.
	Wipe(ctx context.Context) error
}
