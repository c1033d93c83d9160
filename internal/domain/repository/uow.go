package repository

import "context"

// TxManager runs a function inside a single database transaction. Every
// repository call made with the context passed to fn joins that
// transaction, so a ledger operation's writes (transaction record, stock
// movements, inventory snapshot, customer balance) commit or roll back as
// one unit.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
