package store

import "context"

// RunForSync wraps ctx with the sync pass id and calls fn inside the provided TxRunner
func RunForSync(ctx context.Context, tx TxRunner, syncID string, fn func(ctx context.Context, q RowQuerier) error) error {
	ctx = WithSyncID(ctx, syncID)
	return tx.Tx(ctx, func(q RowQuerier) error {
		return fn(ctx, q)
	})
}
