package store

import "context"

type syncIDKey struct{}

// WithSyncID attaches a sync pass correlation id to the context.
// Adapters pick it up and stamp query trace events with it
func WithSyncID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, syncIDKey{}, id)
}

// SyncID retrieves a sync pass correlation id from context if present
func SyncID(ctx context.Context) (string, bool) {
	v := ctx.Value(syncIDKey{})
	if v == nil {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}
