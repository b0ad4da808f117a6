package domain

import "context"

// SyncerPort runs one synchronization pass for a user
type SyncerPort interface {
	Sync(ctx context.Context, req Request) (Result, error)
}

// NotifierPort receives completed sync results. Calls are fire and forget:
// implementations must not block the sync path and get a bounded context
type NotifierPort interface {
	Name() string
	Notify(ctx context.Context, res Result) error
}

// CollaboratorPort is the downstream contract invoked after a completed
// sync: achievement evaluation, insight generation, challenge recompute.
// One way calls, the sync outcome never depends on their answers
type CollaboratorPort interface {
	NotifyAchievements(ctx context.Context, userID int64) error
	NotifyInsights(ctx context.Context, userID int64) error
	NotifyChallengeRecalc(ctx context.Context) error
}
