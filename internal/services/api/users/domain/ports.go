package domain

import "context"

// ReaderPort is the read surface the users API exposes
type ReaderPort interface {
	Summary(ctx context.Context, login string) (SummaryResponse, error)
	Daily(ctx context.Context, login string, days int) ([]DailyRow, error)
	Repos(ctx context.Context, login string) ([]RepoRow, error)
}
