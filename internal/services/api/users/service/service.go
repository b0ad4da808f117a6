// Package service contains users API read workflows
package service

import (
	"context"
	"strings"

	"devpulse/internal/modkit/repokit"
	perr "devpulse/internal/platform/errors"
	"devpulse/internal/services/api/users/domain"
	"devpulse/internal/services/api/users/repo"
)

// defaultDays is returned when the caller does not narrow the window
const defaultDays = 30

// Service defines the users read contract
type Service interface {
	domain.ReaderPort
}

// Svc implements the users read service
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
}

// New constructs a users read service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo]) *Svc {
	if db == nil {
		panic("users.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("users.Service requires a non nil Repo binder")
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db}
}

func normalize(login string) (string, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	if login == "" {
		return "", perr.Newf(perr.ErrorCodeInvalidArgument, "login is required")
	}
	return login, nil
}

// Summary returns the derived metric set for one user
func (s *Svc) Summary(ctx context.Context, login string) (domain.SummaryResponse, error) {
	login, err := normalize(login)
	if err != nil {
		return domain.SummaryResponse{}, err
	}
	row, err := s.Repo.Summary(ctx, login)
	if err != nil {
		return domain.SummaryResponse{}, err
	}
	return domain.SummaryResponse{
		Login:       row.Login,
		Name:        row.Name,
		GithubID:    row.GithubID,
		Followers:   row.Followers,
		Following:   row.Following,
		PublicRepos: row.PublicRepos,
		Stats: domain.StatsDTO{
			Commits:      row.Commits,
			PullRequests: row.PullRequests,
			Issues:       row.Issues,
			Reviews:      row.Reviews,
			Repositories: row.Repositories,
		},
		Productivity:  row.Productivity,
		XP:            row.XP,
		Level:         row.Level,
		LevelTitle:    row.LevelTitle,
		CurrentStreak: row.CurrentStreak,
		LongestStreak: row.LongestStreak,
		ActiveDays:    row.ActiveDays,
		LastSyncedAt:  row.LastSyncedAt,
	}, nil
}

// Daily returns the most recent day rollups, newest first
func (s *Svc) Daily(ctx context.Context, login string, days int) ([]domain.DailyRow, error) {
	login, err := normalize(login)
	if err != nil {
		return nil, err
	}
	if days <= 0 {
		days = defaultDays
	}
	if days > 365 {
		days = 365
	}
	rows, err := s.Repo.Daily(ctx, login, days)
	if err != nil {
		return nil, err
	}
	out := make([]domain.DailyRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.DailyRow{
			Day:       r.Day.Format("2006-01-02"),
			Commits:   r.Commits,
			ByHour:    r.ByHour,
			Repos:     r.Repos,
			Languages: r.Languages,
			Score:     r.Score,
		})
	}
	return out, nil
}

// Repos returns the stored repository snapshots, most recently pushed first
func (s *Svc) Repos(ctx context.Context, login string) ([]domain.RepoRow, error) {
	login, err := normalize(login)
	if err != nil {
		return nil, err
	}
	rows, err := s.Repo.Repos(ctx, login)
	if err != nil {
		return nil, err
	}
	out := make([]domain.RepoRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.RepoRow{
			RepoID:    r.RepoID,
			Name:      r.Name,
			FullName:  r.FullName,
			Language:  r.Language,
			Stars:     r.Stars,
			Forks:     r.Forks,
			Fork:      r.Fork,
			Private:   r.Private,
			CreatedAt: r.CreatedAt,
			PushedAt:  r.PushedAt,
			HTMLURL:   r.HTMLURL,
		})
	}
	return out, nil
}
