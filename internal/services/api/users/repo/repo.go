// Package repo provides postgres reads for the users API
package repo

import (
	"context"
	"encoding/json"
	"time"

	"devpulse/internal/modkit/repokit"
	perr "devpulse/internal/platform/errors"
	"devpulse/internal/platform/store"
)

// SummaryRow is the user row with its derived metric columns
type SummaryRow struct {
	Login         string
	Name          string
	GithubID      int64
	Followers     int
	Following     int
	PublicRepos   int
	Commits       int
	PullRequests  int
	Issues        int
	Reviews       int
	Repositories  int
	Productivity  int
	XP            int
	Level         int
	LevelTitle    string
	CurrentStreak int
	LongestStreak int
	ActiveDays    int
	LastSyncedAt  *time.Time
}

// DailyRow is one stored day rollup
type DailyRow struct {
	Day       time.Time
	Commits   int
	ByHour    [24]int
	Repos     []string
	Languages map[string]int
	Score     int
}

// RepoRow is one stored repository snapshot
type RepoRow struct {
	RepoID    int64
	Name      string
	FullName  string
	Language  string
	Stars     int
	Forks     int
	Fork      bool
	Private   bool
	CreatedAt *time.Time
	PushedAt  *time.Time
	HTMLURL   string
}

// Repo is the read surface for the users API
type Repo interface {
	Summary(ctx context.Context, login string) (SummaryRow, error)
	Daily(ctx context.Context, login string, days int) ([]DailyRow, error)
	Repos(ctx context.Context, login string) ([]RepoRow, error)
}

type (
	// PG is a binder that can bind the repo to a Queryer or TxRunner
	PG struct{}
	// queries implements the Repo interface
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder that can bind the repo to a Queryer or TxRunner
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

func (r *queries) Summary(ctx context.Context, login string) (SummaryRow, error) {
	const sql = `
		SELECT login, COALESCE(name, ''), COALESCE(github_id, 0),
		       followers, following, public_repos,
		       commits, pull_requests, issues, reviews, repositories,
		       productivity, xp, level, COALESCE(level_title, 'Newcomer'),
		       current_streak, longest_streak, active_days, last_synced_at
		FROM users
		WHERE login = $1
	`
	row, err := store.One(ctx, r.q, scanSummary, sql, login)
	if perr.IsCode(err, perr.ErrorCodeNotFound) {
		return SummaryRow{}, perr.Newf(perr.ErrorCodeNotFound, "user %s not found", login)
	}
	return row, err
}

func scanSummary(row store.Row) (SummaryRow, error) {
	var s SummaryRow
	err := row.Scan(
		&s.Login, &s.Name, &s.GithubID,
		&s.Followers, &s.Following, &s.PublicRepos,
		&s.Commits, &s.PullRequests, &s.Issues, &s.Reviews, &s.Repositories,
		&s.Productivity, &s.XP, &s.Level, &s.LevelTitle,
		&s.CurrentStreak, &s.LongestStreak, &s.ActiveDays, &s.LastSyncedAt,
	)
	return s, err
}

func (r *queries) Daily(ctx context.Context, login string, days int) ([]DailyRow, error) {
	const sql = `
		SELECT d.day, d.commits, d.by_hour, d.repos, d.languages, d.score
		FROM daily_aggregates d
		JOIN users u ON u.id = d.user_id
		WHERE u.login = $1
		ORDER BY d.day DESC
		LIMIT $2
	`
	return store.Many(ctx, r.q, scanDaily, sql, login, days)
}

func scanDaily(row store.Row) (DailyRow, error) {
	var (
		d                    DailyRow
		byHour, repos, langs []byte
	)
	if err := row.Scan(&d.Day, &d.Commits, &byHour, &repos, &langs, &d.Score); err != nil {
		return DailyRow{}, err
	}
	if err := json.Unmarshal(byHour, &d.ByHour); err != nil {
		return DailyRow{}, err
	}
	if err := json.Unmarshal(repos, &d.Repos); err != nil {
		return DailyRow{}, err
	}
	if err := json.Unmarshal(langs, &d.Languages); err != nil {
		return DailyRow{}, err
	}
	return d, nil
}

func (r *queries) Repos(ctx context.Context, login string) ([]RepoRow, error) {
	const sql = `
		SELECT s.repo_id, s.name, s.full_name, COALESCE(s.language, ''),
		       s.stars, s.forks, s.is_fork, s.is_private,
		       s.repo_created_at, s.pushed_at, COALESCE(s.html_url, '')
		FROM repo_snapshots s
		JOIN users u ON u.id = s.user_id
		WHERE u.login = $1
		ORDER BY s.pushed_at DESC NULLS LAST, s.repo_id
	`
	return store.Many(ctx, r.q, scanRepo, sql, login)
}

func scanRepo(row store.Row) (RepoRow, error) {
	var rr RepoRow
	err := row.Scan(
		&rr.RepoID, &rr.Name, &rr.FullName, &rr.Language,
		&rr.Stars, &rr.Forks, &rr.Fork, &rr.Private,
		&rr.CreatedAt, &rr.PushedAt, &rr.HTMLURL,
	)
	return rr, err
}
