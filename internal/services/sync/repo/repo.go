// Package repo provides the sync service repository implementation
package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"devpulse/internal/modkit/repokit"
	str "devpulse/internal/platform/strings"
	ptime "devpulse/internal/platform/time"
	"devpulse/internal/services/sync/domain"
)

// chunk bounds multi row statements so parameter counts stay reasonable
const chunk = 50

// Repo defines the sync write side contract
type Repo interface {
	// Slot arbitration. Claim takes the per user cooldown slot with a
	// compare and swap on last_synced_at; Release restores the previous
	// stamp when the claimed pass produced nothing
	ClaimSyncSlot(ctx context.Context, login string, at time.Time, cooldown time.Duration) (domain.Claim, error)
	ReleaseSyncSlot(ctx context.Context, userID int64, claimAt time.Time, prev *time.Time) error

	// Profile mirror after a successful account fetch
	UpdateProfile(ctx context.Context, userID int64, p domain.Profile) error

	// Derived data writes. Batches fully overwrite conflicting rows so a
	// repeated sync converges on the same state
	UpsertDailyBatch(ctx context.Context, userID int64, days []domain.DayRollup) (int, error)
	UpsertRepoBatch(ctx context.Context, userID int64, snaps []domain.RepoSnapshot) (int, error)
	UpdateSummary(ctx context.Context, s domain.Summary) error
}

type (
	// PG is a Postgres sync repository
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG constructs a Postgres sync repository
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Queryer to a Postgres implementation of Repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

// ClaimSyncSlot ensures the user row exists, then CASes last_synced_at.
// The CAS arbitrates concurrent claims: only the caller whose observed
// stamp is still current wins the slot
func (r *queries) ClaimSyncSlot(
	ctx context.Context,
	login string,
	at time.Time,
	cooldown time.Duration,
) (domain.Claim, error) {
	const ensure = `INSERT INTO users (login) VALUES ($1) ON CONFLICT (login) DO NOTHING`
	if _, err := r.q.Exec(ctx, ensure, login); err != nil {
		return domain.Claim{}, err
	}

	const read = `SELECT id, last_synced_at FROM users WHERE login = $1`
	var (
		id   int64
		prev *time.Time
	)
	if err := r.q.QueryRow(ctx, read, login).Scan(&id, &prev); err != nil {
		return domain.Claim{}, err
	}

	if prev != nil {
		if elapsed := at.Sub(*prev); elapsed < cooldown {
			return domain.Claim{UserID: id, Prev: prev, RetryAfter: cooldown - elapsed}, nil
		}
	}

	const cas = `
		UPDATE users SET last_synced_at = $2
		WHERE id = $1 AND last_synced_at IS NOT DISTINCT FROM $3
	`
	tag, err := r.q.Exec(ctx, cas, id, at, prev)
	if err != nil {
		return domain.Claim{}, err
	}
	if tag.RowsAffected() != 1 {
		// Lost the race to a concurrent claimant
		return domain.Claim{UserID: id, Prev: prev, RetryAfter: cooldown}, nil
	}
	return domain.Claim{UserID: id, Claimed: true, Prev: prev}, nil
}

// ReleaseSyncSlot restores the pre claim stamp, but only while our claim
// still stands. A later successful claim by someone else is left alone
func (r *queries) ReleaseSyncSlot(ctx context.Context, userID int64, claimAt time.Time, prev *time.Time) error {
	const sql = `
		UPDATE users SET last_synced_at = $3
		WHERE id = $1 AND last_synced_at IS NOT DISTINCT FROM $2
	`
	_, err := r.q.Exec(ctx, sql, userID, claimAt, prev)
	return err
}

// UpdateProfile mirrors the provider account document onto the user row
// Blank provider fields land as NULL, never empty strings
func (r *queries) UpdateProfile(ctx context.Context, userID int64, p domain.Profile) error {
	const sql = `
		UPDATE users SET
			github_id    = $2,
			name         = $3,
			company      = $4,
			location     = $5,
			followers    = $6,
			following    = $7,
			public_repos = $8,
			joined_at    = $9,
			updated_at   = NOW()
		WHERE id = $1
	`
	_, err := r.q.Exec(ctx, sql,
		userID, p.GithubID, str.SQLNull(p.Name), str.SQLNull(p.Company), str.SQLNull(p.Location),
		p.Followers, p.Following, p.PublicRepos, ptime.Ptr(p.JoinedAt),
	)
	return err
}

// UpsertDailyBatch writes day rollups in chunks. Conflicting days are fully
// overwritten so stale partial rows from an earlier pass cannot survive
func (r *queries) UpsertDailyBatch(ctx context.Context, userID int64, days []domain.DayRollup) (int, error) {
	written := 0
	for start := 0; start < len(days); start += chunk {
		end := min(start+chunk, len(days))
		n, err := r.upsertDays(ctx, userID, days[start:end])
		written += n
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

func (r *queries) upsertDays(ctx context.Context, userID int64, days []domain.DayRollup) (int, error) {
	var sb strings.Builder
	sb.WriteString(`
		INSERT INTO daily_aggregates (user_id, day, commits, by_hour, repos, languages, score, updated_at)
		VALUES `)

	args := make([]any, 0, len(days)*7)
	arg := func(v any) int { args = append(args, v); return len(args) }

	for i, d := range days {
		byHour, err := json.Marshal(d.ByHour)
		if err != nil {
			return 0, err
		}
		repos, err := json.Marshal(d.Repos)
		if err != nil {
			return 0, err
		}
		langs, err := json.Marshal(d.Languages)
		if err != nil {
			return 0, err
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d, $%d, NOW())",
			arg(userID), arg(d.Day), arg(d.Commits), arg(byHour), arg(repos), arg(langs), arg(d.Score))
	}

	sb.WriteString(`
		ON CONFLICT (user_id, day) DO UPDATE SET
			commits    = excluded.commits,
			by_hour    = excluded.by_hour,
			repos      = excluded.repos,
			languages  = excluded.languages,
			score      = excluded.score,
			updated_at = NOW()`)

	if _, err := r.q.Exec(ctx, sb.String(), args...); err != nil {
		return 0, err
	}
	return len(days), nil
}

// UpsertRepoBatch writes repository snapshots in chunks, full overwrite
func (r *queries) UpsertRepoBatch(ctx context.Context, userID int64, snaps []domain.RepoSnapshot) (int, error) {
	written := 0
	for start := 0; start < len(snaps); start += chunk {
		end := min(start+chunk, len(snaps))
		n, err := r.upsertRepos(ctx, userID, snaps[start:end])
		written += n
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

func (r *queries) upsertRepos(ctx context.Context, userID int64, snaps []domain.RepoSnapshot) (int, error) {
	var sb strings.Builder
	sb.WriteString(`
		INSERT INTO repo_snapshots (
			user_id, repo_id, name, full_name, language,
			stars, forks, is_fork, is_private, repo_created_at, pushed_at, html_url, updated_at
		) VALUES `)

	args := make([]any, 0, len(snaps)*12)
	arg := func(v any) int { args = append(args, v); return len(args) }

	for i, s := range snaps {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, NOW())",
			arg(userID), arg(s.RepoID), arg(s.Name), arg(s.FullName), arg(str.SQLNull(s.Language)),
			arg(s.Stars), arg(s.Forks), arg(s.Fork), arg(s.Private),
			arg(ptime.Ptr(s.CreatedAt)), arg(ptime.Ptr(s.PushedAt)), arg(str.SQLNull(s.HTMLURL)))
	}

	sb.WriteString(`
		ON CONFLICT (user_id, repo_id) DO UPDATE SET
			name            = excluded.name,
			full_name       = excluded.full_name,
			language        = excluded.language,
			stars           = excluded.stars,
			forks           = excluded.forks,
			is_fork         = excluded.is_fork,
			is_private      = excluded.is_private,
			repo_created_at = excluded.repo_created_at,
			pushed_at       = excluded.pushed_at,
			html_url        = excluded.html_url,
			updated_at      = NOW()`)

	if _, err := r.q.Exec(ctx, sb.String(), args...); err != nil {
		return 0, err
	}
	return len(snaps), nil
}

// UpdateSummary persists the derived metric set. Written last so readers
// never see a summary pointing at days that are not there yet
func (r *queries) UpdateSummary(ctx context.Context, s domain.Summary) error {
	const sql = `
		UPDATE users SET
			commits        = $2,
			pull_requests  = $3,
			issues         = $4,
			reviews        = $5,
			repositories   = $6,
			productivity   = $7,
			xp             = $8,
			level          = $9,
			level_title    = $10,
			current_streak = $11,
			longest_streak = $12,
			active_days    = $13,
			updated_at     = NOW()
		WHERE id = $1
	`
	_, err := r.q.Exec(ctx, sql,
		s.UserID,
		s.Stats.Commits, s.Stats.PullRequests, s.Stats.Issues, s.Stats.Reviews,
		s.Stats.Repositories, s.Productivity, s.XP, s.Level, s.LevelTitle,
		s.CurrentStreak, s.LongestStreak, s.ActiveDays,
	)
	return err
}
