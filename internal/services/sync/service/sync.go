package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	gh "devpulse/internal/adapters/github"
	"devpulse/internal/core/aggregate"
	"devpulse/internal/core/score"
	"devpulse/internal/core/streak"
	perr "devpulse/internal/platform/errors"
	"devpulse/internal/platform/store"
	"devpulse/internal/services/sync/domain"
)

// releaseTimeout bounds the slot release when the request context is gone
const releaseTimeout = 5 * time.Second

// Sync runs one synchronization pass: claim the cooldown slot, crawl the
// provider, fold raw events into day rollups, derive the metric set, and
// persist everything in one transaction. Raw events never touch storage.
//
// Fetch stages degrade independently: a stage that fails contributes zeros
// and flags the result partial instead of sinking the whole pass. Only a
// failed account fetch or a failed persist aborts, and both release the
// slot so the next attempt is not locked out
func (s *Svc) Sync(ctx context.Context, req domain.Request) (domain.Result, error) {
	login := strings.ToLower(strings.TrimSpace(req.Login))
	if login == "" {
		return domain.Result{}, perr.Newf(perr.ErrorCodeInvalidArgument, "login is required")
	}

	syncID := uuid.NewString()
	ctx = store.WithSyncID(ctx, syncID)
	at := s.now().UTC()
	claim, err := s.Repo.ClaimSyncSlot(ctx, login, at, s.config.Cooldown)
	if err != nil {
		return domain.Result{}, err
	}
	if !claim.Claimed {
		return domain.Result{}, perr.WithRetryAfter(
			perr.Newf(perr.ErrorCodeTooManyRequests,
				"sync for %s is on cooldown, retry in %s", login, claim.RetryAfter.Round(time.Second)),
			claim.RetryAfter)
	}

	persisted := false
	defer func() {
		if persisted {
			return
		}
		rctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		defer cancel()
		if rerr := s.Repo.ReleaseSyncSlot(rctx, claim.UserID, at, claim.Prev); rerr != nil {
			s.log.Error().Err(rerr).Str("login", login).Msg("sync slot release failed")
		}
	}()

	id := gh.Identity{Login: login, Token: req.Token}
	// Fixed epoch by default; a window override narrows the crawl
	since := s.config.SinceDate
	if s.config.WindowDays > 0 {
		since = at.AddDate(0, 0, -s.config.WindowDays)
	}

	usr, err := s.gh.GetUser(ctx, id)
	if err != nil {
		return domain.Result{}, perr.Wrapf(err, perr.CodeOf(err), "sync account fetch failed for %s", login)
	}

	status := domain.StatusOK
	partial := false
	degrade := func(stage string, err error) {
		partial = true
		if gh.IsRateLimited(err) || perr.IsCode(err, perr.ErrorCodeTooManyRequests) {
			status = domain.StatusRateLimited
		}
		s.log.Warn().Err(err).Str("login", login).Str("stage", stage).Msg("sync stage degraded")
	}

	commits, totalCommits, err := s.gh.SearchCommits(ctx, id, since)
	if err != nil {
		degrade("commits", err)
	}
	if totalCommits < len(commits) {
		totalCommits = len(commits)
	}

	count := func(stage string, fn func(context.Context, gh.Identity, time.Time) (int, error)) int {
		n, err := fn(ctx, id, since)
		if err != nil {
			degrade(stage, err)
			return 0
		}
		return n
	}
	prs := count("pull_requests", s.gh.CountPullRequests)
	issues := count("issues", s.gh.CountIssues)
	reviews := count("reviews", s.gh.CountReviews)

	repos, err := s.gh.ListRepos(ctx, id)
	if err != nil {
		degrade("repos", err)
	}

	byDay := aggregate.Fold(commitEvents(commits))
	activeDays := aggregate.ActiveDays(byDay)
	current, longest := streak.Compute(activeDays, at)

	stats := domain.Stats{
		Commits:      totalCommits,
		PullRequests: prs,
		Issues:       issues,
		Reviews:      reviews,
		Repositories: len(repos),
	}
	xp, level, title := score.Experience(stats.Commits, stats.PullRequests, current, len(activeDays))
	summary := domain.Summary{
		UserID:        claim.UserID,
		Login:         login,
		Stats:         stats,
		Productivity:  score.Productivity(stats.Commits, stats.PullRequests, stats.Issues, stats.Reviews),
		XP:            xp,
		Level:         level,
		LevelTitle:    title,
		CurrentStreak: current,
		LongestStreak: longest,
		ActiveDays:    len(activeDays),
	}
	rollups := rollupsOf(byDay)
	snaps := snapshotsOf(repos)

	var daysWritten, reposWritten int
	err = store.RunForSync(ctx, s.db, syncID, func(ctx context.Context, q store.RowQuerier) error {
		w := s.binder.Bind(q)
		if err := w.UpdateProfile(ctx, claim.UserID, profileOf(usr)); err != nil {
			return err
		}
		var err error
		if daysWritten, err = w.UpsertDailyBatch(ctx, claim.UserID, rollups); err != nil {
			return err
		}
		if reposWritten, err = w.UpsertRepoBatch(ctx, claim.UserID, snaps); err != nil {
			return err
		}
		// Summary last: readers never see totals pointing at missing days
		return w.UpdateSummary(ctx, summary)
	})
	if err != nil {
		return domain.Result{}, perr.Wrapf(err, perr.ErrorCodeDB, "sync persist failed for %s", login)
	}
	persisted = true

	res := domain.Result{
		SyncID:       syncID,
		Status:       status,
		Login:        login,
		Summary:      summary,
		DaysWritten:  daysWritten,
		ReposWritten: reposWritten,
		Partial:      partial,
		SyncedAt:     at,
	}

	s.log.Info().
		Str("sync_id", syncID).
		Str("login", login).
		Str("status", string(status)).
		Bool("partial", partial).
		Int("days", daysWritten).
		Int("repos", reposWritten).
		Int("score", summary.Productivity).
		Int("xp", summary.XP).
		Msg("sync pass complete")

	s.dispatch(res)
	s.archive(login, rollups)
	return res, nil
}

// commitEvents maps provider commits to fold input
func commitEvents(commits []gh.Commit) []aggregate.Event {
	out := make([]aggregate.Event, 0, len(commits))
	for _, c := range commits {
		out = append(out, aggregate.Event{
			Timestamp:    c.When(),
			Kind:         aggregate.KindCommit,
			RepoID:       c.Repository.ID,
			RepoFullName: c.Repository.FullName,
			Language:     c.Repository.Language,
		})
	}
	return out
}

// rollupsOf flattens the fold into ascending day order for stable writes
func rollupsOf(byDay map[time.Time]*aggregate.Daily) []domain.DayRollup {
	out := make([]domain.DayRollup, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, domain.DayRollup{
			Day:       d.Day,
			Commits:   d.Commits,
			ByHour:    d.ByHour,
			Repos:     d.RepoList(),
			Languages: d.Languages,
			Score:     d.Score,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out
}

func snapshotsOf(repos []gh.Repo) []domain.RepoSnapshot {
	out := make([]domain.RepoSnapshot, 0, len(repos))
	for _, r := range repos {
		out = append(out, domain.RepoSnapshot{
			RepoID:    r.ID,
			Name:      r.Name,
			FullName:  r.FullName,
			Language:  r.Language,
			Stars:     r.Stargazers,
			Forks:     r.ForksCount,
			Fork:      r.Fork,
			Private:   r.Private,
			CreatedAt: r.CreatedAt,
			PushedAt:  r.PushedAt,
			HTMLURL:   r.HTMLURL,
		})
	}
	return out
}

func profileOf(u gh.User) domain.Profile {
	return domain.Profile{
		GithubID:    u.ID,
		Name:        u.Name,
		Company:     u.Company,
		Location:    u.Location,
		Followers:   u.Followers,
		Following:   u.Following,
		PublicRepos: u.PublicRepos,
		JoinedAt:    u.CreatedAt,
	}
}
