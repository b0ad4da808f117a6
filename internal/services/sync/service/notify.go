package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	perr "devpulse/internal/platform/errors"
	"devpulse/internal/platform/logger"
	"devpulse/internal/services/sync/domain"
)

// archiveTimeout bounds the best effort columnar write
const archiveTimeout = 10 * time.Second

// dispatch fans the result out to every notifier, one goroutine each
// Failures are logged and dropped, the sync result is already committed
func (s *Svc) dispatch(res domain.Result) {
	for _, n := range s.notifiers {
		s.bg.Add(1)
		go func(n domain.NotifierPort) {
			defer s.bg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), s.config.NotifyTimeout)
			defer cancel()
			if err := n.Notify(ctx, res); err != nil {
				s.log.Warn().Err(err).Str("notifier", n.Name()).Str("login", res.Login).Msg("sync notify failed")
			}
		}(n)
	}
}

// archive mirrors day rollups into the columnar store for trend queries
// Best effort: the relational write already succeeded, a miss here only
// costs analytics history
func (s *Svc) archive(login string, days []domain.DayRollup) {
	if s.deps.CH == nil || len(days) == 0 {
		return
	}
	rows := make([][]any, 0, len(days))
	for _, d := range days {
		rows = append(rows, []any{
			login,
			d.Day,
			int32(d.Commits),
			int32(d.Score),
			int32(len(d.Repos)),
		})
	}

	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()
		if err := s.deps.CH.Insert(ctx, "daily_activity", rows); err != nil {
			s.log.Warn().Err(err).Str("login", login).Int("rows", len(rows)).Msg("sync archive failed")
		}
	}()
}

// LogNotifier writes completed sync results to the structured log
type LogNotifier struct {
	log logger.Logger
}

// NewLogNotifier constructs the default notifier
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{log: *logger.Named("notify")}
}

// Name interface
func (n *LogNotifier) Name() string { return "log" }

// Notify interface
func (n *LogNotifier) Notify(_ context.Context, res domain.Result) error {
	n.log.Info().
		Str("login", res.Login).
		Str("status", string(res.Status)).
		Str("level", res.Summary.LevelTitle).
		Int("xp", res.Summary.XP).
		Int("score", res.Summary.Productivity).
		Int("current_streak", res.Summary.CurrentStreak).
		Msg("sync completed")
	return nil
}

// CollaboratorNotifier fans one completed sync into the downstream
// collaborator calls
type CollaboratorNotifier struct {
	c domain.CollaboratorPort
}

// NewCollaboratorNotifier adapts a CollaboratorPort to the notifier fan-out
func NewCollaboratorNotifier(c domain.CollaboratorPort) *CollaboratorNotifier {
	return &CollaboratorNotifier{c: c}
}

// Name interface
func (n *CollaboratorNotifier) Name() string { return "collaborators" }

// Notify interface
func (n *CollaboratorNotifier) Notify(ctx context.Context, res domain.Result) error {
	return errors.Join(
		n.c.NotifyAchievements(ctx, res.Summary.UserID),
		n.c.NotifyInsights(ctx, res.Summary.UserID),
		n.c.NotifyChallengeRecalc(ctx),
	)
}

// logCollaborators stands in when no external collaborators are configured
type logCollaborators struct {
	log logger.Logger
}

// NewLogCollaborators constructs the default collaborator stand in
func NewLogCollaborators() domain.CollaboratorPort {
	return &logCollaborators{log: *logger.Named("collab")}
}

func (c *logCollaborators) NotifyAchievements(_ context.Context, userID int64) error {
	c.log.Info().Int64("user_id", userID).Msg("achievement evaluation dispatched")
	return nil
}

func (c *logCollaborators) NotifyInsights(_ context.Context, userID int64) error {
	c.log.Info().Int64("user_id", userID).Msg("insight generation dispatched")
	return nil
}

func (c *logCollaborators) NotifyChallengeRecalc(context.Context) error {
	c.log.Info().Msg("challenge recompute dispatched")
	return nil
}

// WebhookNotifier POSTs the sync result as JSON to a configured endpoint
type WebhookNotifier struct {
	url    string
	client *http.Client
}

// NewWebhookNotifier constructs a webhook notifier for the given URL
func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &WebhookNotifier{url: url, client: &http.Client{Timeout: timeout}}
}

// Name interface
func (n *WebhookNotifier) Name() string { return "webhook" }

// Notify interface
func (n *WebhookNotifier) Notify(ctx context.Context, res domain.Result) error {
	body, err := json.Marshal(res)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeJSON, "webhook payload encode failed")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "webhook request build failed")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "webhook post failed")
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 300 {
		return perr.Newf(perr.ErrorCodeUnavailable, "webhook rejected with status %d", resp.StatusCode)
	}
	return nil
}
