package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"devpulse/internal/modkit"
	"devpulse/internal/modkit/module"
	"devpulse/internal/modkit/repokit"
	"devpulse/internal/platform/config"
	"devpulse/internal/platform/logger"
	"devpulse/internal/platform/store"

	syncdom "devpulse/internal/services/sync/domain"
	syncmod "devpulse/internal/services/sync/module"
)

func mustSetEnv(key, val string) {
	if val != "" {
		_ = os.Setenv(key, val)
	}
}

func main() {
	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")

	l := logger.Get()

	st, err := store.Open(context.Background(), store.Config{
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		},
		CH: store.CHConfig{
			Enabled:    chCfg.MayBool("ENABLED", false),
			URL:        chCfg.MayString("DBURL", ""),
			ClientName: "devpulse",
			ClientTag:  "sync",
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// refuse to start on a half-open store
	repokit.MustGuard(context.Background(), st)

	// Flags
	var (
		fLogins   = flag.String("logins", "", "comma-separated GitHub logins to sync (required)")
		fToken    = flag.String("token", "", "GitHub token used for every pass (optional; env SYNC_GH_TOKENS also works)")
		fCooldown = flag.Duration("cooldown", 0, "override the per-user sync cooldown (0 = from env/default)")
		fSince    = flag.String("since", "", "fixed crawl origin as YYYY-MM-DD (empty = from env/default)")
		fWindow   = flag.Int("window-days", 0, "rolling crawl window override (0 = fixed origin)")
		fRPS      = flag.Float64("rps", 0, "global GitHub API target requests/sec (0 = from env/default)")
		fBurst    = flag.Int("burst", 0, "token-bucket burst for GitHub API (0 = from env/default)")
		fWebhook  = flag.String("webhook", "", "webhook URL notified after each pass (optional)")
	)
	flag.Parse()

	logins := splitLogins(*fLogins)
	if len(logins) == 0 {
		l.Panic().Msg("devpulse-sync: -logins is required (comma-separated)")
	}

	var since time.Time
	if *fSince != "" {
		d, err := time.ParseInLocation("2006-01-02", *fSince, time.UTC)
		if err != nil {
			l.Panic().Str("since", *fSince).Msg("devpulse-sync: -since must be YYYY-MM-DD")
		}
		since = d
	}

	// Shared deps
	deps := modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		CH:  st.CH,
		Log: *l,
	}

	// Export knobs as env so the module can read via FromConfig if desired
	if *fRPS > 0 {
		mustSetEnv("SYNC_GH_RPS", fmt.Sprintf("%.3f", *fRPS))
	}

	sm := syncmod.New(
		deps,
		syncmod.Options{
			Cooldown:   *fCooldown,
			SinceDate:  since,
			WindowDays: *fWindow,
			RatePerSec: *fRPS,
			Burst:      *fBurst,
			WebhookURL: *fWebhook,
		},
	)

	syncer := module.MustPortsOf[syncmod.Ports](sm).Syncer

	ctx := context.Background()
	failed := 0
	for _, login := range logins {
		res, err := syncer.Sync(ctx, syncdom.Request{Login: login, Token: *fToken})
		if err != nil {
			failed++
			l.Error().Err(err).Str("login", login).Msg("sync failed")
			continue
		}
		l.Info().
			Str("login", res.Login).
			Str("status", string(res.Status)).
			Str("level", res.Summary.LevelTitle).
			Int("xp", res.Summary.XP).
			Int("days", res.DaysWritten).
			Int("repos", res.ReposWritten).
			Msg("sync done")
	}

	// let fire and forget notifier/archive goroutines land
	sm.Drain()

	if failed > 0 {
		l.Warn().Int("failed", failed).Int("total", len(logins)).Msg("some syncs failed")
		os.Exit(1)
	}
}

func splitLogins(csv string) []string {
	var out []string
	for _, s := range strings.Split(csv, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
