// Package service contains the activity sync workflow
package service

import (
	"context"
	"sync"
	"time"

	gh "devpulse/internal/adapters/github"
	"devpulse/internal/modkit"
	"devpulse/internal/modkit/repokit"
	"devpulse/internal/platform/logger"
	"devpulse/internal/services/sync/domain"
	"devpulse/internal/services/sync/repo"
)

// Service is the sync contract exposed through module ports
type Service interface {
	domain.SyncerPort
}

// Config carries runtime knobs for one sync pass
type Config struct {
	// Cooldown is the minimum spacing between syncs of the same user
	Cooldown time.Duration

	// SinceDate is the fixed all time origin of the crawl. Totals are
	// cumulative from this date, so re-syncs converge instead of shrinking
	SinceDate time.Time

	// WindowDays, when set, narrows the crawl to a rolling window.
	// Zero means the fixed SinceDate floor applies
	WindowDays int

	// Provider client knobs
	BaseURL    string
	TokensCSV  string
	RatePerSec float64
	Burst      int
	MaxRetries int
	RetryBase  time.Duration

	// NotifyTimeout bounds each fire and forget notifier call
	NotifyTimeout time.Duration
}

// Svc implements the sync service
type Svc struct {
	Repo      repo.Repo
	binder    repokit.Binder[repo.Repo]
	db        repokit.TxRunner
	deps      modkit.Deps
	config    Config
	gh        *gh.Client
	notifiers []domain.NotifierPort
	log       logger.Logger

	// now is a seam for deterministic tests
	now func() time.Time

	bg sync.WaitGroup
}

// New constructs a sync service
func New(deps modkit.Deps, cfg Config, notifiers ...domain.NotifierPort) *Svc {
	if deps.PG == nil {
		panic("sync.Service requires a non nil TxRunner")
	}
	cfg = withDefaults(cfg)

	// persist transactions never hold locks past the statement timeout
	db := repokit.WithBeginHooks(deps.PG, func(ctx context.Context, q repokit.Queryer) error {
		_, err := q.Exec(ctx, "SET LOCAL statement_timeout = '30s'")
		return err
	})

	b := repo.NewPG()
	client := gh.NewClient(gh.Options{
		BaseURL:    cfg.BaseURL,
		TokensCSV:  cfg.TokensCSV,
		RatePerSec: cfg.RatePerSec,
		Burst:      cfg.Burst,
		MaxRetries: cfg.MaxRetries,
		RetryBase:  cfg.RetryBase,
	})

	return &Svc{
		Repo:      b.Bind(deps.PG),
		binder:    b,
		db:        db,
		deps:      deps,
		config:    cfg,
		gh:        client,
		notifiers: notifiers,
		log:       *logger.Named("sync"),
		now:       time.Now,
	}
}

// Wait blocks until in flight notifier and archive goroutines finish
// Called on shutdown so fire and forget work is not torn down mid write
func (s *Svc) Wait() { s.bg.Wait() }

// defaultSinceDate predates the provider itself, an effective "all time"
var defaultSinceDate = time.Date(2008, 1, 1, 0, 0, 0, 0, time.UTC)

func withDefaults(cfg Config) Config {
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 10 * time.Minute
	}
	if cfg.SinceDate.IsZero() {
		cfg.SinceDate = defaultSinceDate
	}
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = 5 * time.Second
	}
	return cfg
}
