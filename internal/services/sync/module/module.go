// Package module wires the sync service and exposes its ports
package module

import (
	"devpulse/internal/modkit"
	"devpulse/internal/modkit/httpkit"

	"devpulse/internal/services/sync/domain"
	"devpulse/internal/services/sync/service"
)

// Module defines the sync module
type Module struct {
	deps  modkit.Deps
	svc   *service.Svc
	ports Ports
}

// New constructs the sync module with its ports
func New(deps modkit.Deps, overrides Options) *Module {
	// Load defaults from config then apply overrides from CLI (if provided)
	opts := FromConfig(deps.Cfg)

	if overrides.Cooldown != 0 {
		opts.Cooldown = overrides.Cooldown
	}
	if !overrides.SinceDate.IsZero() {
		opts.SinceDate = overrides.SinceDate
	}
	if overrides.WindowDays != 0 {
		opts.WindowDays = overrides.WindowDays
	}
	if overrides.BaseURL != "" {
		opts.BaseURL = overrides.BaseURL
	}
	if overrides.TokensCSV != "" {
		opts.TokensCSV = overrides.TokensCSV
	}
	if overrides.RatePerSec != 0 {
		opts.RatePerSec = overrides.RatePerSec
	}
	if overrides.Burst != 0 {
		opts.Burst = overrides.Burst
	}
	if overrides.WebhookURL != "" {
		opts.WebhookURL = overrides.WebhookURL
	}

	collab := overrides.Collaborators
	if collab == nil {
		collab = service.NewLogCollaborators()
	}

	notifiers := []domain.NotifierPort{
		service.NewLogNotifier(),
		service.NewCollaboratorNotifier(collab),
	}
	if opts.WebhookURL != "" {
		notifiers = append(notifiers, service.NewWebhookNotifier(opts.WebhookURL, opts.NotifyTimeout))
	}

	svc := service.New(deps, service.Config{
		Cooldown:      opts.Cooldown,
		SinceDate:     opts.SinceDate,
		WindowDays:    opts.WindowDays,
		BaseURL:       opts.BaseURL,
		TokensCSV:     opts.TokensCSV,
		RatePerSec:    opts.RatePerSec,
		Burst:         opts.Burst,
		MaxRetries:    opts.MaxRetries,
		RetryBase:     opts.RetryBase,
		NotifyTimeout: opts.NotifyTimeout,
	}, notifiers...)

	m := &Module{deps: deps, svc: svc}
	m.ports = Ports{Syncer: svc}
	return m
}

// Name returns the module name
func (m *Module) Name() string { return "sync" }

// Ports returns the module ports (Syncer)
func (m *Module) Ports() any { return m.ports }

// Prefix returns the module config prefix
func (m *Module) Prefix() string { return "SYNC_" }

// MountRoutes returns no HTTP routes for sync (the api module fronts it)
func (m *Module) MountRoutes(_ httpkit.Router) {}

// Drain waits for in flight notifier and archive goroutines
func (m *Module) Drain() { m.svc.Wait() }
