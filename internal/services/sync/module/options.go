package module

import (
	"time"

	"devpulse/internal/platform/config"
	"devpulse/internal/services/sync/domain"
)

// Options controls sync behavior. Values may also be read from env
type Options struct {
	Cooldown time.Duration

	// SinceDate is the fixed crawl origin; WindowDays switches to a
	// rolling window when set
	SinceDate  time.Time
	WindowDays int

	// Collaborators overrides the downstream collaborator port.
	// Nil wires the log backed stand in
	Collaborators domain.CollaboratorPort

	// Provider client knobs
	BaseURL    string
	TokensCSV  string
	RatePerSec float64
	Burst      int
	MaxRetries int
	RetryBase  time.Duration

	// Notifier knobs
	NotifyTimeout time.Duration
	WebhookURL    string
}

// FromConfig reads options using SYNC_ prefix
func FromConfig(cfg config.Conf) Options {
	sc := cfg.Prefix("SYNC_")
	return Options{
		Cooldown:      sc.MayDuration("COOLDOWN", 10*time.Minute),
		SinceDate:     sc.MayDate("SINCE_DATE", time.Time{}),
		WindowDays:    sc.MayInt("WINDOW_DAYS", 0),
		BaseURL:       sc.MayString("GH_BASE_URL", ""),
		TokensCSV:     sc.MayString("GH_TOKENS", ""),
		RatePerSec:    sc.MayFloat64("GH_RPS", 2.0),
		Burst:         sc.MayInt("GH_BURST", 4),
		MaxRetries:    sc.MayInt("GH_MAX_RETRIES", 3),
		RetryBase:     sc.MayDuration("GH_RETRY_BASE", 2*time.Second),
		NotifyTimeout: sc.MayDuration("NOTIFY_TIMEOUT", 5*time.Second),
		WebhookURL:    sc.MayString("WEBHOOK_URL", ""),
	}
}
