package module

import "devpulse/internal/services/sync/domain"

// Ports exposes the sync module surface to other modules and commands
type Ports struct {
	Syncer domain.SyncerPort
}
