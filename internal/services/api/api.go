// Package api provides the HTTP API for the application
package api

import (
	"devpulse/internal/platform/config"
	"devpulse/internal/platform/logger"
	phttp "devpulse/internal/platform/net/http"
	"devpulse/internal/platform/store"

	"devpulse/internal/modkit"
	"devpulse/internal/modkit/httpkit"
	"devpulse/internal/modkit/module"
	"devpulse/internal/modkit/swaggerkit"

	metamod "devpulse/internal/services/api/meta/module"
	usersmod "devpulse/internal/services/api/users/module"

	// Worker sync module (owns the Syncer port)
	syncworker "devpulse/internal/services/sync/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		CH:  opt.Store.CH,
	}

	// Construct the WORKER sync module first and extract its Syncer port
	syncMod := syncworker.New(deps, syncworker.FromConfig(deps.Cfg))
	syncer := module.MustPortsOf[syncworker.Ports](syncMod).Syncer

	// Inject that Syncer into the users API module
	users := usersmod.New(
		deps,
		modkit.WithPorts(usersmod.Ports{
			Syncer: syncer,
		}),
	)

	mods := []module.Module{
		metamod.New(deps),
		syncMod, // include worker so its ports are registered
		users,   // API module that depends on the worker's Syncer
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
