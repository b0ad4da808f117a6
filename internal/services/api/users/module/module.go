// Package module wires the users API using modkit
package module

import (
	"net/http"

	modkit "devpulse/internal/modkit"
	"devpulse/internal/modkit/httpkit"
	str "devpulse/internal/platform/strings"

	uhttp "devpulse/internal/services/api/users/http"
	urepo "devpulse/internal/services/api/users/repo"
	usvc "devpulse/internal/services/api/users/service"
	syncdom "devpulse/internal/services/sync/domain"
)

// Ports declares the injected worker port this API module depends on
type Ports struct {
	Syncer syncdom.SyncerPort
}

// Module implements the users API module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc usvc.Service
}

// New constructs the users module. The sync worker's Syncer port must be
// injected through modkit.WithPorts
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("users"),
		modkit.WithPrefix("/users"),
	}, opts...)...)

	ports, ok := b.Ports.(Ports)
	if !ok || ports.Syncer == nil {
		panic("users module requires a Syncer port")
	}

	repo := urepo.NewPG()
	svc := usvc.New(deps.PG, repo)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		ports:     ports,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		uhttp.Register(r, m.svc, ports.Syncer)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }
