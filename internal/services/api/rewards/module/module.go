// Package module wires reward reports into the API using modkit
package module

import (
	"net/http"

	modkit "conflux/internal/modkit"
	"conflux/internal/modkit/httpkit"
	"conflux/internal/platform/net/middleware"
	str "conflux/internal/platform/strings"
	rewardshttp "conflux/internal/services/api/rewards/http"
	"conflux/internal/services/reward/domain"
)

// Ports are the ports this module consumes, owned by the reward module
type Ports struct {
	Reports domain.ReportPort
}

// Module implements the rewards api module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws   []func(http.Handler) http.Handler
	ports Ports
	auth  middleware.AuthPort

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)
}

// New constructs the rewards api module; Reports must be injected with modkit.WithPorts
// routes require CORE_API_TOKEN as a bearer token when it is set
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("rewards"), modkit.WithPrefix("/rewards")}, opts...)...)

	ports, ok := b.Ports.(Ports)
	if !ok || ports.Reports == nil {
		panic("rewards api module requires Ports{Reports}")
	}

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		ports:     ports,
		auth:      httpkit.NewTokenPort(deps.Cfg.Prefix("CORE_API_").MayString("TOKEN", ""), "api"),
		subrouter: b.Subrouter,
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		httpkit.Protected(r, m.auth, func(pr httpkit.Router) {
			rewardshttp.Register(pr, m.ports.Reports)
		})
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

// Ports returns the consumed ports
func (m *Module) Ports() any { return m.ports }
