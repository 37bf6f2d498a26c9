// Package module wires the ingest service from deps and env config
package module

import (
	"conflux/internal/adapters/ingest/crowdin"
	"conflux/internal/modkit"
	"conflux/internal/modkit/repokit"
	phttp "conflux/internal/platform/net/http"
	"conflux/internal/services/ingest/domain"
	"conflux/internal/services/ingest/guardrails"
	"conflux/internal/services/ingest/repo"
	"conflux/internal/services/ingest/service"
)

// Ports defines the ingest module ports
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements the ingest module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the ingest module from CORE_INGEST_* and CORE_CROWDIN_*
func New(deps modkit.Deps) *Module {
	return NewWith(deps, FromConfig(deps.Cfg), nil)
}

// NewWith builds the module from explicit options; a nil src uses a crowdin client
func NewWith(deps modkit.Deps, opts Options, src domain.Source) *Module {
	if deps.PG == nil {
		panic("ingest module requires postgres")
	}
	if src == nil {
		src = crowdin.NewClient(opts.Crowdin)
	}
	db := repokit.WithBeginHooks(deps.PG, repokit.StatementTimeout(opts.StatementTimeout))
	svc := service.New(db, repo.NewPG(), src, opts.Service, guardrails.MakeLease(deps.PG, opts.LeaseTTL))

	return &Module{deps: deps, ports: Ports{Runner: svc}}
}

// Name returns the module name
func (m *Module) Name() string { return "ingest" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// MountRoutes is a no-op, ingest has no routes
func (m *Module) MountRoutes(phttp.Router) {}
