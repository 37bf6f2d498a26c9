// Package module wires the reward service from deps and env config
package module

import (
	"conflux/internal/modkit"
	"conflux/internal/modkit/repokit"
	phttp "conflux/internal/platform/net/http"
	"conflux/internal/services/reward/archive"
	"conflux/internal/services/reward/domain"
	"conflux/internal/services/reward/repo"
	"conflux/internal/services/reward/service"
)

// Ports defines the reward module ports
type Ports struct {
	Reports domain.ReportPort
}

// Module implements the reward module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the reward module from CORE_REWARD_*
func New(deps modkit.Deps) (*Module, error) {
	opts, err := FromConfig(deps.Cfg)
	if err != nil {
		return nil, err
	}
	return NewWith(deps, opts), nil
}

// NewWith builds the module from explicit options
// reports are archived only when clickhouse is wired
func NewWith(deps modkit.Deps, opts Options) *Module {
	if deps.PG == nil {
		panic("reward module requires postgres")
	}
	db := repokit.WithBeginHooks(deps.PG,
		repokit.Snapshot(),
		repokit.StatementTimeout(opts.StatementTimeout),
	)

	var arch domain.ArchiveRepo
	if deps.CH != nil {
		arch = archive.NewCH(deps.CH)
	} else if opts.Service.Archive {
		deps.Log.Warn().Msg("reward: archive requested but clickhouse is disabled")
	}

	svc := service.New(db, repo.NewPG(), arch, opts.Service)
	return &Module{deps: deps, ports: Ports{Reports: svc}}
}

// Name returns the module name
func (m *Module) Name() string { return "reward" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// MountRoutes is a no-op, the api module serves reports
func (m *Module) MountRoutes(phttp.Router) {}
