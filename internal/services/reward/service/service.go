// Package service computes reward reports from the ingested collections
package service

import (
	"context"
	"slices"
	"time"

	"conflux/internal/core/reward"
	"conflux/internal/modkit/repokit"
	perr "conflux/internal/platform/errors"
	"conflux/internal/platform/logger"
	"conflux/internal/platform/net/http/bind"
	"conflux/internal/services/reward/domain"

	"github.com/google/uuid"
)

// Config holds the configured report parameters
type Config struct {
	Engine reward.Config

	// Languages is the default language filter; empty reads every language
	Languages []string

	// Archive saves every report, not only the ones that ask for it
	Archive bool
}

// Service implements domain.ReportPort
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[domain.SourceRepo]

	// Archive may be nil when clickhouse is disabled
	Archive domain.ArchiveRepo
	Cfg     Config

	now   func() time.Time
	newID func() uuid.UUID
}

// New constructs the reward service
func New(db repokit.TxRunner, binder repokit.Binder[domain.SourceRepo], archive domain.ArchiveRepo, cfg Config) *Service {
	if db == nil {
		panic("reward.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("reward.Service requires a non nil Repo binder")
	}
	return &Service{
		DB: db, Binder: binder, Archive: archive,
		Cfg:   cfg,
		now:   time.Now,
		newID: uuid.New,
	}
}

// Compute implements domain.ReportPort
func (s *Service) Compute(ctx context.Context, in domain.ReportInput) (domain.Report, error) {
	if err := bind.Validate(in); err != nil {
		return domain.Report{}, err
	}
	if err := in.Validate(s.Cfg.Engine.Window); err != nil {
		return domain.Report{}, err
	}
	if in.Archive && s.Archive == nil {
		return domain.Report{}, perr.WithField(perr.Unavailablef("report archive is not configured"), "archive")
	}

	cfg := s.Cfg.Engine
	cfg.Window = in.Apply(cfg.Window)
	f := domain.Filter{Languages: s.Cfg.Languages}
	if len(in.Languages) > 0 {
		f.Languages = slices.Clone(in.Languages)
	}
	// the engine scopes attribution; submissions are read whole so first ever
	// status is decided across every language
	cfg.Languages = reward.Languages(f.Languages)

	rep := domain.Report{
		RunID:       s.newID(),
		GeneratedAt: s.now().UTC(),
		Window:      cfg.Window,
		Policy:      cfg.Policy,
		Languages:   f.Languages,
	}
	ctx = logger.WithRun(ctx, rep.RunID.String())
	log := *logger.C(ctx)

	var (
		subs []reward.Submission
		aps  []reward.Approval
	)
	// both reads run in one tx; the module binds it as a read only snapshot
	if err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		r := s.Binder.Bind(q)
		var err error
		if subs, err = r.ListSubmissions(ctx); err != nil {
			return err
		}
		aps, err = r.ListApprovals(ctx, f)
		return err
	}); err != nil {
		return domain.Report{}, err
	}

	out, err := reward.Run(subs, aps, cfg, log)
	if err != nil {
		return domain.Report{}, err
	}
	rep.Rows = out.Lines
	rep.Totals = out.Totals
	rep.Stats = domain.Stats{
		Submissions: len(subs),
		Approvals:   len(aps),
		Reconcile:   out.Reconcile,
		Aggregate:   out.Aggregate,
	}

	if s.Archive != nil && (in.Archive || s.Cfg.Archive) {
		if err := s.Archive.Save(ctx, rep); err != nil {
			return domain.Report{}, err
		}
		rep.Archived = true
	}

	log.Info().
		Int("submissions", rep.Stats.Submissions).
		Int("approvals", rep.Stats.Approvals).
		Int("contributors", len(rep.Rows)).
		Str("total", rep.Totals.Reward.String()).
		Str("currency", rep.Policy.Currency).
		Bool("archived", rep.Archived).
		Msg("reward: report computed")
	return rep, nil
}
