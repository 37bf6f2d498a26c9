// Package service pulls a crowdin project into postgres page by page
package service

import (
	"context"
	"errors"
	"slices"
	"time"

	"conflux/internal/adapters/ingest/crowdin"
	"conflux/internal/modkit/repokit"
	perr "conflux/internal/platform/errors"
	"conflux/internal/platform/logger"
	ptime "conflux/internal/platform/time"
	"conflux/internal/services/ingest/domain"
	"conflux/internal/services/ingest/guardrails"

	"github.com/google/uuid"
)

// Config holds the ingest run options
type Config struct {
	ProjectID int64
	Languages []string

	// Paging; PageLimit <= 0 or above the crowdin max uses 500
	PageLimit int
	PageDelay time.Duration

	// ExcludeLabelIDs filters approvals the way the crowdin ui does
	ExcludeLabelIDs []int64

	// Reset empties each collection right before it is refilled
	Reset bool

	// SourceStrings toggles the source string pass
	SourceStrings bool

	// Page write retry; MaxRetries <= 0 -> 1 attempt, RetryBase <= 0 -> 250ms
	MaxRetries int
	RetryBase  time.Duration

	EnableLeases bool
	Timeouts     guardrails.Timeouts
}

// Service implements domain.RunnerPort
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[domain.StorageRepo]
	Source domain.Source
	Cfg    Config

	// Lease is consulted when Cfg.EnableLeases is set
	Lease guardrails.Lease

	now   func() time.Time
	newID func() uuid.UUID
	sleep func(context.Context, time.Duration) error
}

// New constructs the ingest service
func New(
	db repokit.TxRunner,
	binder repokit.Binder[domain.StorageRepo],
	src domain.Source,
	cfg Config,
	lease guardrails.Lease,
) *Service {
	if db == nil {
		panic("ingest.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("ingest.Service requires a non nil Repo binder")
	}
	if src == nil {
		panic("ingest.Service requires a non nil Source")
	}
	return &Service{
		DB: db, Binder: binder, Source: src,
		Cfg:   cfg,
		Lease: lease,
		now:   time.Now,
		newID: uuid.New,
		sleep: ptime.SleepCtx,
	}
}

// Run implements domain.RunnerPort
// the summary is returned even on failure so callers can report partial progress
func (s *Service) Run(ctx context.Context) (domain.RunSummary, error) {
	if s.Cfg.ProjectID <= 0 {
		return domain.RunSummary{}, perr.WithField(perr.InvalidArgf("crowdin project id is required"), "project_id")
	}
	langs, err := domain.ValidateLanguages(s.Cfg.Languages)
	if err != nil {
		return domain.RunSummary{}, err
	}

	sum := domain.RunSummary{
		RunID:     s.newID(),
		ProjectID: s.Cfg.ProjectID,
		Languages: langs,
		Status:    domain.StatusRunning,
	}
	ctx = logger.WithRun(ctx, sum.RunID.String())

	work := func(ctx context.Context) error { return s.runLocked(ctx, &sum) }
	if s.Lease != nil && s.Cfg.EnableLeases {
		err = s.Lease(ctx, s.Cfg.ProjectID, sum.RunID, work)
	} else {
		err = work(ctx)
	}
	if errors.Is(err, guardrails.ErrLeaseHeld) {
		logger.C(ctx).Warn().Int64("project_id", s.Cfg.ProjectID).Msg("ingest: project lease held, skipping")
	}
	return sum, err
}

func (s *Service) runLocked(ctx context.Context, sum *domain.RunSummary) (retErr error) {
	runCtx, cancel := guardrails.WithRun(ctx, s.Cfg.Timeouts)
	defer cancel()

	sum.StartedAt = s.now().UTC()
	if err := s.DB.Tx(runCtx, func(q repokit.Queryer) error {
		return s.Binder.Bind(q).StartRun(runCtx, sum.RunID, sum.ProjectID)
	}); err != nil {
		return err
	}

	// the run row is finished even when the run budget is spent
	defer func() {
		sum.FinishedAt = s.now().UTC()
		sum.Status = domain.StatusOK
		if retErr != nil {
			sum.Status = domain.StatusError
			sum.Err = retErr.Error()
		}
		fin := context.WithoutCancel(ctx)
		if err := s.DB.Tx(fin, func(q repokit.Queryer) error {
			return s.Binder.Bind(q).FinishRun(fin, *sum)
		}); err != nil {
			logger.C(ctx).Error().Err(err).Msg("ingest: finish run failed")
			if retErr == nil {
				retErr = err
			}
		}
	}()

	if err := s.describe(runCtx, sum); err != nil {
		return err
	}

	if s.Cfg.SourceStrings {
		if err := s.reset(runCtx, domain.CollectionStrings); err != nil {
			return err
		}
		err := pump(runCtx, s, sum, domain.CollectionStrings, "", &sum.Strings,
			func(ctx context.Context, p crowdin.Page) ([]crowdin.SourceString, error) {
				return s.Source.ListProjectStrings(ctx, sum.ProjectID, p)
			},
			func(ctx context.Context, r domain.StorageRepo, items []crowdin.SourceString) (int, int, error) {
				return r.InsertStrings(ctx, domain.FromStrings(items))
			})
		if err != nil {
			return err
		}
	}

	if err := s.reset(runCtx, domain.CollectionTranslations); err != nil {
		return err
	}
	for _, lang := range sum.Languages {
		err := pump(runCtx, s, sum, domain.CollectionTranslations, lang, &sum.Translations,
			func(ctx context.Context, p crowdin.Page) ([]crowdin.LanguageTranslation, error) {
				return s.Source.ListLanguageTranslations(ctx, sum.ProjectID, lang, p)
			},
			func(ctx context.Context, r domain.StorageRepo, items []crowdin.LanguageTranslation) (int, int, error) {
				return r.InsertTranslations(ctx, domain.FromTranslations(lang, items))
			})
		if err != nil {
			return err
		}
	}

	if err := s.reset(runCtx, domain.CollectionApprovals); err != nil {
		return err
	}
	for _, lang := range sum.Languages {
		filter := crowdin.ApprovalFilter{LanguageID: lang, ExcludeLabelIDs: s.Cfg.ExcludeLabelIDs}
		err := pump(runCtx, s, sum, domain.CollectionApprovals, lang, &sum.Approvals,
			func(ctx context.Context, p crowdin.Page) ([]crowdin.Approval, error) {
				return s.Source.ListTranslationApprovals(ctx, sum.ProjectID, filter, p)
			},
			func(ctx context.Context, r domain.StorageRepo, items []crowdin.Approval) (int, int, error) {
				return r.InsertApprovals(ctx, domain.FromApprovals(lang, items))
			})
		if err != nil {
			return err
		}
	}

	logger.C(ctx).Info().
		Int("pages", sum.Pages).
		Int("strings", sum.Strings.Inserted).
		Int("translations", sum.Translations.Inserted).
		Int("approvals", sum.Approvals.Inserted).
		Int("deduped", sum.Deduped()).
		Msg("ingest: run complete")
	return nil
}

// describe logs the project and its labels so excluded label ids can be checked by eye
func (s *Service) describe(ctx context.Context, sum *domain.RunSummary) error {
	fctx, cancel := guardrails.ForFetch(ctx, s.Cfg.Timeouts)
	p, err := s.Source.GetProject(fctx, sum.ProjectID)
	cancel()
	if err != nil {
		return err
	}
	sum.Project = p.Name

	log := logger.C(ctx)
	log.Info().
		Int64("project_id", p.ID).
		Str("name", p.Name).
		Str("identifier", p.Identifier).
		Str("source_language", p.SourceLanguageID).
		Strs("target_languages", p.TargetLanguageIDs).
		Msg("ingest: project")
	for _, lang := range sum.Languages {
		if len(p.TargetLanguageIDs) > 0 && !slices.Contains(p.TargetLanguageIDs, lang) {
			log.Warn().Str("language", lang).Msg("ingest: language is not a project target")
		}
	}

	_, err = crowdin.Paginate(ctx, s.Cfg.PageLimit, s.Cfg.PageDelay,
		func(ctx context.Context, pg crowdin.Page) ([]crowdin.Label, error) {
			fctx, cancel := guardrails.ForFetch(ctx, s.Cfg.Timeouts)
			defer cancel()
			return s.Source.ListLabels(fctx, sum.ProjectID, pg)
		},
		func(labels []crowdin.Label, _ crowdin.Page) error {
			for _, l := range labels {
				log.Info().Int64("label_id", l.ID).Str("title", l.Title).Bool("system", l.IsSystem).Msg("ingest: label")
			}
			return nil
		})
	return err
}

func (s *Service) reset(ctx context.Context, c domain.Collection) error {
	if !s.Cfg.Reset {
		return nil
	}
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error { return s.Binder.Bind(q).Reset(ctx, c) })
	if err == nil {
		logger.C(ctx).Info().Str("collection", string(c)).Msg("ingest: collection reset")
	}
	return err
}

// pump pages one listing into storage, one transaction per page
func pump[T any](
	ctx context.Context,
	s *Service,
	sum *domain.RunSummary,
	c domain.Collection,
	lang string,
	into *domain.Counts,
	fetch func(context.Context, crowdin.Page) ([]T, error),
	write func(context.Context, domain.StorageRepo, []T) (int, int, error),
) error {
	_, err := crowdin.Paginate(ctx, s.Cfg.PageLimit, s.Cfg.PageDelay,
		func(ctx context.Context, p crowdin.Page) ([]T, error) {
			fctx, cancel := guardrails.ForFetch(ctx, s.Cfg.Timeouts)
			defer cancel()
			return fetch(fctx, p)
		},
		func(items []T, p crowdin.Page) error {
			ins, dd, err := s.writePage(ctx, func(ctx context.Context, r domain.StorageRepo) (int, int, error) {
				return write(ctx, r, items)
			})
			if err != nil {
				return err
			}
			into.Add(len(items), ins, dd)
			sum.Pages++

			log := logger.C(ctx)
			log.Info().
				Str("collection", string(c)).
				Str("language", lang).
				Int("offset", p.Offset).
				Int("fetched", len(items)).
				Int("inserted", ins).
				Msg("ingest: page stored")
			if dd > 0 {
				log.Debug().Str("collection", string(c)).Int("offset", p.Offset).Int("deduped", dd).Msg("ingest: duplicates skipped")
			}
			return nil
		})
	return err
}

// maxRetryWait caps the backoff between page write attempts
const maxRetryWait = 10 * time.Second

// writePage runs one page write in a tx, retrying transient failures with jittered backoff
// counts only come from the attempt that committed
func (s *Service) writePage(ctx context.Context, do func(context.Context, domain.StorageRepo) (int, int, error)) (int, int, error) {
	attempts := max(s.Cfg.MaxRetries, 1)
	base := s.Cfg.RetryBase
	if base <= 0 {
		base = 250 * time.Millisecond
	}

	var last error
	for i := range attempts {
		var ins, dd int
		dbCtx, cancel := guardrails.ForDB(ctx, s.Cfg.Timeouts)
		err := s.DB.Tx(dbCtx, func(q repokit.Queryer) error {
			var e error
			ins, dd, e = do(dbCtx, s.Binder.Bind(q))
			return e
		})
		cancel()
		if err == nil {
			return ins, dd, nil
		}
		last = err
		if !perr.Retryable(err) || i == attempts-1 {
			break
		}
		logger.C(ctx).Warn().Err(err).Int("attempt", i+1).Msg("ingest: page write failed, retrying")
		if se := s.sleep(ctx, ptime.Jitter(ptime.Backoff(base, maxRetryWait, i))); se != nil {
			return 0, 0, se
		}
	}
	return 0, 0, last
}
