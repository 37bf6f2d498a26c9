package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"conflux/internal/modkit"
	"conflux/internal/modkit/module"
	"conflux/internal/modkit/repokit"
	"conflux/internal/platform/config"
	"conflux/internal/platform/logger"
	"conflux/internal/platform/store"

	"conflux/internal/services/ingest/guardrails"
	ingestmod "conflux/internal/services/ingest/module"
)

func main() {
	if err := config.LoadDotenv(); err != nil {
		logger.Get().Panic().Err(err).Msg("dotenv")
	}
	root := config.New()
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.FromConf(root, "ingest"), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	repokit.MustGuard(ctx, st)

	deps := modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		CH:  st.CH,
		Log: *l,
	}

	im := ingestmod.New(deps)
	sum, err := module.MustPortsOf[ingestmod.Ports](im).Runner.Run(ctx)
	if errors.Is(err, guardrails.ErrLeaseHeld) {
		// another ingester has the project, nothing to do
		return
	}

	ev := l.Info()
	if err != nil {
		ev = l.Error().Err(err)
	}
	ev.Str("run_id", sum.RunID.String()).
		Int64("project_id", sum.ProjectID).
		Str("project", sum.Project).
		Strs("languages", sum.Languages).
		Str("status", sum.Status).
		Int("pages", sum.Pages).
		Int("strings", sum.Strings.Inserted).
		Int("translations", sum.Translations.Inserted).
		Int("approvals", sum.Approvals.Inserted).
		Int("deduped", sum.Deduped()).
		Dur("took", sum.FinishedAt.Sub(sum.StartedAt)).
		Msg("ingest finished")
	if err != nil {
		l.Fatal().Msg("ingest failed")
	}
}
