package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"conflux/internal/modkit"
	"conflux/internal/modkit/module"
	"conflux/internal/modkit/repokit"
	"conflux/internal/platform/config"
	"conflux/internal/platform/logger"
	"conflux/internal/platform/store"
	ptime "conflux/internal/platform/time"

	"conflux/internal/services/reward/domain"
	rewardmod "conflux/internal/services/reward/module"
	"conflux/internal/services/reward/render"
)

func main() {
	if err := config.LoadDotenv(); err != nil {
		logger.Get().Panic().Err(err).Msg("dotenv")
	}

	var (
		fFormat    = flag.String("format", "text", "output format: "+strings.Join(render.Formats, " | "))
		fFrom      = flag.String("from", "", "exclusive lower bound RFC3339, overrides CORE_REWARD_WINDOW_FROM")
		fTo        = flag.String("to", "", "exclusive upper bound RFC3339, overrides CORE_REWARD_WINDOW_TO")
		fLanguages = flag.String("languages", "", "comma separated BCP 47 tags, overrides CORE_REWARD_LANGUAGES")
		fArchive   = flag.Bool("archive", false, "archive the report to clickhouse")
	)
	flag.Parse()

	root := config.New()
	l := logger.Get()

	in := domain.ReportInput{Archive: *fArchive}
	for _, b := range []struct {
		name string
		val  string
		dst  **time.Time
	}{{"-from", *fFrom, &in.From}, {"-to", *fTo, &in.To}} {
		t, err := ptime.ParseBound(b.val)
		if err != nil {
			l.Panic().Err(err).Msg("bad " + b.name)
		}
		*b.dst = t
	}
	for _, s := range strings.Split(*fLanguages, ",") {
		if s = strings.TrimSpace(s); s != "" {
			in.Languages = append(in.Languages, s)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.FromConf(root, "reward"), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	repokit.MustGuard(ctx, st)

	rm, err := rewardmod.New(modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		CH:  st.CH,
		Log: *l,
	})
	if err != nil {
		l.Panic().Err(err).Msg("reward module config")
	}

	rep, err := module.MustPortsOf[rewardmod.Ports](rm).Reports.Compute(ctx, in)
	if err != nil {
		l.Fatal().Err(err).Msg("reward report failed")
	}
	if err := render.Write(os.Stdout, *fFormat, rep); err != nil {
		l.Fatal().Err(err).Msg("render failed")
	}
}
