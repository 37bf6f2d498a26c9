// @title         Conflux API
// @version       0.1.0
// @description   Crowdin translation reward reports

package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"conflux/internal/modkit/repokit"
	"conflux/internal/platform/config"
	"conflux/internal/platform/logger"
	phttp "conflux/internal/platform/net/http"
	"conflux/internal/platform/store"

	"conflux/internal/services/api"
)

func main() {
	// a .env next to the binary fills anything the shell left unset
	if err := config.LoadDotenv(); err != nil {
		logger.Get().Panic().Err(err).Msg("dotenv")
	}

	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	// bring up logging early
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// postgres always, clickhouse when SERVICE_CLICKHOUSE_ENABLED
	st, err := store.Open(ctx, store.FromConf(root, "api"), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	repokit.MustGuard(ctx, st)

	// http server (reads CORE_API_PORT / CORE_API_ADDR)
	srv := phttp.NewServer(apiCfg)

	if err := api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Store:          st,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
			CORSOrigins:    apiCfg.MayCSV("CORS_ORIGINS", nil),
			SlowRequest:    apiCfg.MayDuration("SLOW_REQUEST", 2*time.Second),
		},
	); err != nil {
		l.Panic().Err(err).Msg("api.Mount failed")
	}

	if err := srv.Run(ctx); err != nil {
		l.Fatal().Err(err).Msg("http server stopped")
	}
}
