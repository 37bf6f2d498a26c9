// Package api provides the HTTP API for the application
package api

import (
	"time"

	"conflux/internal/platform/config"
	"conflux/internal/platform/logger"
	phttp "conflux/internal/platform/net/http"
	"conflux/internal/platform/net/middleware"
	"conflux/internal/platform/store"

	"conflux/internal/modkit"
	"conflux/internal/modkit/httpkit"
	"conflux/internal/modkit/module"
	"conflux/internal/modkit/swaggerkit"

	metamod "conflux/internal/services/api/meta/module"
	rewardsapi "conflux/internal/services/api/rewards/module"

	// reward module owns the ReportPort
	rewardmod "conflux/internal/services/reward/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool

	// CORSOrigins is empty for any origin
	CORSOrigins []string
	// SlowRequest marks access log lines as warnings
	SlowRequest time.Duration
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) error {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		CH:  opt.Store.CH,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	// the reward module computes, the api module serves
	reward, err := rewardmod.New(deps)
	if err != nil {
		return err
	}
	rp := module.MustPortsOf[rewardmod.Ports](reward).Reports

	mods := []module.Module{
		metamod.New(deps),
		rewardsapi.New(deps, modkit.WithPorts(rewardsapi.Ports{Reports: rp})),
	}

	stack := httpkit.CommonStack(httpkit.StackOptions{
		CORS: middleware.CORSOptions{AllowedOrigins: opt.CORSOrigins},
		Slow: opt.SlowRequest,
	})

	swaggerkit.Mount(r, opt.EnableSwagger, swaggerkit.Options{})
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(api)
		}
	})
	return nil
}
