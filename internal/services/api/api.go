// Package api provides the HTTP API for the application
package api

import (
	"reviewflow/internal/platform/config"
	"reviewflow/internal/platform/logger"
	phttp "reviewflow/internal/platform/net/http"
	"reviewflow/internal/platform/store"

	"reviewflow/internal/modkit"
	"reviewflow/internal/modkit/httpkit"
	"reviewflow/internal/modkit/module"
	"reviewflow/internal/modkit/swaggerkit"

	metamod "reviewflow/internal/services/api/meta/module"
	moderationapi "reviewflow/internal/services/api/moderation/module"
	runstatsmod "reviewflow/internal/services/api/runstats/module"
	runstatsrepo "reviewflow/internal/services/api/runstats/repo"

	// Worker moderation module (owns the Query port)
	moderatemod "reviewflow/internal/services/moderate/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		CH:  opt.Store.CH,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	// construct the worker moderation module first and extract its Query port
	moderate := moderatemod.New(deps)
	query := module.MustPortsOf[moderatemod.Ports](moderate).Query

	// inject that port into the read API module
	moderationAPI := moderationapi.New(
		deps,
		modkit.WithPorts(moderationapi.Ports{
			Query: query,
		}),
	)

	mods := []module.Module{
		metamod.New(deps),
		moderate, // include the worker so its ports are registered
		moderationAPI,
	}

	// run stats need the analytics sink, mount only when clickhouse is open
	if opt.Store.CH != nil {
		table := opt.Config.MayString("ANALYTICS_TABLE", "stage_events")
		mods = append(mods, runstatsmod.New(
			deps,
			modkit.WithPorts(runstatsmod.Ports{
				Repo: runstatsrepo.NewCH(opt.Store.CH, table),
			}),
		))
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name
			module.Register(m.Name(), m.Ports())

			m.MountRoutes(api)
		}
	})
}
