// Package module wires the pipeline run stats API
package module

import (
	"net/http"

	modkit "reviewflow/internal/modkit"
	"reviewflow/internal/modkit/httpkit"
	str "reviewflow/internal/platform/strings"

	runhttp "reviewflow/internal/services/api/runstats/http"
	"reviewflow/internal/services/api/runstats/repo"
)

// Ports required by the run stats module
type Ports struct {
	Repo repo.Repo
}

// Module implements the modkit.Module interface
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler
	ports  Ports

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)
}

// New constructs the run stats module
// panics when the Repo port is missing, that is a wiring bug
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("runstats"),
		modkit.WithPrefix("/pipeline"),
	}, opts...)...)

	p, ok := b.Ports.(Ports)
	if !ok || p.Repo == nil {
		panic("runstats api module requires a Repo port")
	}

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		ports:     p,
		subrouter: b.Subrouter,
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		runhttp.Register(r, runhttp.Deps{Repo: p.Repo})
		if external != nil {
			external(r)
		}
	}

	return m
}

// MountRoutes implements the modkit.Module interface
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

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.name, "runstats") }

// Prefix implements the modkit.Module interface
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares implements the modkit.Module interface
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return m.ports }
