// Package module wires the moderation read API
package module

import (
	"net/http"

	modkit "reviewflow/internal/modkit"
	"reviewflow/internal/modkit/httpkit"
	str "reviewflow/internal/platform/strings"

	modhttp "reviewflow/internal/services/api/moderation/http"
	"reviewflow/internal/services/moderate/domain"
)

// Ports required by the moderation API module
// the Query port is owned by the moderation worker module and injected here
type Ports struct {
	Query domain.QueryPort
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

// New constructs the moderation API module
// panics when the Query port is missing, that is a wiring bug
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("moderation"),
		modkit.WithPrefix("/moderation"),
	}, opts...)...)

	p, ok := b.Ports.(Ports)
	if !ok || p.Query == nil {
		panic("moderation api module requires a Query port")
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
		modhttp.Register(r, modhttp.Deps{Query: p.Query})
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
func (m *Module) Name() string { return str.MustString(m.name, "moderation") }

// Prefix implements the modkit.Module interface
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares implements the modkit.Module interface
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return m.ports }
