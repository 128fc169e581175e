// Package module wires the moderation service module
package module

import (
	"reviewflow/internal/modkit"
	"reviewflow/internal/modkit/httpkit"
	"reviewflow/internal/services/moderate/domain"
	"reviewflow/internal/services/moderate/repo"
)

// Ports exposed by the moderation module
type Ports struct {
	Counter domain.CounterPort
	Query   domain.QueryPort
}

// Module implements the moderation service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the moderation module with the Postgres-backed counter
// callers that need another backend inject it with modkit.WithPorts
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("moderate"),
	}, opts...)...)

	m := &Module{deps: deps}
	if p, ok := b.Ports.(Ports); ok {
		m.ports = p
	} else {
		ctr := repo.NewCounter(deps.PG)
		m.ports = Ports{Counter: ctr, Query: ctr}
	}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "moderate" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module, the moderation worker has no routes
// of its own, the API surface lives in services/api
func (m *Module) MountRoutes(r httpkit.Router) {}
