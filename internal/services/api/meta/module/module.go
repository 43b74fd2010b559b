// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	modkit "facegate/internal/modkit"
	"facegate/internal/modkit/httpkit"
	str "facegate/internal/platform/strings"

	metahttp "facegate/internal/services/api/meta/http"
	iddom "facegate/internal/services/identity/domain"
)

// ServiceName is reported by /meta/health and /meta/version
const ServiceName = "facegate-api"

// Requires are the ports injected with modkit.WithPorts
type Requires struct {
	Identity iddom.Provider
}

// Module implements the modkit.Module interface
type Module struct {
	built     modkit.Built
	startedAt time.Time
}

// New constructs a meta module mounted under /meta
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	var req Requires
	if p, ok := b.Ports.(Requires); ok {
		req = p
	}

	m := &Module{startedAt: time.Now()}
	d := metahttp.Deps{
		ServiceName: ServiceName,
		StartedAt:   m.startedAt,
		Identity:    req.Identity,
	}
	if deps.HasPG() {
		d.PG = deps.PG
	}

	external := b.Register
	b.Register = func(r httpkit.Router) {
		metahttp.Register(r, d)
		external(r)
	}
	m.built = b
	return m
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) { m.built.Mount(r) }

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.Or(m.built.Name, "meta") }

// Prefix implements the modkit.Module interface
func (m *Module) Prefix() string { return str.MustPrefix(m.built.Prefix) }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
