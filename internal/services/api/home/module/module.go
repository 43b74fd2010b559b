// Package module mounts the root banner and ping routes
package module

import (
	modkit "facegate/internal/modkit"
	"facegate/internal/modkit/httpkit"
	str "facegate/internal/platform/strings"

	homehttp "facegate/internal/services/api/home/http"
)

// Status is the channel summary printed on the banner
type Status = homehttp.Status

// Module implements the modkit.Module interface
type Module struct {
	built modkit.Built
}

// New builds the home module; the channel status is passed with modkit.WithPorts(Status{...})
func New(_ modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("home"),
		modkit.WithPrefix(""),
	}, opts...)...)
	var s Status
	if p, ok := b.Ports.(Status); ok {
		s = p
	}
	external := b.Register
	b.Register = func(r httpkit.Router) {
		homehttp.Register(r, s)
		external(r)
	}
	return &Module{built: b}
}

// MountRoutes mounts GET / and GET /ping
func (m *Module) MountRoutes(r httpkit.Router) { m.built.Mount(r) }

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.Or(m.built.Name, "home") }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
