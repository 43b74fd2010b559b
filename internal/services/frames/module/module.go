// Package module wires the frames store into the API using modkit
package module

import (
	modkit "facegate/internal/modkit"
	"facegate/internal/modkit/httpkit"
	str "facegate/internal/platform/strings"

	fhttp "facegate/internal/services/frames/http"
	"facegate/internal/services/frames/service"
)

// Module implements the frames module
type Module struct {
	built modkit.Built
	store *service.Store
}

// Ports exposes the store to inference and alerting
type Ports struct {
	Store *service.Store
}

// New creates the uploads directory and the module around it
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) (*Module, error) {
	o := FromConfig(deps.Cfg)
	if overrides.Dir != "" {
		o.Dir = overrides.Dir
	}
	if overrides.ListLimit > 0 {
		o.ListLimit = overrides.ListLimit
	}
	st, err := service.New(o.Dir)
	if err != nil {
		return nil, err
	}
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("frames"),
		modkit.WithPrefix(""),
	}, opts...)...)
	external := b.Register
	b.Register = func(r httpkit.Router) {
		fhttp.Register(r, st, o.ListLimit)
		external(r)
	}
	return &Module{built: b, store: st}, nil
}

// Store returns the uploads store
func (m *Module) Store() *service.Store { return m.store }

// MountRoutes mounts /latest.jpg and /files
func (m *Module) MountRoutes(r httpkit.Router) { m.built.Mount(r) }

// Name returns the module name
func (m *Module) Name() string { return str.Or(m.built.Name, "frames") }

// Ports returns the module ports
func (m *Module) Ports() any { return Ports{Store: m.store} }
