// Package module wires the identity store into the API using modkit
package module

import (
	"net/http"

	modkit "facegate/internal/modkit"
	"facegate/internal/modkit/httpkit"
	"facegate/internal/modkit/repokit"
	perr "facegate/internal/platform/errors"
	str "facegate/internal/platform/strings"

	"facegate/internal/services/identity/domain"
	idhttp "facegate/internal/services/identity/http"
	"facegate/internal/services/identity/repo"
	"facegate/internal/services/identity/service"
)

// Module implements the identity module; it mounts POST /reload_db at the root
type Module struct {
	deps  modkit.Deps
	built modkit.Built
	opts  Options
	svc   *service.Svc
	ports Ports
}

// New constructs the identity module. Options overrides win over IDENTITY_* env values
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) (*Module, error) {
	o := FromConfig(deps.Cfg).merge(overrides)
	src, err := NewSource(deps, o)
	if err != nil {
		return nil, err
	}
	svc := service.New(src, service.Options{
		DefaultModel:    o.DefaultModel,
		DefaultDetector: o.DefaultDetector,
		MinSamples:      o.MinSamples,
	})

	m := &Module{deps: deps, opts: o, svc: svc}
	m.ports = Ports{Provider: svc, Reloader: svc, Enroller: svc}

	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("identity"),
		modkit.WithPrefix(""),
	}, opts...)...)
	external := b.Register
	b.Register = func(r httpkit.Router) {
		idhttp.Register(r, svc)
		external(r)
	}
	m.built = b
	return m, nil
}

// NewSource picks the record source for o; the pg source needs deps.PG
func NewSource(deps modkit.Deps, o Options) (domain.Source, error) {
	switch o.Source {
	case SourcePG:
		if !deps.HasPG() {
			return nil, perr.Configf("identity: source pg requires SERVICE_PGSQL_ENABLED")
		}
		return repokit.MustBind(repo.NewPG(o.Name), deps.PG), nil
	case SourceFile, "":
		return repo.NewFile(o.Path), nil
	default:
		return nil, perr.Configf("identity: unknown source %q", o.Source)
	}
}

// Service exposes the underlying service for main and the enroll tool
func (m *Module) Service() *service.Svc { return m.svc }

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) { m.built.Mount(r) }

// Name returns the module name
func (m *Module) Name() string { return str.Or(m.built.Name, "identity") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return m.built.Prefix }

// Middlewares returns the per module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.built.Mw }
