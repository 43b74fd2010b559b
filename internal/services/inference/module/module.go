// Package module wires the inference queue and worker pool and exposes its ports
package module

import (
	"context"

	"facegate/internal/adapters/embedder"
	"facegate/internal/adapters/embedder/httpembed"
	modkit "facegate/internal/modkit"
	"facegate/internal/modkit/httpkit"
	str "facegate/internal/platform/strings"
	iddom "facegate/internal/services/identity/domain"
	"facegate/internal/services/inference/domain"
	ihttp "facegate/internal/services/inference/http"
	"facegate/internal/services/inference/service"
)

// Requires are the ports injected with modkit.WithPorts
type Requires struct {
	Identity  iddom.Provider
	Frames    domain.FrameSaver
	Publisher domain.Publisher

	// Embedder overrides the HTTP provider client, mostly for tests
	Embedder embedder.Embedder
}

// Ports are what the module offers
type Ports struct {
	Worker   domain.WorkerPort
	Enqueuer domain.EnqueuePort
	Ingest   domain.IngestPort
}

// Module defines the inference module
type Module struct {
	deps  modkit.Deps
	built modkit.Built
	opts  Options
	svc   *service.Svc
	ports Ports
}

// New constructs the module; Identity and Frames are required ports
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) *Module {
	o := FromConfig(deps.Cfg).merge(overrides)

	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("inference"),
		modkit.WithPrefix(""),
	}, opts...)...)

	var req Requires
	if p, ok := b.Ports.(Requires); ok {
		req = p
	}
	if req.Identity == nil || req.Frames == nil {
		panic("inference module requires Identity and Frames ports")
	}
	emb := req.Embedder
	if emb == nil {
		emb = httpembed.NewClient(httpembed.Options{
			BaseURL:          o.EmbedderURL,
			Timeout:          o.EmbedderTimeout,
			EnforceDetection: o.EnforceDetection,
			MaxRetries:       o.EmbedderRetries,
		})
	}

	svc := service.New(service.Config{
		QueueCapacity: o.QueueCapacity,
		Workers:       o.Workers,
		Threshold:     o.Threshold,
		EmbedTimeout:  o.EmbedTimeout,
	}, service.Deps{
		Identity:  req.Identity,
		Frames:    req.Frames,
		Embedder:  emb,
		Publisher: req.Publisher,
	})

	m := &Module{deps: deps, opts: o, svc: svc}
	m.ports = Ports{Worker: svc, Enqueuer: svc, Ingest: svc}

	external := b.Register
	b.Register = func(r httpkit.Router) {
		ihttp.Register(r, svc)
		external(r)
	}
	m.built = b
	return m
}

// Run starts the worker pool and blocks until ctx ends
func (m *Module) Run(ctx context.Context) error { return m.svc.Run(ctx) }

// Close stops accepting new jobs
func (m *Module) Close() { m.svc.Close() }

// Threshold is the configured match threshold
func (m *Module) Threshold() float64 { return m.opts.Threshold }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return str.Or(m.built.Name, "inference") }

// MountRoutes mounts POST /infer and GET /stats
func (m *Module) MountRoutes(r httpkit.Router) { m.built.Mount(r) }
