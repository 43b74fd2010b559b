// Package api composes the facegate modules and mounts them on the HTTP router
package api

import (
	"context"
	"time"

	"facegate/internal/adapters/embedder"
	"facegate/internal/platform/config"
	perr "facegate/internal/platform/errors"
	"facegate/internal/platform/logger"
	phttp "facegate/internal/platform/net/http"
	"facegate/internal/platform/store"

	"facegate/internal/modkit"
	"facegate/internal/modkit/httpkit"
	"facegate/internal/modkit/module"
	"facegate/internal/modkit/swaggerkit"

	alertdom "facegate/internal/services/alert/domain"
	alertmod "facegate/internal/services/alert/module"
	homemod "facegate/internal/services/api/home/module"
	metamod "facegate/internal/services/api/meta/module"
	framesmod "facegate/internal/services/frames/module"
	identitymod "facegate/internal/services/identity/module"
	infdom "facegate/internal/services/inference/domain"
	inferencemod "facegate/internal/services/inference/module"
	notifydom "facegate/internal/services/notify/domain"
	notifymod "facegate/internal/services/notify/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
	Stack          httpkit.StackOptions

	// Embedder replaces the HTTP embedding client, used by tests
	Embedder embedder.Embedder
}

// App holds the composed modules so main can run workers and shut them down
type App struct {
	Identity  *identitymod.Module
	Frames    *framesmod.Module
	Alert     *alertmod.Module
	Notify    *notifymod.Module
	Inference *inferencemod.Module

	mods []module.Module
}

// Build constructs every module and loads the identity. A load failure is returned
// so main can stop before serving
func Build(ctx context.Context, opt Options) (*App, error) {
	log := opt.Logger
	if log == nil {
		log = logger.Named("api")
	}
	deps := modkit.Deps{Log: *log, Cfg: opt.Config}
	if opt.Store != nil && opt.Store.PG != nil {
		deps.PG = opt.Store.PG
	}

	idm, err := identitymod.New(deps, identitymod.Options{})
	if err != nil {
		return nil, perr.WithOp(err, "api.Build")
	}
	snap, err := idm.Service().Reload(ctx)
	if err != nil {
		return nil, perr.WithOp(err, "api.Build")
	}
	log.Info().Str("model", snap.ModelName).Str("detector", snap.DetectorName).
		Int("dim", snap.Dim).Int("samples", snap.SampleCount).Str("source", snap.Source).Msg("identity loaded")

	fm, err := framesmod.New(deps, framesmod.Options{})
	if err != nil {
		return nil, perr.WithOp(err, "api.Build")
	}
	frames := fm.Store()

	// the alert route reports the same threshold the workers use
	threshold := inferencemod.FromConfig(deps.Cfg).Threshold

	am := alertmod.New(deps, modkit.WithPorts(alertmod.Requires{
		Frames:    frames,
		Threshold: threshold,
	}))

	nm := notifymod.New(deps, notifymod.Options{}, AlertSink(am))

	im := inferencemod.New(deps, inferencemod.Options{}, modkit.WithPorts(inferencemod.Requires{
		Identity:  idm.Service(),
		Frames:    frames,
		Publisher: nm.Fanout(),
		Embedder:  opt.Embedder,
	}))

	home := homemod.New(deps, modkit.WithPorts(homemod.Status{
		Receiver: nm.ReceiverEnabled(),
		Telegram: am.TelegramEnabled(),
		Email:    am.MailEnabled(),
		Queue:    module.MustPortsOf[inferencemod.Ports](im).Ingest,
	}))
	meta := metamod.New(deps, modkit.WithPorts(metamod.Requires{Identity: idm.Service()}))

	return &App{
		Identity:  idm,
		Frames:    fm,
		Alert:     am,
		Notify:    nm,
		Inference: im,
		mods:      []module.Module{home, meta, idm, fm, im, am, nm},
	}, nil
}

// AlertSink routes verdicts from the fan-out to the alert dispatcher.
// The fan-out already runs each sink detached, so Dispatch runs inline here
func AlertSink(am *alertmod.Module) notifydom.Sink {
	disp := am.Dispatcher()
	return notifydom.SinkFunc{
		ID: "alert",
		Fn: func(ctx context.Context, v infdom.Verdict) error {
			if out := disp.Dispatch(ctx, v); out == alertdom.OutcomeFailed {
				return perr.Upstreamf("alert: no channel delivered (reason=%s)", v.Reason)
			}
			return nil
		},
	}
}

// Mount registers module ports and mounts all routes under the common middleware stack
func (a *App) Mount(r phttp.Router, opt Options) {
	r.Group(func(api httpkit.Router) {
		api.Use(httpkit.CommonStack(opt.Stack)...)

		// Swagger + profiler
		swaggerkit.Mount(api, opt.EnableSwagger)
		phttp.MountProfiler(api, "/debug", opt.EnableProfiler)

		for _, m := range a.mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})
}

// Run starts the inference workers and blocks until ctx ends
func (a *App) Run(ctx context.Context) error { return a.Inference.Run(ctx) }

// Close stops intake and gives in-flight notifications up to wait to finish
func (a *App) Close(wait time.Duration) {
	a.Inference.Close()
	a.Notify.Close(wait)
}

// Mount builds the app and mounts it in one step
func Mount(ctx context.Context, r phttp.Router, opt Options) (*App, error) {
	app, err := Build(ctx, opt)
	if err != nil {
		return nil, err
	}
	app.Mount(r, opt)
	return app, nil
}
