// @title         facegate API
// @version       0.1.0
// @description   Frame intake, face verification verdicts and intruder alerts

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"facegate/internal/modkit/httpkit"
	"facegate/internal/modkit/repokit"
	"facegate/internal/platform/config"
	"facegate/internal/platform/logger"
	phttp "facegate/internal/platform/net/http"
	"facegate/internal/platform/store"
	str "facegate/internal/platform/strings"

	"facegate/internal/services/api"
	identitymod "facegate/internal/services/identity/module"
	idrepo "facegate/internal/services/identity/repo"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")

	// bring up logging early
	logger.Init(logger.FromEnv())
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// postgres is optional; it only backs the pg identity source
	st, err := store.Open(ctx, store.FromConfig(pgCfg), store.WithLogger(*logger.Named("store")))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	if st.PG != nil {
		repokit.MustGuard(ctx, st)
	}
	if st.PG != nil && identitymod.FromConfig(root).Source == identitymod.SourcePG {
		if err := idrepo.Migrate(ctx, st.PG); err != nil {
			l.Panic().Err(err).Msg("identity schema failed")
		}
	}

	// http server (reads CORE_API_PORT and timeouts)
	srv := phttp.NewServer(apiCfg)

	opt := api.Options{
		Config:         root,
		Store:          st,
		Logger:         l,
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
		Stack: httpkit.StackOptions{
			MaxBody:     int64(apiCfg.MayPositiveInt("MAX_BODY", 10<<20)),
			SlowRequest: apiCfg.MayDuration("SLOW_REQUEST", 2*time.Second),
			CORSOrigins: str.SplitCSV(apiCfg.MayString("CORS_ORIGINS", "*")),
		},
	}
	app, err := api.Mount(ctx, srv.Router(), opt)
	if err != nil {
		l.Panic().Err(err).Msg("api startup failed")
	}

	// workers outlive the signal context so queued jobs can drain after intake stops
	workCtx, cancelWork := context.WithCancel(context.Background())
	defer cancelWork()
	workersDone := make(chan struct{})
	go func() {
		defer close(workersDone)
		_ = app.Run(workCtx)
	}()

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Run(ctx) }()

	select {
	case err := <-serveErr:
		if err != nil {
			l.Error().Err(err).Msg("http server stopped")
		}
	case <-ctx.Done():
		l.Info().Msg("shutdown requested")
	}

	grace := apiCfg.MayDuration("SHUTDOWN_GRACE", 10*time.Second)
	sctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		l.Error().Err(err).Msg("http shutdown")
	}

	// stop intake, let workers drain, then give notifications a moment to land
	app.Inference.Close()
	select {
	case <-workersDone:
	case <-sctx.Done():
		l.Warn().Msg("workers did not drain before the grace period")
		cancelWork()
		<-workersDone
	}
	app.Notify.Close(apiCfg.MayDuration("NOTIFY_GRACE", 3*time.Second))
	l.Info().Msg("bye")
}
