package main

import (
	"context"
	"flag"
	"os"
	"time"

	"facegate/internal/adapters/embedder"
	"facegate/internal/adapters/embedder/httpembed"
	"facegate/internal/modkit"
	"facegate/internal/platform/config"
	"facegate/internal/platform/logger"
	"facegate/internal/platform/store"

	iddom "facegate/internal/services/identity/domain"
	"facegate/internal/services/identity/enroll"
	identitymod "facegate/internal/services/identity/module"
	idrepo "facegate/internal/services/identity/repo"
	idservice "facegate/internal/services/identity/service"
)

func mustSetEnv(key, val string) {
	if val != "" {
		_ = os.Setenv(key, val)
	}
}

func main() {
	dir := flag.String("dir", "dataset/authorized", "directory of authorized face images (.jpg .jpeg .png)")
	out := flag.String("out", "", "identity file to write (overrides IDENTITY_PATH)")
	source := flag.String("source", "", "identity source: file or pg (overrides IDENTITY_SOURCE)")
	model := flag.String("model", "", "embedding model; must match the server (overrides IDENTITY_DEFAULT_MODEL)")
	detector := flag.String("detector", "", "face detector backend (overrides IDENTITY_DEFAULT_DETECTOR)")
	url := flag.String("embedder", "", "embedding provider base url (overrides EMBEDDER_URL)")
	timeout := flag.Duration("timeout", 60*time.Second, "per-image embedding timeout")
	flag.Parse()

	// flags win over env; every module below reads its options from config
	mustSetEnv("IDENTITY_PATH", *out)
	mustSetEnv("IDENTITY_SOURCE", *source)
	mustSetEnv("IDENTITY_DEFAULT_MODEL", *model)
	mustSetEnv("IDENTITY_DEFAULT_DETECTOR", *detector)
	mustSetEnv("EMBEDDER_URL", *url)

	logger.Init(logger.FromEnv())
	l := logger.Get()
	if err := run(context.Background(), *dir, *timeout); err != nil {
		l.Error().Err(err).Msg("enroll failed")
		os.Exit(1)
	}
}

// run enrolls the images in dir; deferred cleanup runs before main exits
func run(ctx context.Context, dir string, timeout time.Duration) error {
	root := config.New()
	l := logger.Get()

	opts := identitymod.FromConfig(root)
	deps := modkit.Deps{Log: *logger.Named("enroll"), Cfg: root}
	if opts.Source == identitymod.SourcePG {
		pgCfg := store.FromConfig(root.Prefix("SERVICE_PGSQL_"))
		pgCfg.PG.Enabled = true
		st, err := store.Open(ctx, pgCfg, store.WithLogger(*logger.Named("store")))
		if err != nil {
			return err
		}
		defer func() {
			if err := st.Close(); err != nil {
				l.Error().Err(err).Msg("failed to close store")
			}
		}()
		if err := st.Guard(ctx); err != nil {
			return err
		}
		if err := idrepo.Migrate(ctx, st.PG); err != nil {
			return err
		}
		deps.PG = st.PG
	}

	src, err := identitymod.NewSource(deps, opts)
	if err != nil {
		return err
	}
	svc := idservice.New(src, idservice.Options{
		DefaultModel:    opts.DefaultModel,
		DefaultDetector: opts.DefaultDetector,
		MinSamples:      opts.MinSamples,
	})

	ec := root.Prefix("EMBEDDER_")
	client := httpembed.NewClient(httpembed.Options{
		BaseURL:          ec.MayString("URL", ""),
		Timeout:          timeout,
		EnforceDetection: true,
		MaxRetries:       ec.MayInt("MAX_RETRIES", 2),
	})

	hint := embedder.Hint{Model: opts.DefaultModel, Detector: opts.DefaultDetector}
	rep, err := enroll.Collect(ctx, client, dir, hint)
	if err != nil {
		return err
	}

	rec, err := svc.Enroll(ctx, rep.Samples, iddom.Record{
		Engine:    iddom.DefaultEngine,
		ModelName: opts.DefaultModel,
		Detector:  opts.DefaultDetector,
	})
	if err != nil {
		l.Warn().Int("kept", rep.Kept()).Int("files", len(rep.Results)).
			Msg("not enough usable face images; add more (try 10-30) with clear faces")
		return err
	}
	l.Info().Str("source", src.Name()).Int("samples", rec.NumSamples).Int("dim", rec.EmbeddingDim).
		Str("model", rec.ModelName).Msg("identity saved")
	return nil
}
