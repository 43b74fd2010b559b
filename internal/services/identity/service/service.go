// Package service holds the in-memory identity snapshot and its reload and enroll logic
package service

import (
	"context"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"facegate/internal/core/embedding"
	perr "facegate/internal/platform/errors"
	"facegate/internal/platform/logger"
	"facegate/internal/platform/net/http/bind"
	"facegate/internal/services/identity/domain"
)

// MinEnrollSamples is the fewest usable embeddings Enroll accepts
const MinEnrollSamples = 5

// Service exposes the identity snapshot operations
type Service interface {
	domain.Provider
	domain.ReloadPort
	domain.EnrollPort
	Load(ctx context.Context) (*domain.Snapshot, error)
}

// Options are the defaults applied to records that leave metadata blank
type Options struct {
	DefaultModel    string
	DefaultDetector string
	MinSamples      int
}

// Svc is the concrete identity service
type Svc struct {
	src  domain.Source
	opts Options
	cur  atomic.Pointer[domain.Snapshot]
	gen  atomic.Uint64
	now  func() time.Time
}

// New constructs the service; nothing is loaded until Reload is called
func New(src domain.Source, opts Options) *Svc {
	if opts.DefaultModel == "" {
		opts.DefaultModel = domain.DefaultModel
	}
	if opts.DefaultDetector == "" {
		opts.DefaultDetector = domain.DefaultDetector
	}
	if opts.MinSamples <= 0 {
		opts.MinSamples = MinEnrollSamples
	}
	return &Svc{src: src, opts: opts, now: time.Now}
}

// Current returns the active snapshot, nil before the first successful Reload
func (s *Svc) Current() *domain.Snapshot { return s.cur.Load() }

// Load reads and validates the record without publishing it
func (s *Svc) Load(ctx context.Context) (*domain.Snapshot, error) {
	rec, err := s.src.Load(ctx)
	if err != nil {
		return nil, perr.WithOp(asConfig(err, "identity: load"), "identity.Load")
	}
	snap, err := s.snapshot(rec)
	if err != nil {
		return nil, perr.WithOp(err, "identity.Load")
	}
	return snap, nil
}

// Reload loads the record and swaps it in; on error the previous snapshot stays active
func (s *Svc) Reload(ctx context.Context) (*domain.Snapshot, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		logger.C(ctx).Warn().Err(err).Str("source", s.src.Name()).Msg("identity reload failed; keeping previous snapshot")
		return nil, err
	}
	snap.Generation = s.gen.Add(1)
	s.cur.Store(snap)
	logger.C(ctx).Info().
		Str("source", snap.Source).
		Str("model", snap.ModelName).
		Str("detector", snap.DetectorName).
		Int("dim", snap.Dim).
		Int("samples", snap.SampleCount).
		Uint64("generation", snap.Generation).
		Msg("identity loaded")
	return snap, nil
}

// Enroll averages the sample embeddings into a record and saves it through the source
func (s *Svc) Enroll(ctx context.Context, samples [][]float64, meta domain.Record) (domain.Record, error) {
	if len(samples) < s.opts.MinSamples {
		return domain.Record{}, perr.InvalidArgf("identity: need at least %d samples, got %d", s.opts.MinSamples, len(samples))
	}
	centroid, err := embedding.Centroid(samples)
	if err != nil {
		return domain.Record{}, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "identity: build centroid")
	}
	rec := domain.Record{
		Engine:       meta.Engine,
		ModelName:    meta.ModelName,
		Detector:     meta.Detector,
		EmbeddingDim: len(centroid),
		NumSamples:   len(samples),
		Centroid:     centroid,
	}
	s.fillDefaults(&rec)
	if err := s.src.Save(ctx, rec); err != nil {
		return domain.Record{}, perr.WithOp(err, "identity.Enroll")
	}
	return rec, nil
}

func (s *Svc) fillDefaults(rec *domain.Record) {
	rec.Engine = strings.TrimSpace(rec.Engine)
	rec.ModelName = strings.TrimSpace(rec.ModelName)
	rec.Detector = strings.TrimSpace(rec.Detector)
	if rec.Engine == "" {
		rec.Engine = domain.DefaultEngine
	}
	if rec.ModelName == "" {
		rec.ModelName = s.opts.DefaultModel
	}
	if rec.Detector == "" {
		rec.Detector = s.opts.DefaultDetector
	}
}

func (s *Svc) snapshot(rec domain.Record) (*domain.Snapshot, error) {
	if err := bind.Struct(rec); err != nil {
		return nil, asConfig(err, "identity: invalid record")
	}
	for i, x := range rec.Centroid {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, perr.Configf("identity: centroid[%d] is not finite", i)
		}
	}
	dim := len(rec.Centroid)
	if rec.EmbeddingDim > 0 && rec.EmbeddingDim != dim {
		return nil, perr.Configf("identity: embedding_dim %d does not match centroid length %d", rec.EmbeddingDim, dim)
	}
	if embedding.Norm(rec.Centroid) == 0 {
		return nil, perr.Configf("identity: centroid has zero norm")
	}
	s.fillDefaults(&rec)
	return &domain.Snapshot{
		EngineID:     rec.Engine,
		ModelName:    rec.ModelName,
		DetectorName: rec.Detector,
		Dim:          dim,
		SampleCount:  rec.NumSamples,
		Centroid:     embedding.Normalize(rec.Centroid),
		Source:       s.src.Name(),
		LoadedAt:     s.now().UTC(),
	}, nil
}

// asConfig rewraps an error as a config error, keeping the message
func asConfig(err error, msg string) error {
	if perr.IsCode(err, perr.ErrorCodeConfig) {
		return err
	}
	return perr.Wrap(err, perr.ErrorCodeConfig, msg)
}
