// Package service implements the bounded job queue, the worker pool and per-job inference
package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"facegate/internal/adapters/embedder"
	perr "facegate/internal/platform/errors"
	"facegate/internal/platform/logger"
	iddom "facegate/internal/services/identity/domain"
	"facegate/internal/services/inference/domain"

	"github.com/google/uuid"
)

// Config controls the queue, pool and matcher
type Config struct {
	QueueCapacity int
	Workers       int
	// Threshold is used as given; zero is a valid threshold
	Threshold     float64
	EmbedTimeout  time.Duration
}

// Deps are the collaborators a worker needs
type Deps struct {
	Identity  iddom.Provider
	Frames    domain.FrameSaver
	Embedder  embedder.Embedder
	Publisher domain.Publisher
}

// Svc owns the queue and the worker pool
type Svc struct {
	cfg  Config
	deps Deps
	log  logger.Logger

	mu     sync.RWMutex
	queue  chan domain.Job
	closed bool

	accepted  atomic.Uint64
	processed atomic.Uint64
	dropped   atomic.Uint64
	failed    atomic.Uint64
	inflight  atomic.Int64

	now   func() time.Time
	newID func() string
}

// New constructs the service; workers start with Run
func New(cfg Config, deps Deps) *Svc {
	if cfg.QueueCapacity <= 0 {
		cfg.QueueCapacity = 20
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.EmbedTimeout <= 0 {
		cfg.EmbedTimeout = 30 * time.Second
	}
	if deps.Publisher == nil {
		deps.Publisher = domain.PublisherFunc(func(domain.Verdict) {})
	}
	return &Svc{
		cfg:   cfg,
		deps:  deps,
		log:   *logger.Named("inference"),
		queue: make(chan domain.Job, cfg.QueueCapacity),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Enqueue adds a job without blocking; a full queue is a QueueFull error
func (s *Svc) Enqueue(job domain.Job) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return perr.Unavailablef("inference: queue closed")
	}
	select {
	case s.queue <- job:
		s.accepted.Add(1)
		return nil
	default:
		s.dropped.Add(1)
		return perr.QueueFullf("inference: queue full (%d)", cap(s.queue))
	}
}

// Ingest stores the frame then queues it; the caller gets the receipt before inference runs
func (s *Svc) Ingest(ctx context.Context, raw []byte, sourceAddress string) (domain.Receipt, error) {
	if len(raw) == 0 {
		return domain.Receipt{}, perr.EmptyBodyf("empty body")
	}
	if s.deps.Frames == nil {
		return domain.Receipt{}, perr.Unavailablef("inference: no frame store configured")
	}
	name, path, err := s.deps.Frames.Save(raw)
	if err != nil {
		return domain.Receipt{}, err
	}
	job := domain.Job{
		ID:            s.newID(),
		ImagePath:     path,
		DisplayName:   name,
		SourceAddress: sourceAddress,
		EnqueuedAt:    s.now(),
	}
	if err := s.Enqueue(job); err != nil {
		logger.C(ctx).Warn().Err(err).Str("saved_as", name).Msg("frame stored but not queued")
		return domain.Receipt{}, err
	}
	logger.C(ctx).Debug().Str("job_id", job.ID).Str("saved_as", name).Int("bytes", len(raw)).Msg("frame queued")
	return domain.Receipt{OK: true, Accepted: true, SavedAs: name, JobID: job.ID}, nil
}

// Close stops accepting jobs; workers drain what is already queued until ctx ends
func (s *Svc) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.queue)
}

// Stats reports queue depth and counters
func (s *Svc) Stats() domain.Stats {
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	return domain.Stats{
		Depth:     len(s.queue),
		Capacity:  cap(s.queue),
		Workers:   s.cfg.Workers,
		InFlight:  s.inflight.Load(),
		Accepted:  s.accepted.Load(),
		Processed: s.processed.Load(),
		Dropped:   s.dropped.Load(),
		Failed:    s.failed.Load(),
		Closed:    closed,
	}
}
