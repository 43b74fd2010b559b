package service

import (
	"context"
	"runtime/debug"
	"sync"

	"facegate/internal/platform/logger"
	"facegate/internal/services/inference/domain"
)

// Run starts the fixed pool and blocks until ctx is cancelled or the queue is closed and drained.
// Each worker finishes its current job before returning
func (s *Svc) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for i := 0; i < s.cfg.Workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			s.loop(ctx, id)
		}(i)
	}
	s.log.Info().Int("workers", s.cfg.Workers).Int("capacity", s.cfg.QueueCapacity).Msg("inference workers started")
	wg.Wait()
	s.log.Info().Msg("inference workers stopped")
	return ctx.Err()
}

func (s *Svc) loop(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-s.queue:
			if !ok {
				return
			}
			s.handle(ctx, id, job)
		}
	}
}

// handle runs one job; a panic is logged and counted and the worker keeps going
func (s *Svc) handle(ctx context.Context, worker int, job domain.Job) {
	s.inflight.Add(1)
	defer s.inflight.Add(-1)

	jctx := logger.WithJob(ctx, job.ID)
	defer func() {
		if rec := recover(); rec != nil {
			s.failed.Add(1)
			logger.C(jctx).Error().
				Interface("panic", rec).
				Int("worker", worker).
				Bytes("stack", debug.Stack()).
				Msg("inference job panicked")
		}
	}()

	v := s.Process(jctx, job)
	s.processed.Add(1)
	if v.Reason != domain.ReasonMatch && v.Reason != domain.ReasonNoMatch {
		s.failed.Add(1)
	}
	logVerdict(jctx, worker, v)
	s.deps.Publisher.Publish(v)
}

func logVerdict(ctx context.Context, worker int, v domain.Verdict) {
	ev := logger.C(ctx).Info().
		Int("worker", worker).
		Bool("authorized", v.Authorized).
		Float64("threshold", v.Threshold).
		Str("reason", v.Reason).
		Str("saved_as", v.SavedAs).
		Str("source_address", v.SourceAddress).
		Int64("elapsed_ms", v.ElapsedMS)
	if v.Confidence != nil {
		ev = ev.Float64("confidence", *v.Confidence)
	}
	ev.Msg("verdict")
}
