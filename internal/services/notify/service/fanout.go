// Package service fans verdicts out to the receiver device and the alert dispatcher
package service

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	"facegate/internal/platform/logger"
	infdom "facegate/internal/services/inference/domain"
	"facegate/internal/services/notify/domain"
)

// Fanout publishes each verdict to every sink on its own goroutine.
// There is no ordering between sinks or between verdicts and no cancellation
type Fanout struct {
	sinks []domain.Sink
	log   logger.Logger
	wg    sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewFanout returns a fan-out over sinks; nil sinks are skipped
func NewFanout(sinks ...domain.Sink) *Fanout {
	f := &Fanout{log: *logger.Named("notify")}
	for _, s := range sinks {
		if s != nil {
			f.sinks = append(f.sinks, s)
		}
	}
	return f
}

// Sinks returns the configured sink names
func (f *Fanout) Sinks() []string {
	out := make([]string, 0, len(f.sinks))
	for _, s := range f.sinks {
		out = append(out, s.Name())
	}
	return out
}

// Publish returns immediately; each sink runs detached. Verdicts published after Close are dropped
func (f *Fanout) Publish(v infdom.Verdict) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		f.log.Warn().Str("job_id", v.JobID).Msg("fan-out closed; verdict dropped")
		return
	}
	f.wg.Add(len(f.sinks))
	f.mu.Unlock()
	for _, s := range f.sinks {
		go f.deliver(s, v)
	}
}

func (f *Fanout) deliver(s domain.Sink, v infdom.Verdict) {
	defer f.wg.Done()
	defer func() {
		if rec := recover(); rec != nil {
			f.log.Error().Str("sink", s.Name()).Interface("panic", rec).Bytes("stack", debug.Stack()).Msg("sink panicked")
		}
	}()
	start := time.Now()
	if err := s.Deliver(context.Background(), v); err != nil {
		f.log.Warn().Err(err).Str("sink", s.Name()).Str("job_id", v.JobID).Dur("took", time.Since(start)).Msg("notify failed")
		return
	}
	f.log.Debug().Str("sink", s.Name()).Str("job_id", v.JobID).Dur("took", time.Since(start)).Msg("notified")
}

// Close stops accepting verdicts, then blocks until in-flight deliveries finish or timeout passes.
// Safe to call more than once
func (f *Fanout) Close(timeout time.Duration) bool {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()

	done := make(chan struct{})
	go func() {
		f.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
