// Package domain defines verdict sinks for the notification fan-out
package domain

import (
	"context"

	infdom "facegate/internal/services/inference/domain"
)

// Sink delivers one verdict to one destination. Errors are logged by the fan-out, never retried
type Sink interface {
	Name() string
	Deliver(ctx context.Context, v infdom.Verdict) error
}

// SinkFunc adapts a function to Sink
type SinkFunc struct {
	ID string
	Fn func(ctx context.Context, v infdom.Verdict) error
}

// Name returns the sink id
func (s SinkFunc) Name() string { return s.ID }

// Deliver calls Fn
func (s SinkFunc) Deliver(ctx context.Context, v infdom.Verdict) error { return s.Fn(ctx, v) }
