package pg

import (
	"context"
	"strings"

	"facegate/internal/platform/logger"

	"github.com/rs/zerolog"
)

// QueryEvent is one traced statement
type QueryEvent struct {
	SQL       string
	Args      any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// QueryTracer receives an event per statement
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer returns a tracer that prints SQL whenever LogSQL is on, independent of the root level
func Tracer(root logger.Logger) QueryTracer {
	return &zlTracer{log: root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()}
}

type zlTracer struct{ log logger.Logger }

func (z *zlTracer) OnQuery(ctx context.Context, ev QueryEvent) {
	evt := z.log.Info()
	if ev.Err != nil || ev.Slow {
		evt = z.log.Warn()
	}
	evt.Ctx(ctx).
		Float64("elapsed_ms", float64(ev.ElapsedUS)/1000.0).
		Bool("slow", ev.Slow).
		Str("sql", compact(ev.SQL)).
		Err(ev.Err).
		Msg("pg query")
}

// compact collapses runs of whitespace so multi-line statements log on one line
func compact(s string) string { return strings.Join(strings.Fields(s), " ") }
