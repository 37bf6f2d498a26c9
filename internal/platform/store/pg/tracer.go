package pg

import (
	"context"
	"strings"

	"conflux/internal/platform/logger"

	"github.com/rs/zerolog"
)

// QueryEvent describes one finished statement
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

// Tracer logs every statement at info, slow ones at warn
// it pins its own level so LOG_SQL works under a quiet process logger
func Tracer(root logger.Logger) QueryTracer {
	return logTracer{log: root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()}
}

type logTracer struct{ log logger.Logger }

func (t logTracer) OnQuery(ctx context.Context, ev QueryEvent) {
	e := t.log.Info()
	if ev.Slow || ev.Err != nil {
		e = t.log.Warn()
	}
	if id := logger.RunID(ctx); id != "" {
		e = e.Str("run_id", id)
	}
	e.Float64("elapsed_ms", float64(ev.ElapsedUS)/1000).
		Bool("slow", ev.Slow).
		Str("sql", oneLine(ev.SQL)).
		Interface("args", ev.Args).
		Err(ev.Err).
		Msg("pg query")
}

// oneLine folds whitespace runs in multi line sql into single spaces
func oneLine(s string) string { return strings.Join(strings.Fields(s), " ") }
