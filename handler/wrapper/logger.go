package wrapper

import (
	"context"

	"github.com/rise-and-shine/lambdakit/handler"
	"github.com/rise-and-shine/lambdakit/invocation"
	"github.com/rise-and-shine/lambdakit/logger"
	"github.com/rise-and-shine/lambdakit/mask"
	"github.com/rise-and-shine/lambdakit/timer"
)

const (
	msgStarted   = "invocation started"
	msgCompleted = "invocation completed"
	msgFailed    = "invocation failed"
)

type LoggerWrapper[E, R any] struct {
	logger logger.Logger
	cfg    Config
	next   handler.Handler[E, R]
}

// NewLoggerWrapper logs the start and the outcome of every invocation.
// Errors are logged and returned unchanged.
func NewLoggerWrapper[E, R any](log logger.Logger, cfg Config) handler.WrapFunc[E, R] {
	return func(next handler.Handler[E, R]) handler.Handler[E, R] {
		return &LoggerWrapper[E, R]{
			logger: log.Named("wrapper.logger"),
			cfg:    cfg,
			next:   next,
		}
	}
}

func (w *LoggerWrapper[E, R]) Handle(ctx context.Context, event E, inv *invocation.Context) (R, error) {
	if inv == nil {
		return w.next.Handle(ctx, event, inv)
	}

	log := logger.NewInvocationLogger(w.logger, inv, w.cfg.Log)

	started := map[string]any{"cold_start": inv.ColdStart}
	if w.cfg.Development {
		started["event"] = mask.Event(event)
	}
	log.Info(msgStarted, started)

	var result R
	measured, err := timer.MeasureExecutionTime(ctx, func(ctx context.Context) (R, error) {
		var callErr error
		result, callErr = w.next.Handle(ctx, event, inv)
		return result, callErr
	})
	if err != nil {
		log.Error(msgFailed, err, nil)
		return result, err
	}

	log.Info(msgCompleted, map[string]any{
		"duration_ms":    measured.ExecutionTime,
		"memory_used_mb": invocation.MemoryUsage().SysMB,
	})

	return measured.Result, nil
}
