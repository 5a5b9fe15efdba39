package wrapper

import (
	"context"
	"fmt"
	"runtime"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/lambdakit/handler"
	"github.com/rise-and-shine/lambdakit/invocation"
	"github.com/rise-and-shine/lambdakit/logger"
)

const (
	// CodePanicRecovered marks the error that replaces a recovered panic.
	CodePanicRecovered = "PANIC_RECOVERED"

	stackTraceSize = 4096 // 4KB
)

type RecoveryWrapper[E, R any] struct {
	logger logger.Logger
	next   handler.Handler[E, R]
}

// NewRecoveryWrapper converts a panic raised further down the chain into an
// error, so the outer layers observe it like any other handler failure.
func NewRecoveryWrapper[E, R any](log logger.Logger) handler.WrapFunc[E, R] {
	return func(next handler.Handler[E, R]) handler.Handler[E, R] {
		return &RecoveryWrapper[E, R]{
			logger: log.Named("wrapper.recovery"),
			next:   next,
		}
	}
}

func (w *RecoveryWrapper[E, R]) Handle(ctx context.Context, event E, inv *invocation.Context) (result R, err error) {
	if inv == nil {
		return w.next.Handle(ctx, event, inv)
	}

	defer func() {
		if r := recover(); r != nil {
			stackTrace := make([]byte, stackTraceSize)
			stackTrace = stackTrace[:runtime.Stack(stackTrace, false)]

			err = errx.New("panic recovered in recovery wrapper",
				errx.WithCode(CodePanicRecovered),
				errx.WithDetails(errx.D{
					"stack_trace":  string(stackTrace),
					"panic_values": fmt.Sprintf("%v", r),
				}),
			)

			logger.NewInvocationLogger(w.logger, inv, logger.Options{}).
				Error("recovered from panic", err, map[string]any{"panic": fmt.Sprintf("%v", r)})
		}
	}()

	return w.next.Handle(ctx, event, inv)
}
