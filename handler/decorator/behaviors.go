package decorator

import (
	"context"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rise-and-shine/lambdakit/handler"
	"github.com/rise-and-shine/lambdakit/handler/wrapper"
	"github.com/rise-and-shine/lambdakit/invocation"
	"github.com/rise-and-shine/lambdakit/logger"
	"github.com/rise-and-shine/lambdakit/timer"
)

// WithLogging logs the start and outcome of each invocation of the target.
func WithLogging[E, R any](log logger.Logger, cfg wrapper.Config) Decorator[E, R] {
	return Decorate(wrapper.NewLoggerWrapper[E, R](log, cfg))
}

// WithErrorHandling answers failures of the target with the normalized 500
// response. Use it as the outermost decorator.
func WithErrorHandling[E any](log logger.Logger, opts logger.Options) Decorator[E, events.APIGatewayProxyResponse] {
	return Decorate(wrapper.NewErrorHandlerWrapper[E](log, opts))
}

// WithTiming logs how long the target took, tagged with the descriptor name.
// The result and error of the target are returned unchanged.
func WithTiming[E, R any](log logger.Logger, opts logger.Options) Decorator[E, R] {
	log = log.Named("decorator.timing")

	return func(d Descriptor[E, R]) Descriptor[E, R] {
		name := d.Name
		timed := Decorate[E, R](func(next handler.Handler[E, R]) handler.Handler[E, R] {
			return handler.HandlerFunc[E, R](func(ctx context.Context, event E, inv *invocation.Context) (R, error) {
				if inv == nil {
					return next.Handle(ctx, event, inv)
				}

				start := time.Now()
				result, err := next.Handle(ctx, event, inv)
				elapsed := time.Since(start)

				logger.NewInvocationLogger(log, inv, opts).Info(name+" execution time", map[string]any{
					"handler":     name,
					"duration_ms": timer.Milliseconds(elapsed),
				})

				return result, err
			})
		})
		return timed(d)
	}
}
