// Package handler defines the typed invocation handler and the composition of
// instrumentation wrappers around it.
//
// A Handler receives the invocation facts as an explicit parameter. Wrappers are
// plain functions from Handler to Handler and are combined with Compose, where
// the first wrapper listed is the outermost at call time.
package handler

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rise-and-shine/lambdakit/invocation"
	"github.com/rise-and-shine/lambdakit/meta"
)

// Handler processes one invocation.
//
// inv is nil when the call does not come from a recognized invocation; wrappers
// then step aside and call the next handler directly.
type Handler[E, R any] interface {
	Handle(ctx context.Context, event E, inv *invocation.Context) (R, error)
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc[E, R any] func(ctx context.Context, event E, inv *invocation.Context) (R, error)

// Handle implements Handler.
func (f HandlerFunc[E, R]) Handle(ctx context.Context, event E, inv *invocation.Context) (R, error) {
	return f(ctx, event, inv)
}

// WrapFunc defines a middleware function for wrapping handlers.
type WrapFunc[E, R any] func(Handler[E, R]) Handler[E, R]

// Compose combines wrappers into one. The wrappers are applied right to left,
// so the first one listed is the outermost: it sees the call first and the
// outcome last. Compose(a, b)(h) behaves exactly like a(b(h)).
func Compose[E, R any](wraps ...WrapFunc[E, R]) WrapFunc[E, R] {
	return func(h Handler[E, R]) Handler[E, R] {
		for i := len(wraps) - 1; i >= 0; i-- {
			h = wraps[i](h)
		}
		return h
	}
}

// Chain applies wraps to h in Compose order.
func Chain[E, R any](h Handler[E, R], wraps ...WrapFunc[E, R]) Handler[E, R] {
	return Compose(wraps...)(h)
}

type adaptOptions struct {
	tracker *invocation.Tracker
}

// AdaptOption configures Adapt.
type AdaptOption func(*adaptOptions)

// WithTracker makes Adapt read the cold start flag from t instead of the process-wide tracker.
func WithTracker(t *invocation.Tracker) AdaptOption {
	return func(o *adaptOptions) {
		o.tracker = t
	}
}

// Adapt turns h into a function with the signature expected by the aws-lambda-go runtime.
//
// The invocation facts are built from the lambda context carried by ctx and
// injected as metadata for business logs. Outside a lambda context h receives
// a nil invocation.
func Adapt[E, R any](h Handler[E, R], opts ...AdaptOption) func(context.Context, E) (R, error) {
	o := adaptOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	return func(ctx context.Context, event E) (R, error) {
		var (
			inv *invocation.Context
			ok  bool
		)
		if o.tracker != nil {
			inv, ok = o.tracker.FromContext(ctx)
		} else {
			inv, ok = invocation.FromContext(ctx)
		}
		if !ok {
			return h.Handle(ctx, event, nil)
		}

		ctx = meta.InjectMetaToContext(ctx, meta.FromInvocation(inv))
		return h.Handle(ctx, event, inv)
	}
}

// Start hands h to the aws-lambda-go runtime. It blocks for the lifetime of the process.
func Start[E, R any](h Handler[E, R], opts ...AdaptOption) {
	lambda.Start(Adapt(h, opts...))
}
