// Package decorator is the descriptor-based form of handler composition.
//
// A Descriptor names a handler and carries metadata alongside it. Decorators
// replace the handler of a descriptor while copying its metadata, so
// annotations attached before decoration survive any number of layers.
package decorator

import (
	"context"
	"maps"

	"github.com/rise-and-shine/lambdakit/handler"
	"github.com/rise-and-shine/lambdakit/invocation"
	"github.com/samber/lo"
)

// Descriptor is a named handler with its metadata side-table.
type Descriptor[E, R any] struct {
	Name     string
	Handler  handler.Handler[E, R]
	Metadata map[string]any
}

// New describes h under name with empty metadata.
func New[E, R any](name string, h handler.Handler[E, R]) Descriptor[E, R] {
	return Descriptor[E, R]{
		Name:     name,
		Handler:  h,
		Metadata: map[string]any{},
	}
}

// Handle calls the described handler.
func (d Descriptor[E, R]) Handle(ctx context.Context, event E, inv *invocation.Context) (R, error) {
	return d.Handler.Handle(ctx, event, inv)
}

// Annotate returns a copy of d with key set to value.
func Annotate[E, R any](d Descriptor[E, R], key string, value any) Descriptor[E, R] {
	d.Metadata = lo.Assign(d.Metadata, map[string]any{key: value})
	return d
}

// Annotation looks up key in the metadata of d.
func Annotation[E, R any](d Descriptor[E, R], key string) (any, bool) {
	v, ok := d.Metadata[key]
	return v, ok
}

// Decorator replaces the handler of a descriptor, keeping its name and metadata.
type Decorator[E, R any] func(Descriptor[E, R]) Descriptor[E, R]

// Decorate lifts a middleware into a Decorator.
func Decorate[E, R any](wrap handler.WrapFunc[E, R]) Decorator[E, R] {
	return func(d Descriptor[E, R]) Descriptor[E, R] {
		return Descriptor[E, R]{
			Name:     d.Name,
			Handler:  wrap(d.Handler),
			Metadata: maps.Clone(d.Metadata),
		}
	}
}

// ComposeDecorators applies decs to target. The first decorator listed is the
// outermost at call time, matching handler.Compose. The result carries the
// union of the metadata seen at every step; later steps win on key conflicts.
func ComposeDecorators[E, R any](target Descriptor[E, R], decs ...Decorator[E, R]) Descriptor[E, R] {
	acc := maps.Clone(target.Metadata)
	if acc == nil {
		acc = map[string]any{}
	}

	d := target
	for i := len(decs) - 1; i >= 0; i-- {
		d = decs[i](d)
		acc = lo.Assign(acc, d.Metadata)
		d.Metadata = maps.Clone(acc)
	}

	d.Metadata = acc
	return d
}
