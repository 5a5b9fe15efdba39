package logger

import (
	"github.com/creasty/defaults"
	"github.com/samber/lo"
)

// Options control which segments an InvocationLogger record carries.
//
// A nil field is unset and inherits from the previous layer. Layers resolve in
// order: built-in defaults, logger construction options, call options.
type Options struct {
	// Verbose selects the full invocation facts instead of the identity only.
	Verbose *bool `yaml:"verbose" default:"false"`

	// IncludeLambdaInfo appends the invocation facts segment.
	IncludeLambdaInfo *bool `yaml:"include_lambda_info" default:"true"`

	// IncludeTimestamp prefixes the record with the current UTC time.
	IncludeTimestamp *bool `yaml:"include_timestamp" default:"false"`

	// IncludeData appends the JSON-rendered data payload.
	IncludeData *bool `yaml:"include_data" default:"true"`
}

// DefaultOptions returns the built-in option values with every field set.
func DefaultOptions() Options {
	var o Options
	if err := defaults.Set(&o); err != nil {
		return Options{
			Verbose:           lo.ToPtr(false),
			IncludeLambdaInfo: lo.ToPtr(true),
			IncludeTimestamp:  lo.ToPtr(false),
			IncludeData:       lo.ToPtr(true),
		}
	}
	return o
}

// Merge returns o with every field that is set in overrides replacing its own.
// Later overrides win.
func (o Options) Merge(overrides ...Options) Options {
	for _, over := range overrides {
		o.Verbose = lo.CoalesceOrEmpty(over.Verbose, o.Verbose)
		o.IncludeLambdaInfo = lo.CoalesceOrEmpty(over.IncludeLambdaInfo, o.IncludeLambdaInfo)
		o.IncludeTimestamp = lo.CoalesceOrEmpty(over.IncludeTimestamp, o.IncludeTimestamp)
		o.IncludeData = lo.CoalesceOrEmpty(over.IncludeData, o.IncludeData)
	}
	return o
}

// Bool is a convenience for building Options literals.
func Bool(v bool) *bool {
	return lo.ToPtr(v)
}

// resolved is Options with every field decided.
type resolved struct {
	verbose           bool
	includeLambdaInfo bool
	includeTimestamp  bool
	includeData       bool
}

func (o Options) resolve() resolved {
	full := DefaultOptions().Merge(o)
	return resolved{
		verbose:           lo.FromPtr(full.Verbose),
		includeLambdaInfo: lo.FromPtr(full.IncludeLambdaInfo),
		includeTimestamp:  lo.FromPtr(full.IncludeTimestamp),
		includeData:       lo.FromPtr(full.IncludeData),
	}
}
