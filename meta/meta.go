// Package meta provides functionality for carrying invocation metadata through context.
//
// Handlers receive the metadata of the current invocation in their context so
// that business logs written with logger.WithContext carry the same identity
// fields as the instrumentation records.
package meta

import (
	"context"
	"strconv"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/lambdakit/invocation"
)

const (
	// CodeMetaNotFound is returned when a metadata key is missing from the context.
	CodeMetaNotFound = "META_NOT_FOUND"
)

// ContextKey is a type for keys used in context values for metadata.
type ContextKey string

const (
	// RequestID is the platform-assigned identifier of the current invocation.
	RequestID ContextKey = "request_id"

	// FunctionName identifies the invoked function.
	FunctionName ContextKey = "function_name"

	// FunctionVersion indicates the version of the invoked function.
	FunctionVersion ContextKey = "function_version"

	// FunctionAlias is the alias the function was invoked through, if any.
	FunctionAlias ContextKey = "function_alias"

	// ColdStart is "true" for the first invocation served by the process.
	ColdStart ContextKey = "cold_start"
)

//nolint:gochecknoglobals // fixed lookup order for extraction
var allKeys = []ContextKey{
	RequestID,
	FunctionName,
	FunctionVersion,
	FunctionAlias,
	ColdStart,
}

// FromInvocation builds the metadata map for inv.
func FromInvocation(inv *invocation.Context) map[ContextKey]string {
	alias, _ := inv.Alias()
	return map[ContextKey]string{
		RequestID:       inv.AWSRequestID,
		FunctionName:    inv.FunctionName,
		FunctionVersion: inv.FunctionVersion,
		FunctionAlias:   alias,
		ColdStart:       strconv.FormatBool(inv.ColdStart),
	}
}

// InjectMetaToContext adds metadata from the provided map to the context.
// It only adds values that are not empty strings and returns a new context
// with the added values.
func InjectMetaToContext(ctx context.Context, data map[ContextKey]string) context.Context {
	for k, v := range data {
		if v != "" {
			ctx = context.WithValue(ctx, k, v) //nolint:fatcontext // allow due to finite number of keys
		}
	}
	return ctx
}

// ExtractMetaFromContext extracts all metadata from the provided context.
// Only non-empty string values of the predefined keys are included.
func ExtractMetaFromContext(ctx context.Context) map[ContextKey]string {
	data := make(map[ContextKey]string)
	for _, k := range allKeys {
		if v, ok := ctx.Value(k).(string); ok && v != "" {
			data[k] = v
		}
	}
	return data
}

// ShouldGetMeta returns the string stored under key, failing when the key is
// missing or holds a value of another type.
func ShouldGetMeta(ctx context.Context, key ContextKey) (string, error) {
	raw := ctx.Value(key)
	if raw == nil {
		return "", errx.New("meta: key not found in context",
			errx.WithCode(CodeMetaNotFound),
			errx.WithDetails(errx.D{"key": string(key)}),
		)
	}

	v, ok := raw.(string)
	if !ok {
		return "", errx.New("meta: type mismatch for context value",
			errx.WithCode(CodeMetaNotFound),
			errx.WithDetails(errx.D{"key": string(key)}),
		)
	}

	return v, nil
}
