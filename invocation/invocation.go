// Package invocation holds the per-invocation facts supplied by the host platform
// and the process-wide state shared between invocations of the same process.
//
// A Context is built once per invocation from the aws-lambda-go lambda context
// and is read-only afterwards. The cold start flag is consumed when the Context
// is built and carried on it, so every layer of an instrumentation chain sees
// the same value for the same invocation.
package invocation

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/aws/aws-lambda-go/lambdacontext"
)

// Context holds the immutable facts of one invocation.
type Context struct {
	FunctionName       string
	FunctionVersion    string
	MemoryLimitInMB    int
	AWSRequestID       string
	LogGroupName       string
	LogStreamName      string
	InvokedFunctionARN string
	Deadline           time.Time
	ColdStart          bool
}

// RemainingTime returns the time left before the host terminates the invocation.
// It is zero when no deadline is known or the deadline has passed.
func (c *Context) RemainingTime() time.Duration {
	if c.Deadline.IsZero() {
		return 0
	}
	return max(time.Until(c.Deadline), 0)
}

// RemainingTimeInMillis returns RemainingTime in whole milliseconds.
func (c *Context) RemainingTimeInMillis() int64 {
	return c.RemainingTime().Milliseconds()
}

// Alias returns the alias the function was invoked through, if any.
func (c *Context) Alias() (string, bool) {
	return AliasFromARN(c.InvokedFunctionARN)
}

// Tracker owns the process-wide cold start flag.
//
// The flag is true for the first read in the process lifetime only. Reads are a
// single atomic swap, so concurrent invocations cannot both observe a cold start.
type Tracker struct {
	warm atomic.Bool
}

// NewTracker returns a Tracker whose next read reports a cold start.
func NewTracker() *Tracker {
	return &Tracker{}
}

// IsColdStart reports whether this is the first read of the flag, clearing it.
func (t *Tracker) IsColdStart() bool {
	return !t.warm.Swap(true)
}

// FromContext builds the invocation Context from a lambda request context.
// It returns false when ctx does not carry a lambda context, i.e. the code is
// running outside a recognized invocation. The cold start flag is consumed
// only when a Context is built.
func (t *Tracker) FromContext(ctx context.Context) (*Context, bool) {
	lc, ok := lambdacontext.FromContext(ctx)
	if !ok || lc == nil {
		return nil, false
	}

	inv := &Context{
		FunctionName:       lambdacontext.FunctionName,
		FunctionVersion:    lambdacontext.FunctionVersion,
		MemoryLimitInMB:    lambdacontext.MemoryLimitInMB,
		AWSRequestID:       lc.AwsRequestID,
		LogGroupName:       lambdacontext.LogGroupName,
		LogStreamName:      lambdacontext.LogStreamName,
		InvokedFunctionARN: lc.InvokedFunctionArn,
	}
	if deadline, ok := ctx.Deadline(); ok {
		inv.Deadline = deadline
	}
	inv.ColdStart = t.IsColdStart()

	return inv, true
}

//nolint:gochecknoglobals // cold start is process-wide by definition
var defaultTracker = NewTracker()

// IsColdStart reads and clears the process-wide cold start flag.
func IsColdStart() bool {
	return defaultTracker.IsColdStart()
}

// FromContext builds the invocation Context using the process-wide Tracker.
func FromContext(ctx context.Context) (*Context, bool) {
	return defaultTracker.FromContext(ctx)
}
