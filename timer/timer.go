// Package timer provides a stopwatch for measuring named durations within a single invocation.
//
// Marks capture instants from the monotonic clock reading carried by time.Time,
// so measurements are not affected by wall clock adjustments. A Timer lives for
// one invocation and is never reused.
package timer

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/code19m/errx"
)

const (
	// CodeUnknownMark is returned when a measurement references a mark that was never recorded.
	CodeUnknownMark = "UNKNOWN_MARK"

	markStart = "start"
	markEnd   = "end"
)

// Option configures a Timer.
type Option func(*Timer)

// WithClock overrides the clock used for marks. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Timer) {
		t.now = now
	}
}

// Timer records named marks and measurements between them.
// Marks and measures share one namespace per Timer instance.
type Timer struct {
	mu       sync.Mutex
	now      func() time.Time
	marks    map[string]time.Time
	measures map[string]float64
}

// New creates an empty Timer.
func New(opts ...Option) *Timer {
	t := &Timer{
		now:      time.Now,
		marks:    make(map[string]time.Time),
		measures: make(map[string]float64),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Mark records the current instant under name, replacing any earlier mark with the same name.
func (t *Timer) Mark(name string) {
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	t.marks[name] = now
}

// Measure computes the time elapsed between startMark and endMark, or between
// startMark and now when endMark is omitted. The result is stored under name
// and returned in fractional milliseconds. Marks are left intact.
func (t *Timer) Measure(name, startMark string, endMark ...string) (float64, error) {
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	start, ok := t.marks[startMark]
	if !ok {
		return 0, unknownMark(startMark)
	}

	end := now
	if len(endMark) > 0 {
		end, ok = t.marks[endMark[0]]
		if !ok {
			return 0, unknownMark(endMark[0])
		}
	}

	d := Milliseconds(end.Sub(start))
	t.measures[name] = d

	return d, nil
}

// Measures returns a snapshot of all measurements recorded so far.
func (t *Timer) Measures() map[string]float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return maps.Clone(t.measures)
}

// Milliseconds converts d into fractional milliseconds: whole seconds scaled
// by 1e3 plus the remaining nanoseconds scaled by 1e-6.
func Milliseconds(d time.Duration) float64 {
	secs := d / time.Second
	nanos := d % time.Second
	return float64(secs)*1e3 + float64(nanos)/1e6
}

// ExecutionResult pairs a call's return value with its duration in milliseconds.
type ExecutionResult[R any] struct {
	Result        R
	ExecutionTime float64
}

// MeasureExecutionTime invokes fn and measures it end to end.
// A failing fn has its error returned unchanged and no timing is reported.
func MeasureExecutionTime[R any](
	ctx context.Context,
	fn func(context.Context) (R, error),
	opts ...Option,
) (ExecutionResult[R], error) {
	t := New(opts...)

	t.Mark(markStart)
	result, err := fn(ctx)
	t.Mark(markEnd)

	if err != nil {
		return ExecutionResult[R]{}, err
	}

	d, err := t.Measure("execution", markStart, markEnd)
	if err != nil {
		return ExecutionResult[R]{}, errx.Wrap(err)
	}

	return ExecutionResult[R]{Result: result, ExecutionTime: d}, nil
}

func unknownMark(name string) error {
	return errx.New(
		fmt.Sprintf("timer: mark %q was never recorded", name),
		errx.WithCode(CodeUnknownMark),
		errx.WithDetails(errx.D{"mark": name}),
	)
}
