package logger

import (
	"fmt"
	"runtime"

	"github.com/code19m/errx"
)

const (
	// CodeUncaughtPanic marks a panic that reached the top of a captured goroutine.
	CodeUncaughtPanic = "UNCAUGHT_PANIC"

	// CodeUnhandledError marks an asynchronous error nobody waited for.
	CodeUnhandledError = "UNHANDLED_ERROR"

	stackTraceSize = 4096 // 4KB
)

// ErrorCaptureLogger routes faults that would otherwise escape a handler through
// the error channel of an InvocationLogger.
//
// Go has no process-wide hook for uncaught panics, so capture is opt-in: defer
// Recover at the top of a goroutine, start goroutines with Go, and hand
// fire-and-forget errors to Capture. Installing it twice for the same
// goroutine logs the fault twice; callers avoid that.
type ErrorCaptureLogger struct {
	*InvocationLogger
}

// NewErrorCaptureLogger wraps base.
func NewErrorCaptureLogger(base *InvocationLogger) *ErrorCaptureLogger {
	return &ErrorCaptureLogger{InvocationLogger: base}
}

// Recover logs a panic in progress and stops it. It must be deferred directly.
func (l *ErrorCaptureLogger) Recover() {
	r := recover()
	if r == nil {
		return
	}

	stackTrace := make([]byte, stackTraceSize)
	stackTrace = stackTrace[:runtime.Stack(stackTrace, false)]

	err := errx.New("uncaught panic", errx.WithCode(CodeUncaughtPanic), errx.WithDetails(errx.D{
		"stack_trace":  string(stackTrace),
		"panic_values": fmt.Sprintf("%v", r),
	}))

	l.Error("uncaught panic", err, map[string]any{"panic": fmt.Sprintf("%v", r)})
}

// Go runs fn in a new goroutine with Recover installed.
func (l *ErrorCaptureLogger) Go(fn func()) {
	go func() {
		defer l.Recover()
		fn()
	}()
}

// Capture logs an error produced by asynchronous work. A nil err is ignored.
func (l *ErrorCaptureLogger) Capture(err error) {
	if err == nil {
		return
	}
	l.Error("unhandled asynchronous error", errx.Wrap(err, errx.WithCode(CodeUnhandledError)), nil)
}
