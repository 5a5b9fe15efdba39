package logger

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rise-and-shine/lambdakit/invocation"
)

const (
	segmentSeparator = " | "
	fieldSeparator   = "; "
)

// InvocationLogger writes single-line records enriched with the facts of one invocation.
//
// It is created per invocation and never shared. Construction and emission
// never panic and never return errors.
type InvocationLogger struct {
	base      Logger
	inv       *invocation.Context
	defaults  Options
	minimal   invocation.MinimalInfo
	full      *invocation.Info
	logStream string
	now       func() time.Time
}

// NewInvocationLogger builds a logger for inv on top of base.
//
// The invocation facts are read once here, the full set when opts resolve to
// verbose. The display log stream, prefixed with the alias when the function
// was invoked through one, is recorded as the process-wide log stream setting.
func NewInvocationLogger(base Logger, inv *invocation.Context, opts Options) *InvocationLogger {
	if base == nil {
		base = NewNop()
	}
	if inv == nil {
		inv = &invocation.Context{}
	}

	l := &InvocationLogger{
		base:     base,
		inv:      inv,
		defaults: opts,
		minimal:  invocation.MinimalInfoOf(inv),
		now:      time.Now,
	}

	if opts.resolve().verbose {
		full := invocation.InfoOf(inv)
		l.full = &full
	}

	l.logStream = invocation.DisplayLogStream(inv)
	if l.logStream != "" {
		invocation.RouteLogStream(l.logStream)
	}

	return l
}

// Invocation returns the invocation this logger describes.
func (l *InvocationLogger) Invocation() *invocation.Context {
	return l.inv
}

// Base returns the underlying structured logger.
func (l *InvocationLogger) Base() Logger {
	return l.base
}

// LogStream returns the display log stream computed at construction.
func (l *InvocationLogger) LogStream() string {
	return l.logStream
}

// Debug writes a debug record.
func (l *InvocationLogger) Debug(msg string, data any, opts ...Options) {
	l.base.Debug(l.format(msg, data, nil, opts))
}

// Info writes an info record.
func (l *InvocationLogger) Info(msg string, data any, opts ...Options) {
	l.base.Info(l.format(msg, data, nil, opts))
}

// Warn writes a warn record.
func (l *InvocationLogger) Warn(msg string, data any, opts ...Options) {
	l.base.Warn(l.format(msg, data, nil, opts))
}

// Error writes an error record. A nil err omits the error segment.
func (l *InvocationLogger) Error(msg string, err error, data any, opts ...Options) {
	l.base.Error(l.format(msg, data, err, opts))
}

// Format renders the record that a call with the same arguments would write.
func (l *InvocationLogger) Format(msg string, data any, err error, opts ...Options) string {
	return l.format(msg, data, err, opts)
}

func (l *InvocationLogger) format(msg string, data any, err error, opts []Options) string {
	o := l.defaults.Merge(opts...).resolve()

	segments := []string{msg}

	if o.includeLambdaInfo {
		segments = append(segments, l.infoSegment(o.verbose))
	}

	if o.includeData && data != nil {
		segments = append(segments, "Data: "+l.dataSegment(data))
	}

	if err != nil {
		segments = append(segments, errorSegment(err))
	}

	line := strings.Join(segments, segmentSeparator)
	if o.includeTimestamp {
		line = "[" + l.now().UTC().Format(time.RFC3339Nano) + "] " + line
	}

	return line
}

func (l *InvocationLogger) infoSegment(verbose bool) string {
	m := l.minimal

	fields := []string{"Function: " + m.FunctionName}
	if m.Alias != "" {
		fields = append(fields, "Alias: "+m.Alias)
	}
	fields = append(fields,
		"Version: "+m.FunctionVersion,
		"RequestId: "+m.RequestID,
		"ColdStart: "+strconv.FormatBool(m.ColdStart),
	)

	if verbose {
		full := l.full
		if full == nil {
			info := invocation.InfoOf(l.inv)
			full = &info
		}
		fields = append(fields,
			fmt.Sprintf("MemoryLimit: %dMB", full.MemoryLimitInMB),
			fmt.Sprintf("MemoryUsed: %.2fMB", full.MemoryUsedInMB),
			"LogGroup: "+full.LogGroupName,
			"LogStream: "+l.logStream,
			fmt.Sprintf("RemainingTime: %dms", l.inv.RemainingTimeInMillis()),
			fmt.Sprintf("Platform: %s/%s", full.Platform, full.Arch),
		)
	}

	return strings.Join(fields, fieldSeparator)
}

func (l *InvocationLogger) dataSegment(data any) string {
	out, err := renderData(data)
	if err != nil {
		l.base.Named("logger.render").Debugf("%s: %v", CodeSerializationFailed, err)
		return UnserializablePlaceholder
	}
	return out
}

func errorSegment(err error) string {
	seg := "Error: " + errorKind(err) + ": " + err.Error()
	if trace := errorTrace(err); trace != "" {
		seg += "\n" + trace
	}
	return seg
}
