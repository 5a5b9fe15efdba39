package logger

import (
	"os"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

//nolint:gochecknoglobals // palette is a static lookup shared across encoder instances.
var levelPalette = map[zapcore.Level]*color.Color{
	zapcore.DebugLevel: color.New(color.FgBlue),
	zapcore.InfoLevel:  color.New(color.FgGreen),
	zapcore.WarnLevel:  color.New(color.FgYellow),
	zapcore.ErrorLevel: color.New(color.FgRed),
	zapcore.FatalLevel: color.New(color.FgMagenta, color.Bold),
}

// consoleEncoder colors the message of each entry by its level.
// Color output is disabled automatically when stdout is not a terminal.
type consoleEncoder struct {
	zapcore.Encoder
}

// Clone ensures derived loggers keep the console encoder wrapper.
func (e *consoleEncoder) Clone() zapcore.Encoder {
	return &consoleEncoder{Encoder: e.Encoder.Clone()}
}

func (e *consoleEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	if c, ok := levelPalette[entry.Level]; ok {
		entry.Message = c.Sprint(entry.Message)
	}
	return e.Encoder.EncodeEntry(entry, fields)
}

func newConsoleLogger(cfg *zap.Config) *zap.Logger {
	enc := &consoleEncoder{Encoder: zapcore.NewConsoleEncoder(cfg.EncoderConfig)}
	core := zapcore.NewCore(enc, zapcore.AddSync(os.Stdout), cfg.Level)
	return zap.New(core, zap.ErrorOutput(zapcore.AddSync(os.Stderr)))
}
