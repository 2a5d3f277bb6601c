// Package logging builds the zap loggers used by the bindgen command.
package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the logger's encoding and level.
type Options struct {
	// JSON selects production JSON output instead of console lines.
	JSON bool

	// Verbosity is the count of -v flags: 0 shows warnings and errors,
	// 1 adds info, 2 and above add debug.
	Verbosity int

	// Output defaults to os.Stderr.
	Output io.Writer
}

// Level maps a verbosity count to a zap level.
func Level(verbosity int) zapcore.Level {
	switch {
	case verbosity <= 0:
		return zapcore.WarnLevel
	case verbosity == 1:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// New builds a logger for opts.
func New(opts Options) *zap.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	var enc zapcore.Encoder
	if opts.JSON {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(cfg)
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.TimeKey = ""
		cfg.CallerKey = ""
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(cfg)
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(out), Level(opts.Verbosity))
	return zap.New(core).Named("bindgen")
}
