// Package logging builds the zap loggers used by the CLI and the scan engine.
package logging

import (
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// stackBufferSize bounds the stack captured for a recovered panic.
const stackBufferSize = 4096

// New returns a logger writing to stderr. format is "console" or "json";
// level is any zapcore level name ("debug", "info", "warn", ...).
func New(level, format string) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	switch format {
	case "", "console":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	case "json":
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	default:
		return nil, fmt.Errorf("invalid log format %q (want console or json)", format)
	}
	if level == "" {
		level = "warn"
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true

	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return l.Sugar(), nil
}

// Nop returns a logger that discards everything.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// RecoverInto must be deferred. It turns a panic into an error log entry with
// the stack attached and sets *panicked; with a nil logger the panic is
// written to stderr instead.
func RecoverInto(name string, logger *zap.SugaredLogger, panicked *bool) {
	if r := recover(); r != nil {
		if panicked != nil {
			*panicked = true
		}
		logPanic(name, r, logger)
	}
}

func logPanic(name string, r any, logger *zap.SugaredLogger) {
	buf := make([]byte, stackBufferSize)
	n := runtime.Stack(buf, false)
	if logger != nil {
		logger.Errorw("panic recovered",
			"task", name,
			"panic", r,
			"stack", string(buf[:n]))
		return
	}
	fmt.Fprintf(os.Stderr, "PANIC in %s (no logger): %v\n%s\n", name, r, string(buf[:n]))
}
