package pkg

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Component tags every record with the subsystem that emitted it.
type Component string

const (
	ComponentSplit    Component = "split"
	ComponentMerge    Component = "merge"
	ComponentReader   Component = "reader"
	ComponentWriter   Component = "writer"
	ComponentEndpoint Component = "endpoint"
	ComponentWorker   Component = "worker"
	ComponentCLI      Component = "cli"
)

// LogFormat selects the slog handler of the default logger.
type LogFormat int

const (
	LogFormatText LogFormat = iota
	LogFormatJSON
)

var (
	// DefaultLogger receives the records of every splitwork package.
	DefaultLogger *slog.Logger

	logLevel = new(slog.LevelVar)

	// logMutex guards DefaultLogger and the output settings below.
	logMutex  sync.RWMutex
	logOutput io.Writer = os.Stderr
	logFormat           = LogFormatText
)

func init() {
	logLevel.Set(slog.LevelWarn)
	DefaultLogger = slog.New(newHandler(logOutput, logFormat, nil))
}

// newHandler builds a handler for format. Nil opts share the package
// level.
func newHandler(w io.Writer, format LogFormat, opts *slog.HandlerOptions) slog.Handler {
	if opts == nil {
		opts = &slog.HandlerOptions{Level: logLevel}
	}
	if format == LogFormatJSON {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// NewLogger returns a text logger writing to w.
func NewLogger(w io.Writer, opts *slog.HandlerOptions) *slog.Logger {
	return slog.New(newHandler(w, LogFormatText, opts))
}

// NewJSONLogger returns a JSON logger writing to w.
func NewJSONLogger(w io.Writer, opts *slog.HandlerOptions) *slog.Logger {
	return slog.New(newHandler(w, LogFormatJSON, opts))
}

// Configure points the default logger at w in the given format. Attributes
// added with [With] are dropped.
func Configure(w io.Writer, format LogFormat) {
	logMutex.Lock()
	defer logMutex.Unlock()
	logOutput, logFormat = w, format
	DefaultLogger = slog.New(newHandler(w, format, nil))
}

// SetLogFormat switches the default logger's format, keeping its output.
func SetLogFormat(format LogFormat) {
	logMutex.RLock()
	w := logOutput
	logMutex.RUnlock()
	Configure(w, format)
}

func SetLogLevel(level slog.Level) { logLevel.Set(level) }

func GetLogLevel() slog.Level { return logLevel.Level() }

// SetLogger installs logger as the default logger as is.
func SetLogger(logger *slog.Logger) {
	logMutex.Lock()
	defer logMutex.Unlock()
	DefaultLogger = logger
}

// Logger returns the default logger.
func Logger() *slog.Logger {
	logMutex.RLock()
	defer logMutex.RUnlock()
	return DefaultLogger
}

// With adds attributes to every later record of the default logger, e.g.
// the id of one invocation.
func With(args ...any) {
	logMutex.Lock()
	defer logMutex.Unlock()
	DefaultLogger = DefaultLogger.With(args...)
}

func LogDebug(c Component, msg string, args ...any) { logAt(slog.LevelDebug, c, msg, args) }
func LogInfo(c Component, msg string, args ...any)  { logAt(slog.LevelInfo, c, msg, args) }
func LogWarn(c Component, msg string, args ...any)  { logAt(slog.LevelWarn, c, msg, args) }
func LogError(c Component, msg string, args ...any) { logAt(slog.LevelError, c, msg, args) }

// logAt emits msg at level with the component attribute first. Disabled
// levels return before the attribute slice is built.
func logAt(level slog.Level, c Component, msg string, args []any) {
	ctx := context.Background()
	l := Logger()
	if !l.Enabled(ctx, level) {
		return
	}
	l.Log(ctx, level, msg, append([]any{"component", string(c)}, args...)...)
}
