// Package logger provides a simple logging interface for mavinspect
// components. It allows packages to log debug, info, warn, and error messages
// without being coupled to a specific logging implementation.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DebugEnv enables debug output for loggers created with NewEnvLogger.
const DebugEnv = "MAVINSPECT_DEBUG"

// Logger defines the interface for logging operations.
// All methods accept a format string and arguments, similar to fmt.Printf.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// Options configures a zap-backed logger.
type Options struct {
	// Output receives encoded entries. Nil means stderr.
	Output io.Writer
	// Debug lowers the level from info to debug.
	Debug bool
	// JSON selects the JSON encoder instead of the console one.
	JSON bool
	// Color enables coloured level names in console output.
	Color bool
	// Prefix is prepended to every message, e.g. "[ingest]".
	Prefix string
}

// ZapLogger implements Logger on top of a zap SugaredLogger.
type ZapLogger struct {
	sugar  *zap.SugaredLogger
	prefix string
}

// New creates a logger writing to opts.Output.
func New(opts Options) *ZapLogger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	if opts.Color {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	var enc zapcore.Encoder
	if opts.JSON {
		encCfg.EncodeLevel = zapcore.LowercaseLevelEncoder
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	level := zapcore.InfoLevel
	if opts.Debug {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(out)), level)
	return &ZapLogger{
		sugar:  zap.New(core).Sugar(),
		prefix: opts.Prefix,
	}
}

// NewEnvLogger creates a stderr logger that respects the MAVINSPECT_DEBUG
// environment variable. The prefix is prepended to all log messages (e.g.,
// "[ingest]" or "[engine]").
func NewEnvLogger(prefix string) Logger {
	return New(Options{
		Debug:  os.Getenv(DebugEnv) != "",
		Prefix: prefix,
	})
}

func (l *ZapLogger) format(format string) string {
	if l.prefix == "" {
		return format
	}
	return l.prefix + " " + format
}

func (l *ZapLogger) Debug(format string, args ...interface{}) {
	l.sugar.Debugf(l.format(format), args...)
}

func (l *ZapLogger) Info(format string, args ...interface{}) {
	l.sugar.Infof(l.format(format), args...)
}

func (l *ZapLogger) Warn(format string, args ...interface{}) {
	l.sugar.Warnf(l.format(format), args...)
}

func (l *ZapLogger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(l.format(format), args...)
}

// Named returns a logger sharing l's output with a different prefix.
func (l *ZapLogger) Named(prefix string) *ZapLogger {
	return &ZapLogger{sugar: l.sugar, prefix: prefix}
}

// Sync flushes buffered entries.
func (l *ZapLogger) Sync() error {
	return l.sugar.Sync()
}

// WithPrefix wraps any Logger so every message starts with prefix.
func WithPrefix(l Logger, prefix string) Logger {
	if z, ok := l.(*ZapLogger); ok {
		return z.Named(prefix)
	}
	return &prefixed{next: l, prefix: prefix}
}

type prefixed struct {
	next   Logger
	prefix string
}

func (p *prefixed) Debug(format string, args ...interface{}) {
	p.next.Debug(p.prefix+" "+format, args...)
}

func (p *prefixed) Info(format string, args ...interface{}) {
	p.next.Info(p.prefix+" "+format, args...)
}

func (p *prefixed) Warn(format string, args ...interface{}) {
	p.next.Warn(p.prefix+" "+format, args...)
}

func (p *prefixed) Error(format string, args ...interface{}) {
	p.next.Error(p.prefix+" "+format, args...)
}

// noopLogger implements Logger but discards all messages.
// Useful for testing or when logging is not desired.
type noopLogger struct{}

// Noop returns a logger that discards all messages.
func Noop() Logger {
	return &noopLogger{}
}

func (l *noopLogger) Debug(format string, args ...interface{}) {}
func (l *noopLogger) Info(format string, args ...interface{})  {}
func (l *noopLogger) Warn(format string, args ...interface{})  {}
func (l *noopLogger) Error(format string, args ...interface{}) {}

// LogMessage represents a captured log message.
type LogMessage struct {
	Level   string
	Message string
}

// BufferLogger captures log messages for testing. It is safe for concurrent
// use since background loops log from their own goroutines.
type BufferLogger struct {
	mu       sync.Mutex
	Messages []LogMessage
}

// NewBufferLogger creates a logger that captures messages for inspection.
// Useful for testing that code logs expected messages.
func NewBufferLogger() *BufferLogger {
	return &BufferLogger{
		Messages: make([]LogMessage, 0),
	}
}

func (l *BufferLogger) add(level, format string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = append(l.Messages, LogMessage{Level: level, Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Debug(format string, args ...interface{}) {
	l.add("debug", format, args)
}

func (l *BufferLogger) Info(format string, args ...interface{}) {
	l.add("info", format, args)
}

func (l *BufferLogger) Warn(format string, args ...interface{}) {
	l.add("warn", format, args)
}

func (l *BufferLogger) Error(format string, args ...interface{}) {
	l.add("error", format, args)
}

// HasLevel returns true if any message was logged at the given level.
func (l *BufferLogger) HasLevel(level string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.Messages {
		if m.Level == level {
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the captured messages.
func (l *BufferLogger) Snapshot() []LogMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]LogMessage(nil), l.Messages...)
}

// Clear removes all captured messages.
func (l *BufferLogger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = l.Messages[:0]
}

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger = NewEnvLogger("")
)

// Default returns the default logger for the package.
// This is an environment-based logger with no prefix.
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault sets the default logger for the package.
// This is useful for testing or to configure logging globally.
func SetDefault(l Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}
