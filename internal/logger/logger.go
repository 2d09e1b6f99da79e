// Package logger wraps a process-wide slog logger. Attributes stored on a
// context with WithAttrs are added to every record logged through the
// *Context functions, which is how request and job ids reach the log lines of
// the layers below.
package logger

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu      sync.RWMutex
	current *slog.Logger
)

// Setup installs the process logger. When file is set, output is also written
// to a size-rotated file.
func Setup(level, format, file string) {
	var out io.Writer = os.Stdout
	if file != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   file,
			MaxSize:    100, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		})
	}

	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	var base slog.Handler
	if strings.EqualFold(format, "json") {
		base = slog.NewJSONHandler(out, opts)
	} else {
		base = slog.NewTextHandler(out, opts)
	}

	l := slog.New(contextHandler{base})
	mu.Lock()
	current = l
	mu.Unlock()
	slog.SetDefault(l)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func get() *slog.Logger {
	mu.RLock()
	l := current
	mu.RUnlock()
	if l == nil {
		Setup("info", "text", "")
		mu.RLock()
		l = current
		mu.RUnlock()
	}
	return l
}

// StdLogger adapts the process logger for APIs that want a *log.Logger, such
// as http.Server.ErrorLog.
func StdLogger(level slog.Level) *log.Logger {
	return slog.NewLogLogger(get().Handler(), level)
}

type ctxAttrsKey struct{}

// WithAttrs returns a context whose log records carry args as extra
// attributes, on top of any already attached.
func WithAttrs(ctx context.Context, args ...any) context.Context {
	prev, _ := ctx.Value(ctxAttrsKey{}).([]any)
	merged := make([]any, 0, len(prev)+len(args))
	merged = append(merged, prev...)
	merged = append(merged, args...)
	return context.WithValue(ctx, ctxAttrsKey{}, merged)
}

// contextHandler adds the attributes attached by WithAttrs.
type contextHandler struct {
	slog.Handler
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		if attrs, ok := ctx.Value(ctxAttrsKey{}).([]any); ok {
			r.Add(attrs...)
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{h.Handler.WithAttrs(attrs)}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{h.Handler.WithGroup(name)}
}

func Debug(msg string, args ...any) { get().Debug(msg, args...) }
func Info(msg string, args ...any)  { get().Info(msg, args...) }
func Warn(msg string, args ...any)  { get().Warn(msg, args...) }
func Error(msg string, args ...any) { get().Error(msg, args...) }

func InfoContext(ctx context.Context, msg string, args ...any) {
	get().InfoContext(ctx, msg, args...)
}

func WarnContext(ctx context.Context, msg string, args ...any) {
	get().WarnContext(ctx, msg, args...)
}

func ErrorContext(ctx context.Context, msg string, args ...any) {
	get().ErrorContext(ctx, msg, args...)
}

// trace logs a process-tracking event: method entry and exit, database and
// external calls. Failures go out at error level, everything else at debug.
func trace(msg string, err error, base []any, args []any) {
	all := make([]any, 0, len(base)+len(args)+2)
	all = append(all, base...)
	all = append(all, args...)
	if err != nil {
		get().Error(msg, append(all, "error", err)...)
		return
	}
	get().Debug(msg, all...)
}

func EnterMethod(method string, args ...any) {
	trace("→ enter", nil, []any{"method", method}, args)
}

func ExitMethod(method string, args ...any) {
	trace("← exit", nil, []any{"method", method}, args)
}

func ExitMethodWithError(method string, err error, args ...any) {
	trace("← exit with error", err, []any{"method", method}, args)
}

// DatabaseCall records a statement about to run against table.
func DatabaseCall(operation, table string, args ...any) {
	trace("→ db", nil, []any{"operation", operation, "table", table}, args)
}

func DatabaseResult(operation string, rows int64, err error, args ...any) {
	trace("← db", err, []any{"operation", operation, "rows", rows}, args)
}

// ExternalServiceCall records an outbound call to a provider such as SMTP or
// SendGrid.
func ExternalServiceCall(service, operation string, args ...any) {
	trace("→ external", nil, []any{"service", service, "operation", operation}, args)
}

func ExternalServiceResult(service, operation string, err error, args ...any) {
	trace("← external", err, []any{"service", service, "operation", operation}, args)
}
