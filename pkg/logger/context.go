package logger

import (
	"context"
	"log/slog"
)

type ctxKey string

const (
	loggerKey ctxKey = "logger"
	fieldsKey ctxKey = "fields"
)

// With returns a new context that includes a logger with fields. Records
// logged through any *Context method with that context carry the fields too.
func With(ctx context.Context, fields ...any) context.Context {
	l := From(ctx).With(fields...)
	ctx = context.WithValue(ctx, fieldsKey, append(Fields(ctx), fields...))
	return context.WithValue(ctx, loggerKey, l)
}

// From returns the logger stored in context, or default if missing.
func From(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return LoggerWrapper()
	}
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return LoggerWrapper()
}

// Fields returns a copy of the key/value pairs attached by With.
func Fields(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	fs, _ := ctx.Value(fieldsKey).([]any)
	return append([]any(nil), fs...)
}

// contextHandler adds the request fields from ctx to every record.
type contextHandler struct {
	slog.Handler
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if fs := Fields(ctx); len(fs) > 0 {
		r.Add(fs...)
	}
	return h.Handler.Handle(ctx, r)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{h.Handler.WithAttrs(attrs)}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{h.Handler.WithGroup(name)}
}
