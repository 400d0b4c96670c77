package affine

import (
	"context"
	"fmt"
	"log/slog"
)

// slogExpr wraps an Expr as a slog.LogValuer to not render expression strings
// unless they definitely need to be logged
func slogExpr(expr Expr) slog.LogValuer {
	return exprLogValuer{expr}
}

func slogMap(m Map) slog.LogValuer { return mapLogValuer{m} }

type exprLogValuer struct{ Expr }
type mapLogValuer struct{ Map }

func (l exprLogValuer) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("str", ExprString(l.Expr)),
		slog.String("hash", fmt.Sprintf("%x", l.Hash())),
		slog.String("kind", l.Kind().String()),
	)
}
func (l mapLogValuer) LogValue() slog.Value { return slog.StringValue(l.Map.String()) }

// LogHandler is a slog.Handler capable of lazy-printing expressions and maps
func LogHandler(underlying slog.Handler) slog.Handler {
	return &exprLogHandler{underlying: underlying}
}

type exprLogHandler struct {
	underlying slog.Handler
}

func wrapValue(v slog.Value) slog.Value {
	if v.Kind() != slog.KindAny {
		return v
	}
	switch value := v.Any().(type) {
	case Expr:
		return slog.AnyValue(slogExpr(value))
	case Map:
		return slog.AnyValue(slogMap(value))
	case AccessMap:
		return slog.AnyValue(slogMap(value.Map))
	}
	return v
}

func (l *exprLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return l.underlying.Enabled(ctx, level)
}

func (l *exprLogHandler) Handle(ctx context.Context, record slog.Record) error {
	newRecord := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	// for each attr, add it wrapped in slogExpr if it is an Any and then an Expr
	record.Attrs(func(attr slog.Attr) bool {
		attr.Value = wrapValue(attr.Value)
		newRecord.AddAttrs(attr)
		return true
	})
	return l.underlying.Handle(ctx, newRecord)
}

func (l *exprLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	wrapped := make([]slog.Attr, len(attrs))
	for i, attr := range attrs {
		attr.Value = wrapValue(attr.Value)
		wrapped[i] = attr
	}
	return LogHandler(l.underlying.WithAttrs(wrapped))
}

func (l *exprLogHandler) WithGroup(name string) slog.Handler {
	return LogHandler(l.underlying.WithGroup(name))
}
