package logs

import (
	"context"
	"log/slog"
)

type unitKey struct{}

// WithUnit returns a context whose log records carry the compilation
// unit path.
func WithUnit(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, unitKey{}, path)
}

// Unit returns the compilation unit path stored in ctx.
func Unit(ctx context.Context) (string, bool) {
	path, ok := ctx.Value(unitKey{}).(string)
	return path, ok
}

type Handler struct {
	slog.Handler
}

func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	if path, ok := Unit(ctx); ok {
		record.Add("unit", path)
	}
	return h.Handler.Handle(ctx, record)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{Handler: h.Handler.WithGroup(name)}
}
