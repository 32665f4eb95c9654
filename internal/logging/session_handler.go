package logging

import (
	"context"
	"log/slog"
)

// FieldSessionID identifies one process invocation across every record it emits.
const FieldSessionID = "session_id"

// stampHandler appends a fixed attribute to every record at Handle time.
type stampHandler struct {
	base  slog.Handler
	stamp slog.Attr
}

func newSessionIDHandler(base slog.Handler, sessionID string) slog.Handler {
	if base == nil {
		return NoopHandler{}
	}
	return &stampHandler{base: base, stamp: slog.String(FieldSessionID, sessionID)}
}

func (h *stampHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *stampHandler) Handle(ctx context.Context, record slog.Record) error {
	record.AddAttrs(h.stamp)
	return h.base.Handle(ctx, record)
}

func (h *stampHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &stampHandler{base: h.base.WithAttrs(attrs), stamp: h.stamp}
}

func (h *stampHandler) WithGroup(name string) slog.Handler {
	return &stampHandler{base: h.base.WithGroup(name), stamp: h.stamp}
}
