package logging

import (
	"context"
	"errors"
	"log/slog"
)

// MultiHandler fans a record out to every sink (console, session file,
// GELF). Sinks fail independently; one broken writer never silences the
// others.
type MultiHandler struct {
	sinks []slog.Handler
}

// NewMultiHandler builds a fan-out handler. Nil entries are dropped so
// callers can pass optional sinks unconditionally.
func NewMultiHandler(sinks ...slog.Handler) *MultiHandler {
	valid := make([]slog.Handler, 0, len(sinks))
	for _, h := range sinks {
		if h != nil {
			valid = append(valid, h)
		}
	}
	return &MultiHandler{sinks: valid}
}

// Enabled reports whether any sink wants records at this level.
func (m *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.sinks {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle delivers the record to every enabled sink and joins their
// errors.
func (m *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range m.sinks {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r.Clone()); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// WithAttrs applies the attributes to every sink.
func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sinks := make([]slog.Handler, len(m.sinks))
	for i, h := range m.sinks {
		sinks[i] = h.WithAttrs(attrs)
	}
	return &MultiHandler{sinks: sinks}
}

// WithGroup applies the group to every sink.
func (m *MultiHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return m
	}
	sinks := make([]slog.Handler, len(m.sinks))
	for i, h := range m.sinks {
		sinks[i] = h.WithGroup(name)
	}
	return &MultiHandler{sinks: sinks}
}
