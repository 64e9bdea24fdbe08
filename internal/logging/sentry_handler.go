package logging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/getsentry/sentry-go"
)

// SentryHandler is an slog.Handler that forwards ERROR+ records to Sentry.
type SentryHandler struct {
	hub   *sentry.Hub
	attrs []slog.Attr
	group string
}

// NewSentryHandler reports through hub, or the current hub when nil.
func NewSentryHandler(hub *sentry.Hub) *SentryHandler {
	return &SentryHandler{hub: hub}
}

// Enabled only handles ERROR and above.
func (h *SentryHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *SentryHandler) Handle(_ context.Context, record slog.Record) error {
	hub := h.hub
	if hub == nil {
		hub = sentry.CurrentHub()
	}

	event := sentry.NewEvent()
	event.Level = sentry.LevelError
	if record.Level > slog.LevelError {
		event.Level = sentry.LevelFatal
	}
	event.Message = record.Message
	event.Timestamp = record.Time
	event.Logger = "slog"

	add := func(a slog.Attr) {
		key := a.Key
		if h.group != "" {
			key = h.group + "." + key
		}
		switch key {
		case "session_id", "store", "request_id", "op":
			event.Tags[key] = a.Value.String()
		case "error":
			if err, ok := a.Value.Any().(error); ok {
				event.Exception = append(event.Exception, sentry.Exception{
					Type:  fmt.Sprintf("%T", err),
					Value: err.Error(),
				})
				return
			}
			event.Extra[key] = a.Value.String()
		default:
			event.Extra[key] = a.Value.Any()
		}
	}
	for _, a := range h.attrs {
		add(a)
	}
	record.Attrs(func(a slog.Attr) bool {
		add(a)
		return true
	})

	hub.CaptureEvent(event)
	return nil
}

func (h *SentryHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

func (h *SentryHandler) WithGroup(name string) slog.Handler {
	next := *h
	if next.group != "" {
		name = next.group + "." + name
	}
	next.group = name
	return &next
}
