package logger

import (
	"context"
	"errors"
	"log/slog"
	"runtime"

	"github.com/getsentry/sentry-go"
	domainErrors "github.com/thomas-vilte/jiralink/internal/errors"
)

// sentryHandler forwards error records to Sentry after the wrapped handler
// has written them.
type sentryHandler struct {
	slog.Handler
	attrs []slog.Attr
	hub   *sentry.Hub
}

func newSentryHandler(next slog.Handler) *sentryHandler {
	return &sentryHandler{Handler: next}
}

func (h *sentryHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.Handler.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level >= slog.LevelError {
		h.capture(r)
	}
	return nil
}

func (h *sentryHandler) capture(r slog.Record) {
	hub := h.hub
	if hub == nil {
		hub = sentry.CurrentHub()
	}

	event := sentry.NewEvent()
	event.Level = sentryLevel(r.Level)
	event.Message = r.Message
	event.Timestamp = r.Time

	var cause error
	collect := func(a slog.Attr) bool {
		if err, ok := a.Value.Any().(error); ok && a.Key == "error" {
			cause = err
			event.Extra[a.Key] = err.Error()
			return true
		}
		switch a.Key {
		case "run_id", "issue_key", "source":
			event.Tags[a.Key] = a.Value.String()
		default:
			event.Extra[a.Key] = a.Value.Any()
		}
		return true
	}
	for _, a := range h.attrs {
		collect(a)
	}
	r.Attrs(collect)

	if cause != nil {
		event.Exception = []sentry.Exception{{
			Type:  errorType(cause),
			Value: cause.Error(),
		}}
	}

	if r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		st := &sentry.Stacktrace{Frames: []sentry.Frame{{
			Filename: frame.File,
			Function: frame.Function,
			Lineno:   frame.Line,
		}}}
		if len(event.Exception) == 0 {
			event.Exception = []sentry.Exception{{Type: "LogError", Value: r.Message}}
		}
		event.Exception[0].Stacktrace = st
	}

	hub.CaptureEvent(event)
}

func (h *sentryHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &sentryHandler{Handler: h.Handler.WithAttrs(attrs), attrs: merged, hub: h.hub}
}

func (h *sentryHandler) WithGroup(name string) slog.Handler {
	return &sentryHandler{Handler: h.Handler.WithGroup(name), attrs: h.attrs, hub: h.hub}
}

func errorType(err error) string {
	var appErr *domainErrors.AppError
	if errors.As(err, &appErr) {
		return string(appErr.Type)
	}
	return "error"
}

func sentryLevel(level slog.Level) sentry.Level {
	switch {
	case level >= slog.LevelError:
		return sentry.LevelError
	case level >= slog.LevelWarn:
		return sentry.LevelWarning
	case level >= slog.LevelInfo:
		return sentry.LevelInfo
	default:
		return sentry.LevelDebug
	}
}
