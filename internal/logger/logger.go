package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
)

type contextKey struct{}

var loggerKey = contextKey{}

// Options controls how Initialize builds the default logger.
type Options struct {
	Debug   bool
	Verbose bool
	// Pretty selects the colored handler meant for local terminals.
	Pretty bool
	// SentryDSN enables forwarding of error records when set.
	SentryDSN   string
	Environment string
	Release     string
	Output      io.Writer
}

var sentryEnabled bool

func levelFor(opts Options) slog.Level {
	switch {
	case opts.Debug:
		return slog.LevelDebug
	case opts.Verbose:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

func Initialize(opts Options) error {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{
		Level:     levelFor(opts),
		AddSource: opts.Debug,
	}

	var handler slog.Handler
	if opts.Pretty {
		handler = NewPrettyHandler(out, handlerOpts)
	} else {
		handler = slog.NewTextHandler(out, handlerOpts)
	}

	sentryEnabled = false
	if opts.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         opts.SentryDSN,
			Environment: opts.Environment,
			Release:     opts.Release,
		})
		if err != nil {
			slog.SetDefault(slog.New(handler))
			return err
		}
		sentryEnabled = true
		handler = newSentryHandler(handler)
	}

	slog.SetDefault(slog.New(handler))
	return nil
}

// Flush waits for queued Sentry events. No-op when Sentry is disabled.
func Flush(timeout time.Duration) {
	if sentryEnabled {
		sentry.Flush(timeout)
	}
}

// NewRun returns a context whose logger tags every record with a fresh
// run_id, along with the id itself.
func NewRun(ctx context.Context) (context.Context, string) {
	id := uuid.NewString()
	return With(ctx, slog.String("run_id", id)), id
}

func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

func With(ctx context.Context, args ...any) context.Context {
	l := FromContext(ctx).With(args...)
	return WithLogger(ctx, l)
}

func Debug(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Debug(msg, args...)
}

func Info(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Info(msg, args...)
}

func Warn(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Warn(msg, args...)
}

func Error(ctx context.Context, msg string, err error, args ...any) {
	if err != nil {
		args = append(args, slog.Any("error", err))
	}
	FromContext(ctx).Error(msg, args...)
}
