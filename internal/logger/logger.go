package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

// New builds the process logger.
// Development: text at Debug. Production: JSON at Info.
// Errors are also forwarded to Sentry when a DSN is configured.
func New(isDev bool, sentryDSN string) *slog.Logger {
	return newWithWriter(os.Stdout, isDev, sentryDSN)
}

func newWithWriter(out io.Writer, isDev bool, sentryDSN string) *slog.Logger {
	handlers := []slog.Handler{baseHandler(out, isDev)}

	if sentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              sentryDSN,
			TracesSampleRate: 0.2,
		})
		if err == nil {
			handlers = append(handlers, slogsentry.Option{
				Level: slog.LevelError,
			}.NewSentryHandler())
		} else {
			slog.New(handlers[0]).Warn("sentry init failed", "error", err)
		}
	}

	if len(handlers) == 1 {
		return slog.New(handlers[0])
	}
	return slog.New(slogmulti.Fanout(handlers...))
}

func baseHandler(out io.Writer, isDev bool) slog.Handler {
	if isDev {
		return slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo})
}

// Init builds the process logger and installs it as the slog default.
func Init(isDev bool, sentryDSN string) *slog.Logger {
	log := New(isDev, sentryDSN)
	slog.SetDefault(log)
	return log
}
