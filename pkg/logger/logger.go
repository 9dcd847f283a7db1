package logger

import (
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"

	"github.com/limbo/discipline/pkg/cleanup"
)

// FlushJobName names the cleanup job that drains buffered Sentry events.
const FlushJobName = "flushing sentry"

const sentryFlushTimeout = 2 * time.Second

// Init builds the process logger and makes it the slog default.
// Development gets a text handler, everything else JSON. With a Sentry DSN
// error records are additionally shipped to Sentry and flushed on cleanup.
// Call Init before registering other cleanup jobs so the flush runs last.
func Init(isDev bool, level, sentryDSN string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	var handlers []slog.Handler
	if isDev {
		handlers = append(handlers, slog.NewTextHandler(os.Stdout, opts))
	} else {
		handlers = append(handlers, slog.NewJSONHandler(os.Stdout, opts))
	}

	if sentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              sentryDSN,
			TracesSampleRate: 1.0,
		})
		if err == nil {
			handlers = append(handlers, slogsentry.Option{
				Level: slog.LevelError,
			}.NewSentryHandler())
			cleanup.Register(&cleanup.Job{
				Name: FlushJobName,
				F: func() error {
					if !sentry.Flush(sentryFlushTimeout) {
						return errors.New("sentry flush timed out")
					}
					return nil
				},
			})
		} else {
			slog.Warn("sentry init failed", slog.String("error", err.Error()))
		}
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = slogmulti.Fanout(handlers...)
	} else {
		handler = handlers[0]
	}

	l := slog.New(handler)
	slog.SetDefault(l)
	return l
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
