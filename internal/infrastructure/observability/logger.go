package observability

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// InitLogger initializes the global zerolog logger. Development gets a
// console writer, every other env gets JSON lines on stdout. An unknown
// level falls back to info.
func InitLogger(serviceName, env, level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	var out io.Writer = os.Stdout
	if env == "development" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(out).With().Timestamp().Str("service", serviceName)
	if env != "development" {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger()
}

// LoggerFromContext returns the logger attached to ctx, or the global one,
// enriched with trace context
func LoggerFromContext(ctx context.Context) *zerolog.Logger {
	logger := log.With().Logger()
	if scoped := zerolog.Ctx(ctx); scoped.GetLevel() != zerolog.Disabled {
		logger = scoped.With().Logger()
	}

	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		logger = logger.With().
			Str("trace_id", sc.TraceID().String()).
			Str("span_id", sc.SpanID().String()).
			Logger()
	}

	return &logger
}

// WithFields attaches a child logger carrying the given update scope to ctx
func WithFields(ctx context.Context, fields map[string]any) context.Context {
	logger := LoggerFromContext(ctx).With().Fields(fields).Logger()
	return logger.WithContext(ctx)
}

// GetLogger returns the global logger
func GetLogger() *zerolog.Logger {
	return &log.Logger
}
