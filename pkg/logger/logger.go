package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"sort"
	"strings"
	"time"

	"github.com/dealdesk/merchant-portal/pkg/env"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	FieldRequestID  = "request_id"
	FieldMerchantID = "merchant_id"
	FieldDealID     = "deal_id"

	redacted = "[redacted]"
)

// Credentials never reach the log, whatever the caller attaches.
var sensitiveKeys = map[string]struct{}{
	"password":         {},
	"confirm_password": {},
	"new_password":     {},
	"token":            {},
	"access_token":     {},
	"refresh_token":    {},
	"authorization":    {},
}

// Options configures the structured logger.
type Options struct {
	ServiceName string
	Level       zerolog.Level
	WarnStack   bool
	Output      io.Writer
	// Format overrides LOG_FORMAT when set ("json" or "console").
	Format string
}

// Logger writes one JSON line per event. Request-scoped fields travel in the
// context, so handlers and services log through the same *Logger.
type Logger struct {
	root      zerolog.Logger
	warnStack bool
}

type scopeKey struct{}

func New(opts Options) *Logger {
	level := opts.Level
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano

	root := zerolog.New(writerFor(opts)).
		Level(level).
		With().
		Timestamp().
		Str("service", opts.ServiceName).
		Logger()
	return &Logger{root: root, warnStack: opts.WarnStack}
}

func writerFor(opts Options) io.Writer {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	format := opts.Format
	if format == "" {
		format = env.Get("LOG_FORMAT", "json")
	}
	if format != "console" {
		return out
	}
	return zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05", NoColor: env.Bool("NO_COLOR", false)}
}

// Nop discards everything.
func Nop() *Logger {
	return &Logger{root: zerolog.Nop()}
}

// ParseLevel falls back to info for blank or unknown values.
func ParseLevel(value string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(value)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *Logger) scoped(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if scoped, ok := ctx.Value(scopeKey{}).(*zerolog.Logger); ok {
			return scoped
		}
	}
	return &l.root
}

func (l *Logger) with(ctx context.Context, add func(zerolog.Context) zerolog.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if l == nil {
		return ctx
	}
	next := add(l.scoped(ctx).With()).Logger()
	return context.WithValue(ctx, scopeKey{}, &next)
}

func (l *Logger) WithField(ctx context.Context, key string, value any) context.Context {
	return l.with(ctx, func(c zerolog.Context) zerolog.Context {
		return c.Interface(key, safeValue(key, value))
	})
}

// WithFields attaches fields in key order so repeated entries line up.
func (l *Logger) WithFields(ctx context.Context, fields map[string]any) context.Context {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return l.with(ctx, func(c zerolog.Context) zerolog.Context {
		for _, k := range keys {
			c = c.Interface(k, safeValue(k, fields[k]))
		}
		return c
	})
}

func (l *Logger) WithRequestID(ctx context.Context, requestID string) context.Context {
	return l.WithField(ctx, FieldRequestID, requestID)
}

func (l *Logger) WithMerchantID(ctx context.Context, merchantID uuid.UUID) context.Context {
	return l.WithField(ctx, FieldMerchantID, merchantID.String())
}

func (l *Logger) WithDealID(ctx context.Context, dealID uuid.UUID) context.Context {
	return l.WithField(ctx, FieldDealID, dealID.String())
}

func (l *Logger) Debug(ctx context.Context, msg string) {
	if l != nil {
		l.scoped(ctx).Debug().Msg(msg)
	}
}

func (l *Logger) Info(ctx context.Context, msg string) {
	if l != nil {
		l.scoped(ctx).Info().Msg(msg)
	}
}

func (l *Logger) Warn(ctx context.Context, msg string) {
	if l == nil {
		return
	}
	event := l.scoped(ctx).Warn()
	if l.warnStack {
		event = event.Str("stack", stack())
	}
	event.Msg(msg)
}

// Error always carries a stack trace.
func (l *Logger) Error(ctx context.Context, msg string, err error) {
	if l == nil {
		return
	}
	event := l.scoped(ctx).Error().Str("stack", stack())
	if err != nil {
		event = event.Err(err)
	}
	event.Msg(msg)
}

func safeValue(key string, value any) any {
	if _, ok := sensitiveKeys[strings.ToLower(key)]; ok {
		return redacted
	}
	return value
}

func stack() string {
	return strings.TrimSpace(string(debug.Stack()))
}
