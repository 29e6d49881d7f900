// Package logger configures the process-wide slog logger and hands out
// loggers scoped by context values.
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"sync"

	"github.com/amp-labs/stateshaft/config"
	"go.uber.org/atomic"
)

// Default subsystem name, set by ConfigureLoggingWithOptions.
var subsystem = atomic.NewString("") //nolint:gochecknoglobals

// configMutex serializes changes to slog.Default and log.Default.
var configMutex sync.Mutex //nolint:gochecknoglobals

type contextKey string

const (
	subsystemKey contextKey = "subsystem"
	mutedKey     contextKey = "mute"
	valuesKey    contextKey = "loggerValues"
)

// ErrInvalidLogOutput is returned when LOG_OUTPUT names an unknown destination.
var ErrInvalidLogOutput = errors.New("invalid log output")

// Options is used to configure logging.
type Options struct {
	Subsystem   string
	JSON        bool
	MinLevel    slog.Level
	LegacyLevel slog.Level
	Output      io.Writer
}

// Option adjusts Options before ConfigureLogging applies them.
type Option func(*Options)

// WithOutput overrides the destination chosen from the environment.
func WithOutput(w io.Writer) Option {
	return func(o *Options) {
		o.Output = w
	}
}

// WithLevel overrides the minimum level chosen from the environment.
func WithLevel(level slog.Level) Option {
	return func(o *Options) {
		o.MinLevel = level
	}
}

// ConfigureLoggingWithOptions installs a text or JSON handler as the slog
// default and redirects the legacy log package into it.
func ConfigureLoggingWithOptions(opts Options) *slog.Logger {
	configMutex.Lock()
	defer configMutex.Unlock()

	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	handlerOpts := &slog.HandlerOptions{Level: opts.MinLevel}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(opts.Output, handlerOpts)
	} else {
		handler = slog.NewTextHandler(opts.Output, handlerOpts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	def := log.Default()
	*def = *slog.NewLogLogger(handler, opts.LegacyLevel)

	subsystem.Store(opts.Subsystem)

	return logger
}

// ConfigureLogging reads config.Logging from the environment (LOG_JSON,
// LOG_LEVEL, LEGACY_LOG_LEVEL, LOG_OUTPUT) and configures logging for app.
func ConfigureLogging(_ context.Context, app string, opts ...Option) (*slog.Logger, error) {
	var settings config.Logging
	if err := config.Parse(&settings); err != nil {
		return nil, err
	}

	output, err := outputFor(settings.Output)
	if err != nil {
		return nil, err
	}

	options := Options{
		Subsystem:   app,
		JSON:        settings.JSON,
		MinLevel:    settings.Level,
		LegacyLevel: settings.LegacyLevel,
		Output:      output,
	}

	for _, o := range opts {
		o(&options)
	}

	return ConfigureLoggingWithOptions(options), nil
}

func outputFor(name string) (io.Writer, error) {
	switch name {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidLogOutput, name)
	}
}

// WithSubsystem overrides the default subsystem for loggers obtained from ctx.
func WithSubsystem(ctx context.Context, name string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, subsystemKey, name)
}

// GetSubsystem returns the subsystem stored in ctx, or the configured default.
func GetSubsystem(ctx context.Context) string {
	if ctx != nil {
		if val, ok := ctx.Value(subsystemKey).(string); ok {
			return val
		}
	}

	return subsystem.Load()
}

// WithMuted marks ctx so that Get returns a logger that discards everything.
func WithMuted(ctx context.Context, muted bool) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, mutedKey, muted)
}

func isMuted(ctx context.Context) bool {
	if ctx == nil {
		return false
	}

	muted, ok := ctx.Value(mutedKey).(bool)

	return ok && muted
}

// With returns a context carrying extra key-value pairs that Get attaches
// to every logger derived from it.
func With(ctx context.Context, values ...any) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	if len(values) == 0 {
		return ctx
	}

	existing := getValues(ctx)
	vals := make([]any, 0, len(existing)+len(values))
	vals = append(vals, existing...)
	vals = append(vals, values...)

	return context.WithValue(ctx, valuesKey, vals)
}

func getValues(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}

	vals, _ := ctx.Value(valuesKey).([]any)

	return vals
}

// Get returns the default logger enriched with the subsystem and any values
// attached with With. Only the first non-nil context is consulted.
func Get(ctx ...context.Context) *slog.Logger {
	return From(slog.Default(), ctx...)
}

// From is like Get but starts from base instead of slog.Default.
func From(base *slog.Logger, ctx ...context.Context) *slog.Logger {
	realCtx := firstContext(ctx...)

	if isMuted(realCtx) {
		return nullLogger
	}

	if base == nil {
		base = slog.Default()
	}

	logger := base
	if sub := GetSubsystem(realCtx); sub != "" {
		logger = logger.With("subsystem", sub)
	}

	if vals := getValues(realCtx); len(vals) > 0 {
		logger = logger.With(vals...)
	}

	return logger
}

func firstContext(ctx ...context.Context) context.Context {
	for _, c := range ctx {
		if c != nil {
			return c
		}
	}

	return context.Background()
}

// nullHandler discards all records.
type nullHandler struct{}

func (n *nullHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return false
}

func (n *nullHandler) Handle(_ context.Context, _ slog.Record) error {
	return nil
}

func (n *nullHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return n
}

func (n *nullHandler) WithGroup(_ string) slog.Handler {
	return n
}

var nullLogger = slog.New(&nullHandler{}) //nolint:gochecknoglobals
