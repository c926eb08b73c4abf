// Package logger wraps zerolog with a process-wide root logger and
// request-scoped child loggers.
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the project-wide logging type.
type Logger = zerolog.Logger

// Options configures the logger.
type Options struct {
	Level      string // trace|debug|info|warn|error
	Format     string // console|json
	Service    string
	Writer     io.Writer
	WithCaller bool
}

// envPrefix namespaces logging variables. Read directly from the
// environment because config imports this package.
const envPrefix = "PAYROLL_LOG_"

// FromEnv builds Options from PAYROLL_LOG_LEVEL, PAYROLL_LOG_FORMAT,
// PAYROLL_LOG_SERVICE and PAYROLL_LOG_CALLER.
func FromEnv() Options {
	return Options{
		Level:      strings.ToLower(env("LEVEL", "info")),
		Format:     strings.ToLower(env("FORMAT", "console")),
		Service:    env("SERVICE", "payroll"),
		WithCaller: parseBool(env("CALLER", "false")),
	}
}

func env(key, def string) string {
	v := strings.TrimSpace(os.Getenv(envPrefix + key))
	if v == "" {
		return def
	}
	return v
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes":
		return true
	}
	return false
}

var (
	once   sync.Once
	root   atomic.Pointer[zerolog.Logger]
	inited atomic.Bool
)

// New builds a logger from opt without touching the root logger.
func New(opt Options) Logger {
	var w io.Writer = os.Stdout
	if opt.Writer != nil {
		w = opt.Writer
	}
	if opt.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: opt.Writer != nil}
	}

	ctx := zerolog.New(w).Level(parseLevel(opt.Level)).With().Timestamp()
	if opt.Service != "" {
		ctx = ctx.Str("service", opt.Service)
	}
	log := ctx.Logger()
	if opt.WithCaller {
		log = log.With().Caller().Logger()
	}
	return log
}

// Init configures the root logger. Only the first call has effect.
func Init(opt Options) {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano
		log := New(opt)
		root.Store(&log)
		inited.Store(true)
	})
}

// Get returns the root logger, initializing it from the environment on first use.
func Get() *Logger {
	if !inited.Load() {
		Init(FromEnv())
	}
	return root.Load()
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

type ctxKey struct{ name string }

var keyRequestID = ctxKey{"req_id"}

// WithRequest annotates ctx with a request ID.
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	return context.WithValue(ctx, keyRequestID, reqID)
}

// RequestID returns the request ID stored by WithRequest.
func RequestID(ctx context.Context) string {
	s, _ := ctx.Value(keyRequestID).(string)
	return s
}

// C returns a child of the root logger carrying ctx's request ID.
func C(ctx context.Context) *Logger {
	return From(Get(), ctx)
}

// From returns a child of base carrying ctx's request ID.
func From(base *Logger, ctx context.Context) *Logger {
	b := base.With()
	if id := RequestID(ctx); id != "" {
		b = b.Str("req_id", id)
	}
	l := b.Logger()
	return &l
}

// Named returns a child of the root logger with a component field.
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	l := Get().With().Str("component", component).Logger()
	return &l
}
