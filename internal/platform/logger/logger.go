// Package logger owns the process root zerolog logger and the context fields
// that follow an analysis through the service
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"chromalyzer/internal/platform/config/raw"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Logger is the logging type used across the module
type Logger = zerolog.Logger

// Options configures the root logger
type Options struct {
	Level       string // trace..panic, unknown values mean debug
	Format      string // console or json
	Service     string
	Component   string
	Writer      io.Writer // default stdout
	WithCaller  bool
	SampleEvery int // keep one line in N when > 1
}

// FromEnv reads LOG_* through the raw view, which cannot import this package
func FromEnv() Options {
	rc := raw.New().Prefix("LOG_")
	return Options{
		Level:       rc.Get("LEVEL", "debug"),
		Format:      strings.ToLower(rc.Get("FORMAT", "console")),
		Service:     rc.Get("SERVICE", ""),
		Component:   rc.Get("COMPONENT", ""),
		WithCaller:  rc.GetBool("CALLER", false),
		SampleEvery: rc.GetInt("SAMPLE_EVERY", 0),
	}
}

var (
	once sync.Once
	root Logger
)

// Init builds the root logger from opt. Only the first call, or the first
// Get, has any effect
func Init(opt Options) { once.Do(func() { setup(opt) }) }

// Get returns the root logger, building it from the environment on first use
func Get() *Logger {
	once.Do(func() { setup(FromEnv()) })
	return &root
}

func setup(opt Options) {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano
	root = build(opt)
}

func build(opt Options) Logger {
	var w io.Writer = os.Stdout
	if opt.Writer != nil {
		w = opt.Writer
	}
	if opt.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	zc := zerolog.New(w).Level(level(opt.Level)).With().Timestamp()
	if bi, ok := debug.ReadBuildInfo(); ok {
		zc = zc.Str("go_version", bi.GoVersion)
	}
	if opt.Service != "" {
		zc = zc.Str("service", opt.Service)
	}
	if opt.Component != "" {
		zc = zc.Str("component", opt.Component)
	}
	if opt.WithCaller {
		zc = zc.Caller()
	}
	l := zc.Logger()
	if opt.SampleEvery > 1 {
		l = l.Sample(&zerolog.BasicSampler{N: uint32(opt.SampleEvery)})
	}
	return l
}

func level(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.DebugLevel
	}
	return lvl
}

type ctxKey int

const (
	keyRequestID ctxKey = iota
	keyAnalysisID
	keyTraceLabel
)

// ctxFields maps context keys to the field names C writes
var ctxFields = []struct {
	key  ctxKey
	name string
}{
	{keyRequestID, "request_id"},
	{keyAnalysisID, "analysis_id"},
	{keyTraceLabel, "trace"},
}

func with(ctx context.Context, k ctxKey, v string) context.Context {
	if v == "" {
		return ctx
	}
	return context.WithValue(ctx, k, v)
}

// WithRequest tags ctx with the request id
func WithRequest(ctx context.Context, reqID string) context.Context {
	return with(ctx, keyRequestID, reqID)
}

// WithAnalysis tags ctx with the analysis id and trace label
func WithAnalysis(ctx context.Context, analysisID, label string) context.Context {
	return with(with(ctx, keyAnalysisID, analysisID), keyTraceLabel, label)
}

// C returns a child of the root logger carrying the ids found in ctx
func C(ctx context.Context) *Logger {
	zc := Get().With()
	for _, f := range ctxFields {
		if v, ok := ctx.Value(f.key).(string); ok {
			zc = zc.Str(f.name, v)
		}
	}
	l := zc.Logger()
	return &l
}

// Named returns a child of the root logger with a component field
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	l := Get().With().Str("component", component).Logger()
	return &l
}
