package xrcomp

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Options holds the configuration shared by all client compositor bridges.
//
// The zero value is not useful; construct with NewOptions, which applies
// the defaults before any Option functions.
//
// Example:
//
//	// Defaults
//	opts := xrcomp.NewOptions()
//
//	// Depth format passthrough enabled, settings from the environment
//	opts := xrcomp.NewOptions(xrcomp.WithDepthFormats(), xrcomp.FromEnv())
type Options struct {
	// LogLevel gates the bridge's own log records.
	LogLevel slog.Level

	// AllowDepthFormats exposes depth/stencil formats to the application.
	// Off by default: shared depth images are a frequent source of driver
	// trouble on the service side.
	AllowDepthFormats bool

	// Debug requests the D3D11 debug layer when the bridge creates its
	// own devices. Creation silently retries without the layer when the
	// SDK component is not installed.
	Debug bool

	// UseRuntimeBarriers makes the D3D12 bridge record and execute
	// per-image transition command lists around every acquire/release.
	UseRuntimeBarriers bool

	// ApplyInitialTransition makes the D3D12 bridge transition freshly
	// allocated images out of the COMMON state once at swapchain creation.
	ApplyInitialTransition bool

	// FenceTimeout bounds the local blocking wait in LayerCommit when no
	// shared timeline semaphore could be negotiated.
	FenceTimeout time.Duration
}

// DefaultFenceTimeout bounds the local fence wait during layer commit.
const DefaultFenceTimeout = 500 * time.Millisecond

// Option configures Options during creation.
type Option func(*Options)

// NewOptions returns Options with defaults applied, then modified by opts
// in order.
func NewOptions(opts ...Option) *Options {
	o := &Options{
		LogLevel:               slog.LevelInfo,
		ApplyInitialTransition: true,
		FenceTimeout:           DefaultFenceTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Logger returns the process logger gated to LogLevel. Bridges log
// through this so the configured level applies regardless of the handler
// installed with SetLogger. The gate wraps the logger current at the time
// of the call; bridges take it once at construction.
func (o *Options) Logger() *slog.Logger {
	return slog.New(levelHandler{h: Logger().Handler(), min: o.LogLevel})
}

// WithLogLevel sets the log level for bridge records.
func WithLogLevel(level slog.Level) Option {
	return func(o *Options) { o.LogLevel = level }
}

// WithDepthFormats exposes depth/stencil swapchain formats to the
// application.
func WithDepthFormats() Option {
	return func(o *Options) { o.AllowDepthFormats = true }
}

// WithDebug requests the D3D11 debug layer for bridge-created devices.
func WithDebug() Option {
	return func(o *Options) { o.Debug = true }
}

// WithRuntimeBarriers enables per-frame D3D12 resource state transitions.
func WithRuntimeBarriers() Option {
	return func(o *Options) { o.UseRuntimeBarriers = true }
}

// WithoutInitialTransition skips the one-time COMMON state transition the
// D3D12 bridge otherwise performs at swapchain creation.
func WithoutInitialTransition() Option {
	return func(o *Options) { o.ApplyInitialTransition = false }
}

// WithFenceTimeout bounds the local fence wait during layer commit.
func WithFenceTimeout(d time.Duration) Option {
	return func(o *Options) { o.FenceTimeout = d }
}

// FromEnv reads settings from the process environment:
//
//	XRCOMP_LOG                       trace|debug|info|warn|error
//	XRCOMP_ALLOW_DEPTH               boolean
//	XRCOMP_DEBUG                     boolean
//	XRCOMP_D3D12_BARRIERS            boolean
//	XRCOMP_D3D12_INITIAL_TRANSITION  boolean
//
// Unset or unparsable variables leave the current value untouched.
func FromEnv() Option {
	return func(o *Options) {
		if lvl, ok := parseLogLevel(os.Getenv("XRCOMP_LOG")); ok {
			o.LogLevel = lvl
		}
		if b, ok := parseBool(os.Getenv("XRCOMP_ALLOW_DEPTH")); ok {
			o.AllowDepthFormats = b
		}
		if b, ok := parseBool(os.Getenv("XRCOMP_DEBUG")); ok {
			o.Debug = b
		}
		if b, ok := parseBool(os.Getenv("XRCOMP_D3D12_BARRIERS")); ok {
			o.UseRuntimeBarriers = b
		}
		if b, ok := parseBool(os.Getenv("XRCOMP_D3D12_INITIAL_TRANSITION")); ok {
			o.ApplyInitialTransition = b
		}
	}
}

// optionsFile is the TOML schema understood by LoadOptions.
type optionsFile struct {
	Log               string `toml:"log"`
	AllowDepth        *bool  `toml:"allow_depth"`
	Debug             *bool  `toml:"debug"`
	Barriers          *bool  `toml:"barriers"`
	InitialTransition *bool  `toml:"initial_transition"`
	FenceTimeoutMS    *int64 `toml:"fence_timeout_ms"`
}

// LoadOptions reads a TOML options file and returns Options with defaults
// applied first, then the file, then opts.
//
// Example file:
//
//	log = "debug"
//	allow_depth = true
//	barriers = false
//	fence_timeout_ms = 500
func LoadOptions(path string, opts ...Option) (*Options, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("xrcomp: reading options file: %w", err)
	}
	var f optionsFile
	if err := toml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("xrcomp: parsing options file %s: %w", path, err)
	}

	o := NewOptions()
	if lvl, ok := parseLogLevel(f.Log); ok {
		o.LogLevel = lvl
	} else if f.Log != "" {
		return nil, fmt.Errorf("xrcomp: unknown log level %q in %s", f.Log, path)
	}
	if f.AllowDepth != nil {
		o.AllowDepthFormats = *f.AllowDepth
	}
	if f.Debug != nil {
		o.Debug = *f.Debug
	}
	if f.Barriers != nil {
		o.UseRuntimeBarriers = *f.Barriers
	}
	if f.InitialTransition != nil {
		o.ApplyInitialTransition = *f.InitialTransition
	}
	if f.FenceTimeoutMS != nil {
		if *f.FenceTimeoutMS <= 0 {
			return nil, fmt.Errorf("xrcomp: fence_timeout_ms must be positive in %s", path)
		}
		o.FenceTimeout = time.Duration(*f.FenceTimeoutMS) * time.Millisecond
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

func parseLogLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace", "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return 0, false
}

func parseBool(s string) (bool, bool) {
	if s == "" {
		return false, false
	}
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, false
	}
	return b, true
}
