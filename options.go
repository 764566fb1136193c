package langspec

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Option configures resolver, JSON codec, and archive codec behavior
// using the functional options pattern (the teacher's
// pkg/cache/options.go convention generalized to this module).
type Option func(*Options)

// Options holds the ambient configuration shared by Build, the JSON
// codec, and the archive codec. The zero value is not ready to use;
// construct with DefaultOptions or ApplyOptions.
type Options struct {
	// Logger receives debug-level structured events at phase boundaries
	// ("phase1.complete", "phase2.asset", "archive.read", ...). Never
	// nil once produced by DefaultOptions/ApplyOptions.
	Logger *slog.Logger

	// StrictSchema rejects documents the schema marks as merely
	// questionable in addition to outright violations (currently:
	// an empty categories or assets array). Off by default, matching
	// the schema in §6, which does not itself require non-empty arrays.
	StrictSchema bool

	// MaxIcons caps the number of icon members an archive reader will
	// decode before failing, guarding against a maliciously large zip.
	// Zero means unlimited.
	MaxIcons int
}

// fileOptions is the YAML projection of Options loaded by LoadOptions.
// Logger is intentionally absent: it has no serializable form.
type fileOptions struct {
	StrictSchema bool `yaml:"strictSchema"`
	MaxIcons     int  `yaml:"maxIcons"`
}

// DefaultOptions returns the baseline configuration: a no-op discard
// logger, lenient schema handling, and no icon cap.
func DefaultOptions() *Options {
	return &Options{
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		StrictSchema: false,
		MaxIcons:     0,
	}
}

// ApplyOptions builds an Options value from DefaultOptions with opts
// applied in order, matching the teacher's applyOptions helper.
func ApplyOptions(opts ...Option) *Options {
	o := DefaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// WithLogger routes phase-boundary events to logger. A nil logger is
// ignored, leaving the discard logger in place.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// WithStrictSchema toggles StrictSchema.
func WithStrictSchema(strict bool) Option {
	return func(o *Options) {
		o.StrictSchema = strict
	}
}

// WithMaxIcons sets MaxIcons. A non-positive value is ignored, leaving
// the existing (unlimited by default) cap in place.
func WithMaxIcons(max int) Option {
	return func(o *Options) {
		if max > 0 {
			o.MaxIcons = max
		}
	}
}

// LoadOptions reads a YAML options file at path (strictSchema,
// maxIcons) and returns the corresponding Options with a discard
// logger, mirroring the teacher's JSON-configured Config but backed by
// YAML the way cmd/schema-exporter's OpenAPI document model is.
func LoadOptions(path string) (*Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var fo fileOptions
	if err := yaml.NewDecoder(f).Decode(&fo); err != nil {
		return nil, err
	}

	return ApplyOptions(WithStrictSchema(fo.StrictSchema), WithMaxIcons(fo.MaxIcons)).withDiscardLogger(), nil
}

func (o *Options) withDiscardLogger() *Options {
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// EffectiveLogger returns o's logger, or a discard logger if o is nil
// or was constructed without one — every call site that accepts an
// optional *Options through a variadic Option slice goes through
// ApplyOptions first, so this is purely a defensive fallback for direct
// field construction. Other packages (jsoncodec, archive) call this
// rather than reading the Logger field directly, so a nil Options never
// has to be special-cased at the log call site.
func (o *Options) EffectiveLogger() *slog.Logger {
	if o == nil || o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}
