package pipeline

import (
	"log/slog"

	"charstream/internal/detect"
	"charstream/internal/logging"
)

// DefaultChunkSize is the read granularity of the streaming loop.
const DefaultChunkSize = 8 * 1024

// Options control one pipeline operation.
type Options struct {
	// SampleBudget bounds how many bytes detection may read.
	SampleBudget int
	// ChunkSize is the size of each streaming read.
	ChunkSize int
	// Strategic selects head/middle/tail sampling instead of a prefix.
	Strategic bool
	// SourceEncoding, when set, bypasses detection entirely.
	SourceEncoding string
	// Logger receives per-operation diagnostics. Nil means silent.
	Logger *slog.Logger
}

// Option mutates Options.
type Option func(*Options)

// WithSampleBudget overrides the detection sample budget.
func WithSampleBudget(n int) Option {
	return func(o *Options) { o.SampleBudget = n }
}

// WithChunkSize overrides the streaming chunk size.
func WithChunkSize(n int) Option {
	return func(o *Options) { o.ChunkSize = n }
}

// WithStrategicSampling samples head, middle, and tail of large files for
// detection instead of only the prefix.
func WithStrategicSampling() Option {
	return func(o *Options) { o.Strategic = true }
}

// WithSourceEncoding skips detection and decodes with the named encoding.
func WithSourceEncoding(name string) Option {
	return func(o *Options) { o.SourceEncoding = name }
}

// WithLogger attaches a logger to the operation.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

func buildOptions(opts []Option) Options {
	o := Options{
		SampleBudget: detect.DefaultSampleBudget,
		ChunkSize:    DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.SampleBudget <= 0 {
		o.SampleBudget = detect.DefaultSampleBudget
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.Logger == nil {
		o.Logger = logging.NewNop()
	}
	return o
}
