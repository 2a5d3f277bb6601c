package bindgen

import (
	"context"

	"go.uber.org/zap"

	"github.com/libnativeapi/bindgen/cdecl"
	"github.com/libnativeapi/bindgen/sink"
)

// Builder provides a fluent API over Run. Create one with FromConfig or
// FromFile; errors surface from the terminal ToDir or ToSink call.
//
//	bindgen.FromFile("bindgen.yaml").
//	    Set("mapping.language=dart").
//	    WithoutFormatters().
//	    ToDir("lib/src/bindings")
type Builder struct {
	cfg  *Config
	err  error
	sets []string
	opts Options
}

// FromConfig starts a build from cfg.
func FromConfig(cfg *Config) *Builder {
	return &Builder{cfg: cfg}
}

// FromFile starts a build from the config file at path.
func FromFile(path string) *Builder {
	cfg, err := LoadConfig(path)
	return &Builder{cfg: cfg, err: err}
}

// Set adds key=value overrides, as with ApplyOverrides.
func (b *Builder) Set(kv ...string) *Builder {
	b.sets = append(b.sets, kv...)
	return b
}

// DumpIR writes the normalized module to path as JSON.
func (b *Builder) DumpIR(path string) *Builder {
	b.opts.DumpIR = path
	return b
}

// WithProvider replaces the declaration provider.
func (b *Builder) WithProvider(p cdecl.Provider) *Builder {
	b.opts.Provider = p
	return b
}

// WithLogger sets the run logger.
func (b *Builder) WithLogger(l *zap.Logger) *Builder {
	b.opts.Logger = l
	return b
}

// WithoutFormatters skips the configured formatters.
func (b *Builder) WithoutFormatters() *Builder {
	b.opts.SkipFormatters = true
	return b
}

// ToDir generates into dir.
func (b *Builder) ToDir(dir string) (*Result, error) {
	opts := b.opts
	opts.OutDir = dir
	return b.run(opts)
}

// ToSink generates into s. Formatters, which work on directories, are
// skipped.
func (b *Builder) ToSink(s sink.OutputSink) (*Result, error) {
	opts := b.opts
	opts.Sink = s
	opts.SkipFormatters = true
	return b.run(opts)
}

func (b *Builder) run(opts Options) (*Result, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := ApplyOverrides(b.cfg, b.sets); err != nil {
		return nil, err
	}
	return Run(context.Background(), b.cfg, opts)
}
