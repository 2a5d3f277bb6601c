// Package bindgen generates target-language bindings for C and C++ headers.
//
// A run parses the configured headers, normalizes their declarations into an
// ir.Module, maps types and names with the configured tables and renders the
// template root over the result:
//
//	cfg, err := bindgen.LoadConfig("bindgen.yaml")
//	if err != nil {
//	    return err
//	}
//	res, err := bindgen.FromConfig(cfg).DumpIR("build/ir.json").ToDir("lib/src")
package bindgen

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/libnativeapi/bindgen/bindctx"
	"github.com/libnativeapi/bindgen/cdecl"
	"github.com/libnativeapi/bindgen/cheader"
	"github.com/libnativeapi/bindgen/generator"
	"github.com/libnativeapi/bindgen/ir"
	"github.com/libnativeapi/bindgen/mapper"
	"github.com/libnativeapi/bindgen/naming"
	"github.com/libnativeapi/bindgen/normalize"
	"github.com/libnativeapi/bindgen/sink"
)

// Options controls one run.
type Options struct {
	// OutDir receives generated files. It is required unless Sink is set,
	// and is the {output_dir} of formatter commands.
	OutDir string

	// Sink overrides the filesystem sink rooted at OutDir.
	Sink sink.OutputSink

	// DumpIR writes the normalized module as JSON to this path.
	DumpIR string

	// Provider overrides the provider chosen by Config.Provider.
	Provider cdecl.Provider

	// SkipFormatters disables the configured formatters.
	SkipFormatters bool

	Logger *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Result summarizes a run.
type Result struct {
	Module *ir.Module

	// Files are the written paths relative to the output root, in write
	// order.
	Files []string
}

// Parse runs the provider and the normalizer.
func Parse(ctx context.Context, cfg *Config, opts Options) (*ir.Module, error) {
	log := opts.logger()
	provider := opts.Provider
	if provider == nil {
		provider = cfg.Provider(cheader.WithLogger(log.Named("cheader")))
	}
	root, err := provider.Parse(ctx, cfg.Request())
	if err != nil {
		return nil, errors.Wrap(err, "parsing headers")
	}
	module, err := normalize.Normalize(root, cfg.NormalizeConfig(), normalize.WithLogger(log.Named("normalize")))
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "normalizing"), ErrInvalidConfig)
	}
	log.Info("normalized",
		zap.Int("files", len(module.Files)),
		zap.Int("items", module.ItemCount()))
	return module, nil
}

// Run validates cfg, parses its headers and generates bindings.
func Run(ctx context.Context, cfg *Config, opts Options) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	// The template root is checked before any parsing or output.
	if err := generator.New(generator.Options{TemplateDir: cfg.TemplateRoot()}).Check(); err != nil {
		return nil, err
	}
	module, err := Parse(ctx, cfg, opts)
	if err != nil {
		return nil, err
	}
	if opts.DumpIR != "" {
		if err := ir.WriteJSONFile(module, opts.DumpIR); err != nil {
			return nil, errors.Wrap(err, "dumping IR")
		}
		opts.logger().Info("wrote IR", zap.String("path", opts.DumpIR))
	}
	return Render(ctx, cfg, module, opts)
}

// Render maps module and renders the template root, then runs formatters.
func Render(ctx context.Context, cfg *Config, module *ir.Module, opts Options) (*Result, error) {
	log := opts.logger()
	namer, err := naming.NewTransformer(cfg.Mapping.Naming)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "mapping.naming"), ErrInvalidConfig)
	}
	bc, err := bindctx.Build(module, mapper.New(cfg.Mapping, namer), namer)
	if err != nil {
		return nil, errors.Wrap(err, "mapping")
	}

	out := opts.Sink
	if out == nil {
		if opts.OutDir == "" {
			return nil, errors.Mark(errors.New("no output directory"), ErrInvalidConfig)
		}
		out = sink.NewFilesystemSink(opts.OutDir)
	}
	gen := generator.New(generator.Options{
		TemplateDir: cfg.TemplateRoot(),
		Sink:        out,
		Logger:      log.Named("generator"),
	})
	files, err := gen.Generate(ctx, bc)
	if err != nil {
		return nil, err
	}
	log.Info("generated", zap.Int("files", len(files)), zap.String("out", opts.OutDir))

	if !opts.SkipFormatters && len(cfg.Formatters) > 0 {
		vars, err := formatterVars(cfg, opts.OutDir)
		if err != nil {
			return nil, err
		}
		if err := generator.RunFormatters(ctx, cfg.Formatters, vars, log.Named("formatter")); err != nil {
			return nil, err
		}
	}
	return &Result{Module: module, Files: files}, nil
}

func formatterVars(cfg *Config, outDir string) (generator.Vars, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return generator.Vars{}, errors.Wrap(err, "working directory")
	}
	if outDir != "" {
		if outDir, err = filepath.Abs(outDir); err != nil {
			return generator.Vars{}, errors.Wrap(err, "resolving output directory")
		}
	}
	return generator.Vars{OutputDir: outDir, ConfigDir: cfg.dir(), Cwd: cwd}, nil
}
