// Package generator renders binding templates over a bindctx.Context and
// runs post-generation formatters.
//
// A template root has three tiers:
//
//	<root>/*.tmpl           module templates, X.tmpl renders to <out>/X
//	<root>/file/*.tmpl      per-file templates, T.tmpl renders source a/b/c.h
//	                        to <out>/a/b/<file_name(c)>.T
//	<root>/partials/*.tmpl  partials, named by file stem
//
// Files named _*.tmpl directly under the root are partials too, named by
// their stem without the underscore.
package generator

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/template"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/libnativeapi/bindgen/bindctx"
	"github.com/libnativeapi/bindgen/naming"
	"github.com/libnativeapi/bindgen/sink"
)

const templateExt = ".tmpl"

// ErrTemplateRootMissing is returned when the template root does not exist.
var ErrTemplateRootMissing = errors.New("template root not found")

// Options configures a Generator.
type Options struct {
	// TemplateDir is the template root.
	TemplateDir string

	// Sink receives rendered files.
	Sink sink.OutputSink

	Logger *zap.Logger
}

// Generator renders a template root.
type Generator struct {
	opts Options
	log  *zap.Logger
}

// New creates a Generator.
func New(opts Options) *Generator {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{opts: opts, log: log}
}

// Output is one rendered file.
type Output struct {
	// Path is relative to the output root, slash-separated.
	Path    string
	Content []byte
}

// templates is a parsed template root.
type templates struct {
	module   []string
	file     []string
	partials *template.Template

	// sets holds one clone of partials per template, keyed by file name
	// for module templates and "file/"+name for per-file templates.
	sets map[string]*template.Template
}

// Check parses the template root without rendering. It reports a missing
// root or a template that does not parse.
func (g *Generator) Check() error {
	_, err := g.load(naming.Identity())
	return err
}

// Render parses every template, then renders them over bc. Nothing is
// written.
func (g *Generator) Render(bc *bindctx.Context) ([]Output, error) {
	namer := bc.Namer
	if namer == nil {
		namer = naming.Identity()
	}
	t, err := g.load(namer)
	if err != nil {
		return nil, err
	}

	var outs []Output
	for _, name := range t.module {
		content, err := execute(t.sets[name], name, bc)
		if err != nil {
			return nil, err
		}
		outs = append(outs, Output{Path: strings.TrimSuffix(name, templateExt), Content: content})
	}
	for _, key := range bc.FilePaths {
		fc := bc.ForFile(key)
		for _, name := range t.file {
			content, err := execute(t.sets["file/"+name], name, fc)
			if err != nil {
				return nil, errors.Wrapf(err, "%s", key)
			}
			outs = append(outs, Output{Path: fc.OutputPath(strings.TrimSuffix(name, templateExt)), Content: content})
		}
	}
	return outs, nil
}

// Generate renders every template over bc and writes the results to the
// sink in render order. It returns the written paths.
func (g *Generator) Generate(ctx context.Context, bc *bindctx.Context) ([]string, error) {
	if g.opts.Sink == nil {
		return nil, errors.New("generator: no output sink")
	}
	outs, err := g.Render(bc)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(outs))
	for _, o := range outs {
		if err := g.opts.Sink.WriteFile(ctx, o.Path, o.Content); err != nil {
			return paths, errors.Wrapf(err, "writing %s", o.Path)
		}
		g.log.Debug("wrote", zap.String("path", o.Path), zap.String("size", humanize.Bytes(uint64(len(o.Content)))))
		paths = append(paths, o.Path)
	}
	return paths, nil
}

// execute renders one template and normalizes its trailing newlines to
// exactly one.
func execute(t *template.Template, name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, errors.Wrapf(err, "rendering %s", name)
	}
	out := bytes.TrimRight(buf.Bytes(), "\n")
	return append(out, '\n'), nil
}

func (g *Generator) load(namer *naming.Transformer) (*templates, error) {
	root := g.opts.TemplateDir
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, errors.WithHint(
			errors.Wrapf(ErrTemplateRootMissing, "%q", root),
			"create the directory or set template_dir in the config")
	}

	top, err := glob(root)
	if err != nil {
		return nil, err
	}
	perFile, err := glob(filepath.Join(root, "file"))
	if err != nil {
		return nil, err
	}
	partialDir := filepath.Join(root, "partials")
	partialNames, err := glob(partialDir)
	if err != nil {
		return nil, err
	}
	partialFiles := make([]string, 0, len(partialNames))
	for _, name := range partialNames {
		partialFiles = append(partialFiles, filepath.Join(partialDir, name))
	}

	t := &templates{file: perFile, sets: make(map[string]*template.Template)}
	for _, name := range top {
		if strings.HasPrefix(name, "_") {
			partialFiles = append(partialFiles, filepath.Join(root, name))
		} else {
			t.module = append(t.module, name)
		}
	}

	t.partials = template.New("").Option("missingkey=error").
		Funcs(funcMap(namer, func() *template.Template { return t.partials }))
	for _, file := range partialFiles {
		text, err := os.ReadFile(file)
		if err != nil {
			return nil, errors.Wrap(err, "reading partial")
		}
		name := strings.TrimPrefix(strings.TrimSuffix(filepath.Base(file), templateExt), "_")
		if _, err := t.partials.New(name).Parse(string(text)); err != nil {
			return nil, errors.Wrapf(err, "parsing partial %s", filepath.Base(file))
		}
	}

	parse := func(dir, name, key string) error {
		text, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return errors.Wrap(err, "reading template")
		}
		set, err := t.partials.Clone()
		if err != nil {
			return errors.Wrap(err, "cloning partials")
		}
		if _, err := set.New(name).Parse(string(text)); err != nil {
			return errors.Wrapf(err, "parsing %s", name)
		}
		t.sets[key] = set
		return nil
	}
	for _, name := range t.module {
		if err := parse(root, name, name); err != nil {
			return nil, err
		}
	}
	for _, name := range t.file {
		if err := parse(filepath.Join(root, "file"), name, "file/"+name); err != nil {
			return nil, err
		}
	}

	if len(t.module) == 0 && len(t.file) == 0 {
		g.log.Warn("template root has no templates", zap.String("dir", root))
	}
	g.log.Debug("templates loaded",
		zap.Int("module", len(t.module)),
		zap.Int("file", len(t.file)),
		zap.Int("partials", len(partialFiles)))
	return t, nil
}

// glob lists the *.tmpl file names in dir, sorted. A missing dir is empty.
func glob(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", dir)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), templateExt) {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}
