// Package cli holds the flags and output helpers shared by bindgen
// subcommands.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/libnativeapi/bindgen"
	"github.com/libnativeapi/bindgen/internal/logging"
)

// Globals are the flags accepted by every subcommand.
type Globals struct {
	Config  string   `help:"Config file (YAML, TOML or JSON)." short:"c" default:"bindgen.yaml" type:"path"`
	Set     []string `help:"Override a config key, as key=value. Repeatable." short:"s" sep:"none" placeholder:"KEY=VALUE"`
	Verbose int      `help:"Increase log verbosity (-v info, -vv debug)." short:"v" type:"counter"`
	JSONLog bool     `help:"Log as JSON lines." name:"json-log"`
	NoColor bool     `help:"Disable colored status output." name:"no-color"`
}

// Logger builds the run logger. Logs go to stderr.
func (g *Globals) Logger() *zap.Logger {
	return logging.New(logging.Options{JSON: g.JSONLog, Verbosity: g.Verbose})
}

// LoadConfig reads the config file and applies --set overrides.
func (g *Globals) LoadConfig() (*bindgen.Config, error) {
	cfg, err := bindgen.LoadConfig(g.Config)
	if err != nil {
		return nil, err
	}
	if err := bindgen.ApplyOverrides(cfg, g.Set); err != nil {
		return nil, err
	}
	return cfg, nil
}

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	failColor = color.New(color.FgRed)
	hintColor = color.New(color.FgCyan)
)

// Printer writes status lines.
type Printer struct {
	w io.Writer
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer) *Printer { return &Printer{w: w} }

// OK prints a success line.
func (p *Printer) OK(format string, args ...any) {
	okColor.Fprintf(p.w, "✓ "+format+"\n", args...)
}

// Warn prints a warning line.
func (p *Printer) Warn(format string, args ...any) {
	warnColor.Fprintf(p.w, "! "+format+"\n", args...)
}

// Fail prints a failure line.
func (p *Printer) Fail(format string, args ...any) {
	failColor.Fprintf(p.w, "✗ "+format+"\n", args...)
}

// Plain prints an uncolored line.
func (p *Printer) Plain(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

// Error prints err and any hints attached to it.
func (p *Printer) Error(err error) {
	p.Fail("%v", err)
	for _, h := range errors.GetAllHints(err) {
		hintColor.Fprintf(p.w, "  hint: %s\n", h)
	}
}

// Written reports the files of a run with their sizes.
func (p *Printer) Written(outDir string, res *bindgen.Result) {
	var total uint64
	for _, f := range res.Files {
		info, err := os.Stat(filepath.Join(outDir, filepath.FromSlash(f)))
		if err != nil {
			p.Plain("  %s", f)
			continue
		}
		size := uint64(info.Size())
		total += size
		p.Plain("  %s (%s)", f, humanize.Bytes(size))
	}
	p.OK("wrote %d files (%s) to %s", len(res.Files), humanize.Bytes(total), outDir)
}
