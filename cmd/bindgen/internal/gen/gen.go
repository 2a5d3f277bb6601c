package gen

import (
	"context"
	"os"

	"github.com/libnativeapi/bindgen"
	"github.com/libnativeapi/bindgen/cmd/bindgen/internal/cli"
)

type Cmd struct {
	Out      string `help:"Output directory for generated files." short:"o" required:"" type:"path"`
	DumpIR   string `help:"Also write the normalized IR as JSON to this file." name:"dump-ir" type:"path"`
	Watch    bool   `help:"Watch headers, templates and the config, and regenerate." short:"w"`
	NoFormat bool   `help:"Skip the configured formatters." name:"no-format"`
}

func (c *Cmd) Run(ctx context.Context, g *cli.Globals) error {
	log := g.Logger()
	defer log.Sync() //nolint:errcheck

	cfg, err := g.LoadConfig()
	if err != nil {
		return err
	}
	opts := bindgen.Options{
		OutDir:         c.Out,
		DumpIR:         c.DumpIR,
		SkipFormatters: c.NoFormat,
		Logger:         log,
	}
	p := cli.NewPrinter(os.Stdout)

	if c.Watch {
		p.Plain("watching %s", cfg.Path)
		return bindgen.Watch(ctx, cfg, bindgen.WatchOptions{
			Options: opts,
			Sets:    g.Set,
			OnRun: func(res *bindgen.Result, err error) {
				if err != nil {
					p.Error(err)
					return
				}
				p.Written(c.Out, res)
			},
		})
	}

	res, err := bindgen.Run(ctx, cfg, opts)
	if err != nil {
		return err
	}
	p.Written(c.Out, res)
	if c.DumpIR != "" {
		p.OK("wrote IR to %s", c.DumpIR)
	}
	return nil
}
