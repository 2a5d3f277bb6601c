// Package dump implements "bindgen ir": parse and normalize the configured
// headers and print the IR without rendering templates.
package dump

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/libnativeapi/bindgen"
	"github.com/libnativeapi/bindgen/cmd/bindgen/internal/cli"
	"github.com/libnativeapi/bindgen/ir"
)

type Cmd struct {
	Out string `help:"Write the IR to this file instead of stdout." short:"o" type:"path"`
}

func (c *Cmd) Run(ctx context.Context, g *cli.Globals) error {
	log := g.Logger()
	defer log.Sync() //nolint:errcheck

	cfg, err := g.LoadConfig()
	if err != nil {
		return err
	}
	module, err := bindgen.Parse(ctx, cfg, bindgen.Options{Logger: log})
	if err != nil {
		return err
	}

	if c.Out != "" {
		if err := ir.WriteJSONFile(module, c.Out); err != nil {
			return err
		}
		cli.NewPrinter(os.Stderr).OK("%d items in %d files written to %s",
			module.ItemCount(), len(module.Files), c.Out)
		return nil
	}
	data, err := ir.MarshalIndent(module)
	if err != nil {
		return err
	}
	if _, err := os.Stdout.Write(data); err != nil {
		return errors.Wrap(err, "writing IR")
	}
	log.Debug("IR written", zap.String("size", humanize.Bytes(uint64(len(data)))))
	return nil
}
