package check

import (
	"context"
	"os"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/libnativeapi/bindgen"
	"github.com/libnativeapi/bindgen/cmd/bindgen/internal/cli"
)

// ErrStale is returned when the checked directory is out of date.
var ErrStale = errors.New("generated files are out of date")

type Cmd struct {
	Out  string `arg:"" help:"Directory holding previously generated files." type:"path"`
	Diff bool   `help:"Print a line diff for each changed file." short:"d"`
}

func (c *Cmd) Run(ctx context.Context, g *cli.Globals) error {
	log := g.Logger()
	defer log.Sync() //nolint:errcheck

	cfg, err := g.LoadConfig()
	if err != nil {
		return err
	}
	res, err := bindgen.Check(ctx, cfg, c.Out, bindgen.Options{Logger: log})
	if err != nil {
		return err
	}

	p := cli.NewPrinter(os.Stdout)
	stale := res.Stale()
	for _, f := range stale {
		p.Fail("%s: %s", f.Path, f.Status)
		if c.Diff && f.Diff != "" {
			p.Plain("%s", strings.TrimSuffix(f.Diff, "\n"))
		}
	}
	if len(stale) > 0 {
		return errors.WithHint(
			errors.Wrapf(ErrStale, "%d of %d files", len(stale), len(res.Files)),
			"run bindgen gen --out "+c.Out+" to regenerate")
	}
	p.OK("%d files up to date in %s", len(res.Files), c.Out)
	return nil
}
