package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"github.com/libnativeapi/bindgen/cmd/bindgen/internal/check"
	"github.com/libnativeapi/bindgen/cmd/bindgen/internal/cli"
	"github.com/libnativeapi/bindgen/cmd/bindgen/internal/dump"
	"github.com/libnativeapi/bindgen/cmd/bindgen/internal/gen"
)

type CLI struct {
	cli.Globals

	Version VersionCmd `cmd:"" help:"Print version information."`
	Gen     gen.Cmd    `cmd:"" help:"Generate bindings from the configured headers and templates."`
	Check   check.Cmd  `cmd:"" help:"Report generated files that are missing or out of date."`
	IR      dump.Cmd   `cmd:"" name:"ir" help:"Print the normalized IR as JSON."`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &CLI{}
	kctx := kong.Parse(c,
		kong.Name("bindgen"),
		kong.Description("Generate target-language bindings for C and C++ headers."),
		kong.UsageOnError(),
		kong.Bind(&c.Globals),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	if c.NoColor {
		color.NoColor = true
	}

	if err := kctx.Run(); err != nil {
		cli.NewPrinter(os.Stderr).Error(err)
		stop()
		os.Exit(1)
	}
}
