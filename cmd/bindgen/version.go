package main

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
)

//go:embed VERSION
var embeddedVersion string

// buildInfo describes the running binary.
type buildInfo struct {
	Version   string
	Revision  string
	Modified  bool
	GoVersion string
}

func readBuildInfo() buildInfo {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		info = nil
	}
	return newBuildInfo(strings.TrimSpace(embeddedVersion), info)
}

// newBuildInfo prefers the module version of installed builds. Source
// builds report "devel-<base>", with "+<rev>" when a VCS revision is
// stamped.
func newBuildInfo(base string, info *debug.BuildInfo) buildInfo {
	b := buildInfo{Version: base, GoVersion: runtime.Version()}
	if info == nil {
		return b
	}
	if info.GoVersion != "" {
		b.GoVersion = info.GoVersion
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			b.Revision = s.Value
		case "vcs.modified":
			b.Modified = s.Value == "true"
		}
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		b.Version = v
		return b
	}
	b.Version = "devel-" + base
	if len(b.Revision) >= 7 {
		b.Version += "+" + b.Revision[:7]
		if b.Modified {
			b.Version += "-dirty"
		}
	}
	return b
}

type VersionCmd struct {
	Long bool `help:"Also print the revision, Go version and platform." short:"l"`
}

func (c *VersionCmd) Run() error {
	return c.write(os.Stdout, readBuildInfo())
}

func (c *VersionCmd) write(w io.Writer, b buildInfo) error {
	if !c.Long {
		_, err := fmt.Fprintln(w, b.Version)
		return err
	}
	rev := b.Revision
	if rev == "" {
		rev = "unknown"
	} else if b.Modified {
		rev += " (modified)"
	}
	_, err := fmt.Fprintf(w, "bindgen %s\nrevision: %s\ngo: %s\nplatform: %s/%s\n",
		b.Version, rev, b.GoVersion, runtime.GOOS, runtime.GOARCH)
	return err
}
