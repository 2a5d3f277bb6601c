package bindgen

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// FileStatus is the state of one generated file relative to the checked
// directory.
type FileStatus string

const (
	StatusUpToDate FileStatus = "ok"
	StatusMissing  FileStatus = "missing"
	StatusChanged  FileStatus = "changed"
)

// FileCheck is the check result of one generated file.
type FileCheck struct {
	Path   string
	Status FileStatus

	// Diff is a line diff from the existing file to the generated one,
	// "-" and "+" prefixed. It is empty unless Status is StatusChanged.
	Diff string
}

// CheckResult lists every generated file.
type CheckResult struct {
	Files []FileCheck
}

// Stale returns the files that are missing or changed.
func (r *CheckResult) Stale() []FileCheck {
	var out []FileCheck
	for _, f := range r.Files {
		if f.Status != StatusUpToDate {
			out = append(out, f)
		}
	}
	return out
}

// UpToDate reports whether every generated file matches.
func (r *CheckResult) UpToDate() bool { return len(r.Stale()) == 0 }

// Check generates into a temporary directory, formatters included, and
// compares the result with outDir. Files in outDir that generation does not
// produce are ignored.
func Check(ctx context.Context, cfg *Config, outDir string, opts Options) (*CheckResult, error) {
	tmp, err := os.MkdirTemp("", "bindgen-check-*")
	if err != nil {
		return nil, errors.Wrap(err, "creating check directory")
	}
	defer os.RemoveAll(tmp)

	opts.OutDir = tmp
	opts.Sink = nil
	opts.DumpIR = ""
	res, err := Run(ctx, cfg, opts)
	if err != nil {
		return nil, err
	}

	out := &CheckResult{}
	for _, p := range res.Files {
		want, err := os.ReadFile(filepath.Join(tmp, filepath.FromSlash(p)))
		if err != nil {
			return nil, errors.Wrapf(err, "reading generated %s", p)
		}
		have, err := os.ReadFile(filepath.Join(outDir, filepath.FromSlash(p)))
		switch {
		case errors.Is(err, os.ErrNotExist):
			out.Files = append(out.Files, FileCheck{Path: p, Status: StatusMissing})
		case err != nil:
			return nil, errors.Wrapf(err, "reading %s", p)
		case bytes.Equal(have, want):
			out.Files = append(out.Files, FileCheck{Path: p, Status: StatusUpToDate})
		default:
			out.Files = append(out.Files, FileCheck{Path: p, Status: StatusChanged, Diff: lineDiff(string(have), string(want))})
		}
	}
	return out, nil
}

// lineDiff renders a line-mode diff of a to b.
func lineDiff(a, b string) string {
	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		default:
			continue
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}
