package generator

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"
)

// ErrFormatterFailed is matched by every *FormatterError.
var ErrFormatterFailed = errors.New("formatter failed")

// Formatter is a command run over the output after generation.
type Formatter struct {
	Name string `mapstructure:"name" yaml:"name" validate:"required"`

	// Command is the argv. A single element is split with shell quoting
	// rules, so "dart format {output_dir}" works as one string.
	Command []string `mapstructure:"command" yaml:"command" validate:"required,min=1,dive,required"`

	// ContinueOnError logs a failure as a warning instead of aborting.
	ContinueOnError bool `mapstructure:"continue_on_error" yaml:"continue_on_error"`
}

// FormatterError reports a formatter that could not be started or exited
// non-zero.
type FormatterError struct {
	Name   string
	Argv   []string
	Output string
	Err    error
}

func (e *FormatterError) Error() string {
	msg := fmt.Sprintf("formatter %s (%s): %v", e.Name, strings.Join(e.Argv, " "), e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\n" + out
	}
	return msg
}

// Unwrap exposes both ErrFormatterFailed and the underlying cause, such as
// an *exec.ExitError.
func (e *FormatterError) Unwrap() []error { return []error{ErrFormatterFailed, e.Err} }

// Vars are the placeholder values substituted into formatter commands.
type Vars struct {
	OutputDir string
	ConfigDir string
	Cwd       string
}

func (v Vars) replacer() *strings.Replacer {
	return strings.NewReplacer(
		"{output_dir}", v.OutputDir,
		"{config_dir}", v.ConfigDir,
		"{cwd}", v.Cwd,
	)
}

// Argv returns the formatter's command with placeholders substituted.
func (f Formatter) Argv(vars Vars) ([]string, error) {
	args := f.Command
	if len(args) == 1 {
		split, err := shellquote.Split(args[0])
		if err != nil {
			return nil, errors.Wrapf(err, "formatter %s: command", f.Name)
		}
		args = split
	}
	if len(args) == 0 {
		return nil, errors.Newf("formatter %s: empty command", f.Name)
	}
	r := vars.replacer()
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = r.Replace(a)
	}
	return out, nil
}

// RunFormatters runs formatters in order, each to completion, from vars.Cwd.
// A failing formatter aborts the remaining ones unless it is marked
// ContinueOnError.
func RunFormatters(ctx context.Context, formatters []Formatter, vars Vars, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	for _, f := range formatters {
		err := runFormatter(ctx, f, vars, log)
		if err == nil {
			continue
		}
		if !f.ContinueOnError {
			return err
		}
		log.Warn("formatter failed, continuing", zap.String("formatter", f.Name), zap.Error(err))
	}
	return nil
}

func runFormatter(ctx context.Context, f Formatter, vars Vars, log *zap.Logger) error {
	argv, err := f.Argv(vars)
	if err != nil {
		return err
	}
	path, err := exec.LookPath(argv[0])
	if err != nil {
		return &FormatterError{Name: f.Name, Argv: argv, Err: err}
	}
	cmd := exec.CommandContext(ctx, path, argv[1:]...)
	cmd.Dir = vars.Cwd
	out, err := cmd.CombinedOutput()
	log.Info("formatter", zap.String("formatter", f.Name), zap.Strings("argv", argv))
	if err != nil {
		return &FormatterError{Name: f.Name, Argv: argv, Output: string(out), Err: err}
	}
	// Failures carry their output in the error; successful runs that print
	// anything are shown at the default level.
	if len(bytes.TrimSpace(out)) > 0 {
		log.Warn("formatter output", zap.String("formatter", f.Name), zap.ByteString("output", bytes.TrimSpace(out)))
	}
	return nil
}
