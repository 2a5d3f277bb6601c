package generator

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/libnativeapi/bindgen/internal/logging"
)

func TestFormatterArgv(t *testing.T) {
	vars := Vars{OutputDir: "/out", ConfigDir: "/cfg", Cwd: "/work"}
	tests := []struct {
		name    string
		command []string
		want    []string
		wantErr bool
	}{
		{"argv", []string{"dart", "format", "{output_dir}"}, []string{"dart", "format", "/out"}, false},
		{"single string", []string{"clang-format -i --style=file:{config_dir}/.clang-format {output_dir}/a.h"},
			[]string{"clang-format", "-i", "--style=file:/cfg/.clang-format", "/out/a.h"}, false},
		{"quoted", []string{`sh -c 'echo "{cwd}"'`}, []string{"sh", "-c", `echo "/work"`}, false},
		{"unterminated quote", []string{`sh -c 'oops`}, nil, true},
		{"empty", []string{""}, nil, true},
		{"no command", nil, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Formatter{Name: tt.name, Command: tt.command}.Argv(vars)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRunFormatters(t *testing.T) {
	out := t.TempDir()
	vars := Vars{OutputDir: out, Cwd: out}
	touch := func(name string) Formatter {
		return Formatter{Name: name, Command: []string{"sh", "-c", "echo " + name + " > {output_dir}/" + name}}
	}
	exists := func(name string) bool {
		_, err := os.Stat(filepath.Join(out, name))
		return err == nil
	}

	t.Run("in order", func(t *testing.T) {
		require.NoError(t, RunFormatters(context.Background(), []Formatter{touch("first"), touch("second")}, vars, nil))
		assert.True(t, exists("first"))
		assert.True(t, exists("second"))
	})

	t.Run("non-zero exit aborts", func(t *testing.T) {
		err := RunFormatters(context.Background(), []Formatter{
			{Name: "broken", Command: []string{"sh", "-c", "echo bad; exit 3"}},
			touch("after-abort"),
		}, vars, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrFormatterFailed))
		var fe *FormatterError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, "broken", fe.Name)
		assert.Equal(t, "bad\n", fe.Output)
		assert.False(t, exists("after-abort"))
	})

	t.Run("missing executable aborts", func(t *testing.T) {
		err := RunFormatters(context.Background(), []Formatter{
			{Name: "ghost", Command: []string{"bindgen-no-such-formatter"}},
		}, vars, nil)
		assert.True(t, errors.Is(err, ErrFormatterFailed))
	})

	t.Run("continue on error", func(t *testing.T) {
		core, logs := observer.New(zap.InfoLevel)
		err := RunFormatters(context.Background(), []Formatter{
			{Name: "ghost", Command: []string{"bindgen-no-such-formatter"}, ContinueOnError: true},
			{Name: "broken", Command: []string{"false"}, ContinueOnError: true},
			touch("after-continue"),
		}, vars, zap.New(core))
		require.NoError(t, err)
		assert.True(t, exists("after-continue"))
		assert.Equal(t, 2, logs.FilterMessage("formatter failed, continuing").Len())
		assert.Equal(t, 2, logs.FilterMessage("formatter").Len(), "started formatters are logged")
	})
}

func TestFormatterOutputAtDefaultVerbosity(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Options{Verbosity: 0, Output: &buf})
	vars := Vars{Cwd: t.TempDir()}

	err := RunFormatters(context.Background(), []Formatter{
		{Name: "fmt", Command: []string{"sh", "-c", "echo OK-DIAG"}},
		{Name: "lint", Command: []string{"sh", "-c", "echo LINT$((40+2)); exit 1"}},
	}, vars, log)
	require.Error(t, err)

	assert.Contains(t, buf.String(), "OK-DIAG")
	assert.NotContains(t, buf.String(), "argv", "info lines stay hidden")
	assert.Contains(t, err.Error(), "LINT42")
	assert.Contains(t, err.Error(), "exit status 1")
}

func TestFormatterErrorUnwrap(t *testing.T) {
	err := RunFormatters(context.Background(), []Formatter{
		{Name: "broken", Command: []string{"sh", "-c", "exit 7"}},
	}, Vars{Cwd: t.TempDir()}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFormatterFailed))

	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 7, exitErr.ExitCode())

	err = RunFormatters(context.Background(), []Formatter{
		{Name: "ghost", Command: []string{"bindgen-no-such-formatter"}},
	}, Vars{Cwd: t.TempDir()}, nil)
	assert.True(t, errors.Is(err, exec.ErrNotFound))
}
