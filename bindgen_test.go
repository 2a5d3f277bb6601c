package bindgen

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/libnativeapi/bindgen/cdecl"
	"github.com/libnativeapi/bindgen/generator"
	"github.com/libnativeapi/bindgen/ir"
	"github.com/libnativeapi/bindgen/mapper"
	"github.com/libnativeapi/bindgen/sink"
)

const (
	wantBindings = "language: dart\n" +
		"const maxWindows = 16\n" +
		"Int32 WindowCreate(Pointer<Utf8> title, na_point_t origin)\n"
	wantFile = "// include/nativeapi.h\n" +
		"struct Point x:Double y:Double\n"
)

func loadProject(t *testing.T) *Config {
	t.Helper()
	cfg, err := LoadConfig(filepath.Join("testdata", "project", "bindgen.yaml"))
	require.NoError(t, err)
	return cfg
}

func readFile(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
	require.NoError(t, err)
	return string(data)
}

// staticProvider serves a fixed declaration tree.
type staticProvider struct {
	root *cdecl.Decl
	err  error
}

func (p staticProvider) Parse(ctx context.Context, req cdecl.Request) (*cdecl.Decl, error) {
	return p.root, p.err
}

func unresolvedTree(file string) *cdecl.Decl {
	return &cdecl.Decl{
		Kind: cdecl.KindTranslationUnit,
		Children: []*cdecl.Decl{{
			Kind:     cdecl.KindFunction,
			Name:     "na_window_open",
			Location: cdecl.Location{File: file, Line: 3},
			Result:   &cdecl.TypeRef{Kind: cdecl.TypeVoid},
			Children: []*cdecl.Decl{{
				Kind: cdecl.KindParam,
				Name: "options",
				Type: &cdecl.TypeRef{Kind: cdecl.TypeTypedef, Name: "na_options_t"},
			}},
		}},
	}
}

func TestRun(t *testing.T) {
	cfg := loadProject(t)
	out := t.TempDir()
	dump := filepath.Join(t.TempDir(), "ir", "module.json")

	res, err := Run(context.Background(), cfg, Options{OutDir: out, DumpIR: dump})
	require.NoError(t, err)

	assert.Equal(t, []string{"bindings.txt", "include/nativeapi.g.txt"}, res.Files)
	assert.Equal(t, wantBindings, readFile(t, out, "bindings.txt"))
	assert.Equal(t, wantFile, readFile(t, out, "include/nativeapi.g.txt"))

	require.NotNil(t, res.Module.File("include/nativeapi.h"))
	reloaded, err := ir.ReadJSONFile(dump)
	require.NoError(t, err)
	assert.True(t, ir.Equal(res.Module, reloaded), "the IR dump reloads to the same module")
}

func TestRunIsDeterministic(t *testing.T) {
	cfg := loadProject(t)
	a, b := sink.NewMemorySink(), sink.NewMemorySink()

	_, err := FromConfig(cfg).ToSink(a)
	require.NoError(t, err)
	_, err = FromConfig(cfg).ToSink(b)
	require.NoError(t, err)

	assert.Equal(t, a.Files(), b.Files())
	assert.Equal(t, a.Order(), b.Order())
}

func TestRunMissingTemplateRoot(t *testing.T) {
	cfg := loadProject(t)
	cfg.TemplateDir = "no-such-templates"
	out := t.TempDir()

	called := false
	provider := staticProvider{root: &cdecl.Decl{Kind: cdecl.KindTranslationUnit}}
	_, err := Run(context.Background(), cfg, Options{
		OutDir:   out,
		Provider: countingProvider{provider, &called},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, generator.ErrTemplateRootMissing))
	assert.False(t, called, "headers are not parsed without templates")

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

type countingProvider struct {
	cdecl.Provider
	called *bool
}

func (p countingProvider) Parse(ctx context.Context, req cdecl.Request) (*cdecl.Decl, error) {
	*p.called = true
	return p.Provider.Parse(ctx, req)
}

func TestRunUnresolvedType(t *testing.T) {
	cfg := loadProject(t)
	header := filepath.Join(cfg.ConfigDir, "include", "options.h")
	out := t.TempDir()

	_, err := FromConfig(cfg).
		Set("mapping.passthrough_unknown=false").
		WithProvider(staticProvider{root: unresolvedTree(header)}).
		ToDir(out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, mapper.ErrUnresolvedType))
	assert.Contains(t, err.Error(), "include/options.h")
	assert.Contains(t, err.Error(), "na_options_t")

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing is written when mapping fails")
}

func TestRunDefaultType(t *testing.T) {
	cfg := loadProject(t)
	header := filepath.Join(cfg.ConfigDir, "include", "options.h")
	mem := sink.NewMemorySink()

	_, err := FromConfig(cfg).
		Set("mapping.passthrough_unknown=false", "mapping.default_type=Opaque").
		WithProvider(staticProvider{root: unresolvedTree(header)}).
		ToSink(mem)
	require.NoError(t, err)
	assert.Contains(t, string(mem.Get("bindings.txt")), "void WindowOpen(Opaque options)")
}

func TestRunHeaderOutsideProject(t *testing.T) {
	cfg := loadProject(t)
	header := filepath.Join(t.TempDir(), "sdk", "size.h")
	tree := &cdecl.Decl{Kind: cdecl.KindTranslationUnit, Children: []*cdecl.Decl{{
		Kind:         cdecl.KindStruct,
		Name:         "na_size_t",
		Location:     cdecl.Location{File: header, Line: 1},
		IsDefinition: true,
		Children: []*cdecl.Decl{{
			Kind: cdecl.KindField,
			Name: "w",
			Type: &cdecl.TypeRef{Kind: cdecl.TypeBuiltin, Name: "double"},
		}},
	}}}
	mem := sink.NewMemorySink()

	_, err := FromConfig(cfg).WithProvider(staticProvider{root: tree}).ToSink(mem)
	require.NoError(t, err)

	out := strings.TrimPrefix(filepath.ToSlash(filepath.Dir(header)), "/") + "/size.g.txt"
	require.Contains(t, mem.Order(), out)
	assert.Equal(t, "// "+filepath.ToSlash(header)+"\nstruct Size w:Double\n", string(mem.Get(out)))
}

func TestRunProviderError(t *testing.T) {
	cfg := loadProject(t)
	_, err := Run(context.Background(), cfg, Options{
		Sink:     sink.NewMemorySink(),
		Provider: staticProvider{err: errors.New("no such header")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing headers")
	assert.Contains(t, err.Error(), "no such header")
}

func TestRunRequiresOutput(t *testing.T) {
	cfg := loadProject(t)
	_, err := Run(context.Background(), cfg, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestBuilderToSink(t *testing.T) {
	mem := sink.NewMemorySink()
	res, err := FromFile(filepath.Join("testdata", "project", "bindgen.yaml")).
		Set("mapping.language=kotlin").
		ToSink(mem)
	require.NoError(t, err)
	assert.Len(t, res.Files, 2)
	assert.True(t, strings.HasPrefix(string(mem.Get("bindings.txt")), "language: kotlin\n"))
}

func TestBuilderLoadError(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "absent.yaml")).ToSink(sink.NewMemorySink())
	assert.Error(t, err)
}

func TestRunFormatters(t *testing.T) {
	t.Run("run over the output", func(t *testing.T) {
		cfg := loadProject(t)
		cfg.Formatters = []generator.Formatter{{
			Name:    "stamp",
			Command: []string{"sh -c 'cat {output_dir}/bindings.txt > {output_dir}/stamp'"},
		}}
		out := t.TempDir()
		_, err := Run(context.Background(), cfg, Options{OutDir: out})
		require.NoError(t, err)
		assert.Equal(t, wantBindings, readFile(t, out, "stamp"))
	})

	t.Run("failure aborts", func(t *testing.T) {
		cfg := loadProject(t)
		cfg.Formatters = []generator.Formatter{{Name: "broken", Command: []string{"sh", "-c", "exit 3"}}}
		_, err := Run(context.Background(), cfg, Options{OutDir: t.TempDir()})
		require.Error(t, err)
		assert.True(t, errors.Is(err, generator.ErrFormatterFailed))
	})

	t.Run("continue on error", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		cfg := loadProject(t)
		cfg.Formatters = []generator.Formatter{{Name: "broken", Command: []string{"sh", "-c", "exit 3"}, ContinueOnError: true}}
		_, err := Run(context.Background(), cfg, Options{OutDir: t.TempDir(), Logger: zap.New(core)})
		require.NoError(t, err)
		assert.Equal(t, 1, logs.FilterMessage("formatter failed, continuing").Len())
	})

	t.Run("skipped", func(t *testing.T) {
		cfg := loadProject(t)
		cfg.Formatters = []generator.Formatter{{Name: "broken", Command: []string{"sh", "-c", "exit 3"}}}
		_, err := FromConfig(cfg).WithoutFormatters().ToDir(t.TempDir())
		assert.NoError(t, err)
	})
}
