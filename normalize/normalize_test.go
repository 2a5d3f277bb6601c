package normalize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libnativeapi/bindgen/cdecl"
	"github.com/libnativeapi/bindgen/ir"
)

func loadFixture(t *testing.T) *cdecl.Decl {
	t.Helper()
	root, err := cdecl.Load(filepath.Join("testdata", "nativeapi.yaml"))
	require.NoError(t, err)
	return root
}

func names(f *ir.File) []string {
	var out []string
	for _, it := range f.Items {
		out = append(out, it.ItemName())
	}
	return out
}

func TestNormalize(t *testing.T) {
	m, err := Normalize(loadFixture(t), Config{ProjectRoot: "/proj", ExcludeDirs: []string{"third_party"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"include/nativeapi.h", "include/window.h", "src/window.hpp"}, m.SortedPaths())

	t.Run("constants", func(t *testing.T) {
		consts := m.File("include/nativeapi.h").Constants()
		require.Len(t, consts, 4)
		assert.Equal(t, []string{"NA_MASK", "NA_MAX_WINDOWS", "NA_SCALE", "NA_VERSION"}, names(m.File("include/nativeapi.h")))
		assert.Equal(t, int64(255), consts[0].Value)
		assert.Equal(t, int64(16), consts[1].Value)
		assert.Equal(t, "int", ir.Spelling(consts[1].Type))
		assert.Equal(t, 1.5, consts[2].Value)
		assert.Equal(t, "double", ir.Spelling(consts[2].Type))
		assert.Equal(t, "1.0.0", consts[3].Value)
		assert.Equal(t, "const char*", ir.Spelling(consts[3].Type))
	})

	t.Run("c header", func(t *testing.T) {
		f := m.File("include/window.h")
		assert.Equal(t, []string{
			"na_callback_t", "na_log", "na_point_t", "na_size_t",
			"na_window_create", "na_window_state_t", "na_window_t",
		}, names(f))

		fns := f.Functions()
		require.Len(t, fns, 2)
		create := fns[1]
		assert.Equal(t, "na_window_create", create.QualifiedName)
		assert.Equal(t, "Creates a window.", create.Documentation.Summary)
		assert.Equal(t, "Creates a window.\n\nThe window starts hidden.", create.Documentation.Body)
		assert.Equal(t, ir.Source{File: "/proj/include/window.h", Line: 20, Column: 1}, create.Source)
		assert.Equal(t, "na_window_t*", ir.Spelling(create.ReturnType))
		require.Len(t, create.Params, 2)
		assert.Equal(t, "title", create.Params[0].Name)
		assert.Equal(t, "const char*", ir.Spelling(create.Params[0].Type))
		assert.Equal(t, "arg1", create.Params[1].Name)
		assert.Equal(t, ir.Primitive("size_t"), create.Params[1].Type)

		assert.True(t, fns[0].Variadic)
		assert.Equal(t, ir.KindVoid, fns[0].ReturnType.Kind())

		enums := f.Enums()
		require.Len(t, enums, 1)
		assert.Equal(t, []ir.EnumValue{
			{Name: "NA_WINDOW_NORMAL", Value: 0},
			{Name: "NA_WINDOW_HIDDEN", Value: 4},
			{Name: "NA_WINDOW_MAXIMIZED", Value: 5},
		}, enums[0].Values)

		structs := f.Structs()
		require.Len(t, structs, 2)
		assert.Equal(t, "na_point_t", structs[0].Name)
		assert.Equal(t, []ir.Field{
			{Name: "x", Type: ir.Primitive("double")},
			{Name: "y", Type: ir.Primitive("double")},
		}, structs[0].Fields)
		assert.Equal(t, "unsigned int[2]", ir.Spelling(structs[1].Fields[0].Type))

		aliases := f.Aliases()
		require.Len(t, aliases, 2)
		assert.Equal(t, ir.KindFunctionPointer, aliases[0].Target.Kind())
		assert.Equal(t, ir.Named("na_window", ir.DeclStruct), aliases[1].Target)
	})

	t.Run("cpp header", func(t *testing.T) {
		f := m.File("src/window.hpp")
		assert.Equal(t, []string{"Options", "Window", "WindowState"}, names(f))

		opts := f.Structs()[0]
		assert.Equal(t, "nativeapi::Window::Options", opts.QualifiedName)

		state := f.Enums()[0]
		assert.True(t, state.Scoped)
		assert.Equal(t, "nativeapi::WindowState", state.QualifiedName)

		cls := f.Classes()[0]
		assert.Equal(t, "nativeapi::Window", cls.QualifiedName)
		assert.Equal(t, "A native window.", cls.Documentation.Summary)
		assert.Equal(t, []string{"EventEmitter"}, cls.Bases)
		assert.Equal(t, []ir.Field{{Name: "tag", Type: ir.Primitive("long long")}}, cls.Fields)

		var methods []string
		for _, m := range cls.Methods {
			methods = append(methods, m.Name)
		}
		assert.Equal(t, []string{"Window", "~Window", "GetTitle", "SetTitle", "GetInstance"}, methods)

		ctor, dtor := cls.Methods[0], cls.Methods[1]
		assert.Equal(t, ir.MethodConstructor, ctor.Kind)
		assert.Equal(t, ir.KindVoid, ctor.ReturnType.Kind())
		assert.Equal(t, ir.MethodDestructor, dtor.Kind)

		getTitle := cls.Methods[2]
		assert.True(t, getTitle.Const)
		assert.Equal(t, ir.AccessPublic, getTitle.Access)
		assert.Equal(t, ir.Named("std::string", ir.DeclElaborated), getTitle.ReturnType)
		assert.Equal(t, "Returns the title.", getTitle.Documentation.Summary)

		assert.Equal(t, "const std::string&", ir.Spelling(cls.Methods[3].Params[0].Type))
		assert.True(t, cls.Methods[4].Static)
		assert.Equal(t, "Window*", ir.Spelling(cls.Methods[4].ReturnType))
	})
}

func TestNormalizeFilters(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		files map[string][]string
	}{
		{
			name: "allowlist",
			cfg:  Config{ProjectRoot: "/proj", Allowlist: []string{"^na_window"}},
			files: map[string][]string{
				"include/window.h": {"na_window_create", "na_window_state_t", "na_window_t"},
			},
		},
		{
			name: "denylist wins over allowlist",
			cfg: Config{
				ProjectRoot: "/proj",
				Allowlist:   []string{"^na_window", "^vendor"},
				Denylist:    []string{"_t$"},
			},
			files: map[string][]string{
				"include/window.h":     {"na_window_create"},
				"third_party/vendor.h": {"vendor_helper"},
			},
		},
		{
			name: "unanchored search",
			cfg:  Config{ProjectRoot: "/proj", Allowlist: []string{"MAX"}, ExcludeDirs: []string{"src"}},
			files: map[string][]string{
				"include/nativeapi.h": {"NA_MAX_WINDOWS"},
			},
		},
		{
			name: "custom ignore marker",
			cfg:  Config{ProjectRoot: "/proj", Allowlist: []string{"^na_(window_create|internal)"}, IgnoreMarker: "Creates"},
			files: map[string][]string{
				"include/window.h": {"na_internal_reset"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Normalize(loadFixture(t), tt.cfg)
			require.NoError(t, err)
			got := make(map[string][]string)
			for _, p := range m.SortedPaths() {
				got[p] = names(m.File(p))
			}
			assert.Equal(t, tt.files, got)
		})
	}
}

func TestNormalizeMethodFilter(t *testing.T) {
	m, err := Normalize(loadFixture(t), Config{ProjectRoot: "/proj", Allowlist: []string{"^Window$", "^Get"}})
	require.NoError(t, err)
	classes := m.File("src/window.hpp").Classes()
	require.Len(t, classes, 1)
	var methods []string
	for _, m := range classes[0].Methods {
		methods = append(methods, m.Name)
	}
	assert.Equal(t, []string{"Window", "~Window", "GetTitle", "GetInstance"}, methods)
}

func TestNormalizeDeterministic(t *testing.T) {
	cfg := Config{ProjectRoot: "/proj"}
	a, err := Normalize(loadFixture(t), cfg)
	require.NoError(t, err)
	b, err := Normalize(loadFixture(t), cfg)
	require.NoError(t, err)
	assert.True(t, ir.Equal(a, b))

	ja, err := ir.MarshalIndent(a)
	require.NoError(t, err)
	jb, err := ir.MarshalIndent(b)
	require.NoError(t, err)
	assert.Equal(t, string(ja), string(jb))
}

func TestNormalizeInvalidPattern(t *testing.T) {
	_, err := Normalize(loadFixture(t), Config{Denylist: []string{"("}})
	assert.ErrorContains(t, err, "denylist")
}

func TestNormalizeEmpty(t *testing.T) {
	m, err := Normalize(nil, Config{})
	require.NoError(t, err)
	assert.Zero(t, m.ItemCount())

	m, err = Normalize(&cdecl.Decl{Kind: cdecl.KindTranslationUnit, Children: []*cdecl.Decl{
		{Kind: cdecl.KindFunction, Name: "nowhere"},
	}}, Config{})
	require.NoError(t, err)
	assert.Zero(t, m.ItemCount(), "declarations without a source file are dropped")
}

func TestNormalizeSkipsMalformed(t *testing.T) {
	root := &cdecl.Decl{Kind: cdecl.KindTranslationUnit, Children: []*cdecl.Decl{
		{
			Kind:     cdecl.KindFunction,
			Name:     "broken",
			Location: cdecl.Location{File: "/proj/a.h"},
			Children: []*cdecl.Decl{{Kind: cdecl.KindParam, Name: "x"}},
		},
		{
			Kind:     cdecl.KindFunction,
			Name:     "ok",
			Location: cdecl.Location{File: "/proj/a.h"},
		},
	}}
	m, err := Normalize(root, Config{ProjectRoot: "/proj"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, names(m.File("a.h")))
}

func TestProjectRootDetection(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "CMakeLists.txt"), nil, 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "include", "sub"), 0o755))

	b := newBucketer("")
	assert.Equal(t, "include/sub/a.h", b.key(filepath.Join(dir, "include", "sub", "a.h")))

	b = newBucketer(filepath.Join(dir, "include"))
	assert.Equal(t, "sub/a.h", b.key(filepath.Join(dir, "include", "sub", "a.h")))
	assert.Equal(t, "other/b.h", b.key(filepath.Join(dir, "other", "b.h")), "falls back to the detected root")
}

func TestNormalizeOutsideProjectRoot(t *testing.T) {
	outside := filepath.Join(t.TempDir(), "sdk", "include", "foo.h")
	root := &cdecl.Decl{Kind: cdecl.KindTranslationUnit, Children: []*cdecl.Decl{
		{Kind: cdecl.KindFunction, Name: "inside", Location: cdecl.Location{File: "/proj/include/a.h"}},
		{Kind: cdecl.KindFunction, Name: "foo_init", Location: cdecl.Location{File: outside}},
	}}
	m, err := Normalize(root, Config{ProjectRoot: "/proj"})
	require.NoError(t, err)

	key := filepath.ToSlash(outside)
	assert.Equal(t, []string{key, "include/a.h"}, m.SortedPaths())
	assert.Equal(t, []string{"foo_init"}, names(m.File(key)))
}

func TestWithin(t *testing.T) {
	rel, ok := within("/proj", "/proj/include/a.h")
	assert.True(t, ok)
	assert.Equal(t, "include/a.h", rel)

	_, ok = within("/proj", "/other/a.h")
	assert.False(t, ok)

	_, ok = within("/proj", "/project/a.h")
	assert.False(t, ok)
}

func TestExcluded(t *testing.T) {
	dirs := map[string]bool{"internal": true}
	assert.True(t, excluded("/proj/internal/a.h", dirs))
	assert.False(t, excluded("/proj/internals/a.h", dirs))
	assert.False(t, excluded("/proj/internal/a.h", nil))
}
