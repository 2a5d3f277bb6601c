package mapper

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libnativeapi/bindgen/ir"
	"github.com/libnativeapi/bindgen/naming"
)

func dartNamer(t *testing.T) *naming.Transformer {
	t.Helper()
	namer, err := naming.NewTransformer(naming.Config{
		StripPrefixes: []string{"na_", "NA_"},
		StripSuffixes: []string{"_t"},
		TypeName:      "pascal_case",
		EnumName:      "pascal_case",
		EnumValueName: "camel_case",
		FunctionName:  "pascal_case",
		MethodName:    "camel_case",
		FieldName:     "camel_case",
		ParamName:     "camel_case",
		ConstantName:  "camel_case",
		AliasName:     "pascal_case",
	})
	require.NoError(t, err)
	return namer
}

func sampleFile() *ir.File {
	return &ir.File{Items: []ir.Item{
		&ir.Constant{Name: "NA_MAX_WINDOWS", Type: ir.Primitive("int"), Value: int64(16)},
		&ir.Enum{Name: "na_window_state_t", Values: []ir.EnumValue{{Name: "NA_WINDOW_HIDDEN", Value: 4}}},
		&ir.Struct{Name: "na_point_t", Fields: []ir.Field{{Name: "x_pos", Type: ir.Primitive("double")}}},
		&ir.Alias{Name: "na_window_t", Target: ir.Named("na_window", ir.DeclStruct)},
		&ir.Function{
			Name:          "na_window_create",
			QualifiedName: "na_window_create",
			ReturnType:    ir.PointerTo(ir.Named("na_window_t", ir.DeclTypedef)),
			Params:        []ir.Param{{Name: "title", Type: ir.PointerTo(constChar)}},
			Documentation: ir.Documentation{Summary: "Creates a window."},
		},
		&ir.Class{
			Name:          "Window",
			QualifiedName: "nativeapi::Window",
			Bases:         []string{"EventEmitter"},
			Methods: []ir.Method{
				{Name: "Window", Kind: ir.MethodConstructor, ReturnType: ir.Void()},
				{Name: "GetTitle", Kind: ir.MethodPlain, Const: true, ReturnType: ir.PointerTo(constChar)},
			},
		},
	}}
}

func TestMapFile(t *testing.T) {
	m := New(bridgeConfig(), dartNamer(t))
	f, err := m.MapFile(sampleFile())
	require.NoError(t, err)
	require.Len(t, f.Items, 6)

	var kinds []string
	for _, it := range f.Items {
		kinds = append(kinds, it.ItemKind())
	}
	assert.Equal(t, []string{"constant", "enum", "struct", "alias", "function", "class"}, kinds)

	c := f.Constants()[0]
	assert.Equal(t, "maxWindows", c.Name)
	assert.Equal(t, int64(16), c.Value)
	assert.Equal(t, "Int32", c.Type.Mapped)

	e := f.Enums()[0]
	assert.Equal(t, "WindowState", e.Name)
	assert.Equal(t, []EnumValue{{Name: "windowHidden", Value: 4}}, e.Values)

	s := f.Structs()[0]
	assert.Equal(t, "Point", s.Name)
	assert.Equal(t, "xPos", s.Fields[0].Name)
	assert.Equal(t, "Double", s.Fields[0].Type.Mapped)
	assert.Same(t, &s.Raw.Fields[0], s.Fields[0].Raw)

	a := f.Aliases()[0]
	assert.Equal(t, "Window", a.Name)
	assert.Equal(t, "na_window", a.Target.Mapped)

	fn := f.Functions()[0]
	assert.Equal(t, "WindowCreate", fn.Name)
	assert.Equal(t, "Pointer<na_window_t>", fn.ReturnType.Mapped)
	assert.Equal(t, "native_na_window_create", fn.Symbol)
	assert.Equal(t, ReturnPlain, fn.ReturnBridge)
	assert.Equal(t, "Creates a window.", fn.Documentation.Summary)
	assert.Equal(t, []string{"title.toNativeUtf8()"}, fn.Params[0].Args)
	assert.Same(t, sampleFileFunction(f), fn.Raw)

	cls := f.Classes()[0]
	assert.Equal(t, "Window", cls.Name)
	assert.Equal(t, []string{"EventEmitter"}, cls.Bases)
	require.Len(t, cls.Methods, 2)
	assert.Equal(t, RoleSkip, cls.Methods[0].Role)
	getTitle := cls.Methods[1]
	assert.Equal(t, "getTitle", getTitle.Name)
	assert.Equal(t, RoleGetter, getTitle.Role)
	assert.Equal(t, "title", getTitle.Property)
	assert.Equal(t, "native_window_get_title", getTitle.Symbol)
	assert.Equal(t, "string", getTitle.ReturnBridge)
	assert.Equal(t, "free_c_str", getTitle.FreeSymbol)
	assert.Equal(t, []*Method{getTitle}, cls.Bindable())
}

func sampleFileFunction(f *File) *ir.Function {
	return f.Raw.Functions()[0]
}

func TestMapItemErrorNamesItem(t *testing.T) {
	cfg := Config{PassthroughUnknown: ptr(false), Types: map[string]string{"int": "int"}}
	m := New(cfg, nil)

	_, err := m.MapFile(&ir.File{Items: []ir.Item{
		&ir.Function{Name: "ok", ReturnType: ir.Primitive("int")},
		&ir.Function{Name: "broken", ReturnType: ir.Void(), Params: []ir.Param{{Name: "opts", Type: ir.Named("Options", ir.DeclStruct)}}},
	}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnresolvedType))
	assert.Contains(t, err.Error(), "function broken")
	assert.Contains(t, err.Error(), "param opts")
	assert.Contains(t, err.Error(), `"Options"`)
}

func TestMapFileNil(t *testing.T) {
	f, err := New(Config{}, nil).MapFile(nil)
	require.NoError(t, err)
	assert.Empty(t, f.Items)
}
