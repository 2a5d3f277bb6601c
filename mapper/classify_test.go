package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libnativeapi/bindgen/ir"
)

func TestClassify(t *testing.T) {
	boolean := ir.Primitive("bool")
	tests := []struct {
		name   string
		method ir.Method
		want   Classification
	}{
		{"constructor", ir.Method{Name: "Window", Kind: ir.MethodConstructor, ReturnType: ir.Void()},
			Classification{Role: RoleSkip}},
		{"destructor", ir.Method{Name: "~Window", Kind: ir.MethodDestructor, ReturnType: ir.Void()},
			Classification{Role: RoleSkip}},
		{"singleton accessor", ir.Method{Name: "GetInstance", Static: true, ReturnType: ir.PointerTo(ir.Named("Window", ir.DeclClass))},
			Classification{Role: RoleSkip}},
		{"getter", ir.Method{Name: "GetWidth", ReturnType: ir.Primitive("double")},
			Classification{Role: RoleGetter, Property: "width"}},
		{"getter compound", ir.Method{Name: "GetWindowTitle", ReturnType: ir.PointerTo(constChar)},
			Classification{Role: RoleGetter, Property: "windowTitle"}},
		{"void getter is a method", ir.Method{Name: "GetNothing", ReturnType: ir.Void()},
			Classification{Role: RoleMethod}},
		{"getter with params is a method", ir.Method{Name: "GetItem", ReturnType: ir.Primitive("int"),
			Params: []ir.Param{{Name: "index", Type: ir.Primitive("int")}}},
			Classification{Role: RoleMethod}},
		{"bare prefix", ir.Method{Name: "Get", ReturnType: ir.Primitive("int")},
			Classification{Role: RoleMethod}},
		{"bool property", ir.Method{Name: "IsVisible", Const: true, ReturnType: boolean},
			Classification{Role: RoleBoolProperty, Property: "isVisible"}},
		{"has property", ir.Method{Name: "HasShadow", ReturnType: boolean},
			Classification{Role: RoleBoolProperty, Property: "hasShadow"}},
		{"bool table type", ir.Method{Name: "IsFocused", ReturnType: ir.Named("BOOL", ir.DeclTypedef)},
			Classification{Role: RoleBoolProperty, Property: "isFocused"}},
		{"predicate returning int", ir.Method{Name: "IsCount", ReturnType: ir.Primitive("int")},
			Classification{Role: RoleMethod}},
		{"plain", ir.Method{Name: "Show", ReturnType: ir.Void()},
			Classification{Role: RoleMethod}},
	}

	cfg := dartConfig()
	cfg.Types["BOOL"] = "Flag"
	cfg.Options.BoolTypes = []string{"Bool", "Flag"}
	m := New(cfg, nil)
	class := &ir.Class{Name: "Window"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method, err := m.MapMethod(class, &tt.method)
			require.NoError(t, err)
			assert.Equal(t, tt.want, method.Classification)
		})
	}
}

func TestClassifyCustomPrefixes(t *testing.T) {
	cfg := Config{Options: Options{
		GetterPrefix:       "get_",
		PredicatePrefixes:  []string{"can_"},
		SingletonAccessors: []string{"shared"},
	}}
	m := New(cfg, nil)
	class := &ir.Class{Name: "Clipboard"}
	cases := map[string]Classification{
		"get_text":  {Role: RoleGetter, Property: "text"},
		"can_paste": {Role: RoleBoolProperty, Property: "can_paste"},
		"shared":    {Role: RoleSkip},
		"GetText":   {Role: RoleMethod},
	}
	for name, want := range cases {
		ret := ir.Type(ir.Primitive("int"))
		if name == "can_paste" {
			ret = ir.Primitive("bool")
		}
		method, err := m.MapMethod(class, &ir.Method{Name: name, ReturnType: ret})
		require.NoError(t, err)
		assert.Equal(t, want, method.Classification, name)
	}
}
