package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransform(t *testing.T) {
	tests := []struct {
		name string
		in   string
		rule Rule
		want string
	}{
		{
			name: "strip prefix then pascal",
			in:   "na_window_create",
			rule: Rule{Style: PascalCase, StripPrefixes: []string{"na_"}},
			want: "WindowCreate",
		},
		{
			name: "longest prefix wins",
			in:   "na_window_t",
			rule: Rule{Style: Original, StripPrefixes: []string{"na_", "na_window_"}, StripSuffixes: []string{"_t"}},
			want: "t",
		},
		{
			name: "only one prefix stripped",
			in:   "na_na_x",
			rule: Rule{StripPrefixes: []string{"na_"}},
			want: "na_x",
		},
		{
			name: "suffix stripped before style",
			in:   "WindowHandle",
			rule: Rule{Style: SnakeCase, StripSuffixes: []string{"Handle"}},
			want: "window",
		},
		{
			name: "affixes added after style",
			in:   "window_state",
			rule: Rule{Style: PascalCase, AddPrefix: "Na", AddSuffix: "Enum"},
			want: "NaWindowStateEnum",
		},
		{
			name: "no match keeps name",
			in:   "Window",
			rule: Rule{StripPrefixes: []string{"na_"}, StripSuffixes: []string{"_t"}},
			want: "Window",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Transform(tt.in, tt.rule))
		})
	}
}

func TestParseStyle(t *testing.T) {
	for in, want := range map[string]Style{
		"":                     Original,
		"snake_case":           SnakeCase,
		"camelCase":            CamelCase,
		"PascalCase":           PascalCase,
		"SCREAMING_SNAKE_CASE": ScreamingSnakeCase,
		"kebab-case":           KebabCase,
	} {
		got, err := ParseStyle(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseStyle("hungarian")
	assert.Error(t, err)
}

func TestTransformerCategories(t *testing.T) {
	tr, err := NewTransformer(Config{
		StripPrefixes: []string{"na_", "NA_"},
		StripSuffixes: []string{"_t"},
		FileName:      "snake_case",
		TypeName:      "pascal_case",
		FunctionName:  "pascal_case",
		EnumValueName: "camel_case",
		FieldName:     "camel_case",
		Rules: map[Category]CategoryRule{
			CategoryConstant: {Style: "screaming_snake_case", StripPrefixes: []string{}},
			CategoryClass:    {AddSuffix: "Ref"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "WindowCreate", tr.FunctionName("na_window_create"))
	assert.Equal(t, "WindowState", tr.TypeName("na_window_state_t"))
	assert.Equal(t, "windowNormal", tr.EnumValueName("NA_WINDOW_NORMAL"))
	assert.Equal(t, "window_manager", tr.FileName("WindowManager"))
	assert.Equal(t, "isVisible", tr.FieldName("is_visible"))
	// Constants opt out of prefix stripping.
	assert.Equal(t, "NA_MAX", tr.ConstantName("NA_MAX"))
	assert.Equal(t, "WindowRef", tr.ClassName("Window"))
	// Categories without a style keep the original spelling minus affixes.
	assert.Equal(t, "Foo", tr.MethodName("Foo"))
	assert.Equal(t, "size", tr.ParamName("size_t"))
}

func TestTransformerRejectsUnknownStyle(t *testing.T) {
	_, err := NewTransformer(Config{TypeName: "wat"})
	assert.ErrorContains(t, err, "naming type")
}

func TestIdentity(t *testing.T) {
	tr := Identity()
	for _, c := range Categories {
		assert.Equal(t, "na_Thing_t", tr.Apply(c, "na_Thing_t"))
	}
}
