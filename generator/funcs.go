package generator

import (
	"bytes"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/cockroachdb/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/libnativeapi/bindgen/naming"
)

// funcMap returns the template filters. Name filters apply namer's rule for
// their category; include renders a partial from partials.
func funcMap(namer *naming.Transformer, partials func() *template.Template) template.FuncMap {
	return template.FuncMap{
		"snake_case":           naming.ToSnakeCase,
		"camel_case":           naming.ToCamelCase,
		"pascal_case":          naming.ToPascalCase,
		"screaming_snake_case": naming.ToScreamingSnakeCase,
		"kebab_case":           naming.ToKebabCase,
		"first_lower":          naming.FirstLower,
		"first_upper":          naming.FirstUpper,

		"lower":   strings.ToLower,
		"upper":   strings.ToUpper,
		"title":   func(s string) string { return cases.Title(language.Und).String(s) },
		"trim":    strings.TrimSpace,
		"replace": func(old, repl, s string) string { return strings.ReplaceAll(s, old, repl) },
		"join":    join,
		"indent":  indent,
		"quote":   strconv.Quote,
		"default": defaultValue,
		"add":     func(a, b int) int { return a + b },
		"sub":     func(a, b int) int { return a - b },

		"type_name":       namer.TypeName,
		"enum_name":       namer.EnumName,
		"enum_value_name": namer.EnumValueName,
		"function_name":   namer.FunctionName,
		"method_name":     namer.MethodName,
		"class_name":      namer.ClassName,
		"field_name":      namer.FieldName,
		"param_name":      namer.ParamName,
		"constant_name":   namer.ConstantName,
		"alias_name":      namer.AliasName,
		"file_name":       namer.FileName,

		"include": func(name string, data any) (string, error) {
			var buf bytes.Buffer
			if err := partials().ExecuteTemplate(&buf, name, data); err != nil {
				return "", errors.Wrapf(err, "include %q", name)
			}
			return buf.String(), nil
		},
	}
}

// join concatenates the elements of a slice, formatting non-strings with
// fmt's default verb.
func join(sep string, items any) (string, error) {
	switch v := items.(type) {
	case nil:
		return "", nil
	case []string:
		return strings.Join(v, sep), nil
	}
	rv := reflect.ValueOf(items)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return "", errors.Newf("join: expected a list, got %T", items)
	}
	parts := make([]string, rv.Len())
	for i := range parts {
		parts[i] = fmt.Sprint(rv.Index(i).Interface())
	}
	return strings.Join(parts, sep), nil
}

// indent prefixes every non-blank line of s with n spaces.
func indent(n int, s string) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if strings.TrimSpace(l) != "" {
			lines[i] = pad + l
		}
	}
	return strings.Join(lines, "\n")
}

// defaultValue returns v, or def when v is the zero value of its type.
func defaultValue(def, v any) any {
	if v == nil {
		return def
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.String, reflect.Array:
		if rv.Len() == 0 {
			return def
		}
	default:
		if rv.IsZero() {
			return def
		}
	}
	return v
}
