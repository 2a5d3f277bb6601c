package bindgen

import (
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gorilla/schema"
)

var overrideDecoder = schema.NewDecoder()

// Overrides are the config keys settable with --set key=value. A list key
// replaces the configured list; repeat it to give several elements.
type Overrides struct {
	TemplateDir  string   `schema:"template_dir"`
	EntryHeaders []string `schema:"entry_headers"`
	IncludePaths []string `schema:"include_paths"`
	ClangFlags   []string `schema:"clang_flags"`

	Filters struct {
		Allowlist    []string `schema:"allowlist_regex"`
		Denylist     []string `schema:"denylist_regex"`
		ExcludeDirs  []string `schema:"exclude_dirs"`
		ProjectRoot  string   `schema:"project_root"`
		IgnoreMarker string   `schema:"ignore_marker"`
	} `schema:"filters"`

	Mapping struct {
		Language            string `schema:"language"`
		VoidType            string `schema:"void_type"`
		PointerFormat       string `schema:"pointer_format"`
		ConstPointerFormat  string `schema:"const_pointer_format"`
		ArrayFormat         string `schema:"array_format"`
		ReferenceFormat     string `schema:"reference_format"`
		FunctionPointerType string `schema:"function_pointer_type"`
		TypePrefix          string `schema:"type_prefix"`
		TypeSuffix          string `schema:"type_suffix"`
		PassthroughUnknown  bool   `schema:"passthrough_unknown"`
		DefaultType         string `schema:"default_type"`

		Options struct {
			SymbolPrefix      string `schema:"symbol_prefix"`
			StringFreeDefault string `schema:"string_free_default"`
			GetterPrefix      string `schema:"getter_prefix"`
		} `schema:"options"`
	} `schema:"mapping"`
}

// typesPrefix addresses single entries of mapping.types, e.g.
// mapping.types.int=Int32.
const typesPrefix = "mapping.types."

// ApplyOverrides applies key=value pairs to cfg and re-validates it.
func ApplyOverrides(cfg *Config, sets []string) error {
	if len(sets) == 0 {
		return nil
	}
	values := url.Values{}
	types := map[string]string{}
	for _, kv := range sets {
		key, value, ok := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return errors.Mark(errors.Newf("override %q: expected key=value", kv), ErrInvalidConfig)
		}
		if name, ok := strings.CutPrefix(key, typesPrefix); ok {
			types[name] = value
			continue
		}
		values.Add(key, value)
	}

	o := overridesOf(cfg)
	if err := overrideDecoder.Decode(&o, values); err != nil {
		return errors.Mark(errors.Wrap(err, "overrides"), ErrInvalidConfig)
	}
	o.apply(cfg)

	if len(types) > 0 && cfg.Mapping.Types == nil {
		cfg.Mapping.Types = make(map[string]string, len(types))
	}
	for k, v := range types {
		cfg.Mapping.Types[k] = v
	}
	return cfg.Validate()
}

func overridesOf(cfg *Config) Overrides {
	var o Overrides
	o.TemplateDir = cfg.TemplateDir
	o.EntryHeaders = cfg.EntryHeaders
	o.IncludePaths = cfg.IncludePaths
	o.ClangFlags = cfg.ClangFlags

	f := &o.Filters
	f.Allowlist = cfg.Filters.Allowlist
	f.Denylist = cfg.Filters.Denylist
	f.ExcludeDirs = cfg.Filters.ExcludeDirs
	f.ProjectRoot = cfg.Filters.ProjectRoot
	f.IgnoreMarker = cfg.Filters.IgnoreMarker

	m := &o.Mapping
	mc := cfg.Mapping
	m.Language = mc.Language
	m.VoidType = mc.VoidType
	m.PointerFormat = mc.PointerFormat
	m.ConstPointerFormat = mc.ConstPointerFormat
	m.ArrayFormat = mc.ArrayFormat
	m.ReferenceFormat = mc.ReferenceFormat
	m.FunctionPointerType = mc.FunctionPointerType
	m.TypePrefix = mc.TypePrefix
	m.TypeSuffix = mc.TypeSuffix
	m.PassthroughUnknown = mc.Passthrough()
	m.DefaultType = mc.DefaultType
	m.Options.SymbolPrefix = mc.Options.SymbolPrefix
	m.Options.StringFreeDefault = mc.Options.StringFreeDefault
	m.Options.GetterPrefix = mc.Options.GetterPrefix
	return o
}

func (o *Overrides) apply(cfg *Config) {
	cfg.TemplateDir = o.TemplateDir
	cfg.EntryHeaders = o.EntryHeaders
	cfg.IncludePaths = o.IncludePaths
	cfg.ClangFlags = o.ClangFlags

	cfg.Filters.Allowlist = o.Filters.Allowlist
	cfg.Filters.Denylist = o.Filters.Denylist
	cfg.Filters.ExcludeDirs = o.Filters.ExcludeDirs
	cfg.Filters.ProjectRoot = o.Filters.ProjectRoot
	cfg.Filters.IgnoreMarker = o.Filters.IgnoreMarker

	m := o.Mapping
	mc := &cfg.Mapping
	mc.Language = m.Language
	mc.VoidType = m.VoidType
	mc.PointerFormat = m.PointerFormat
	mc.ConstPointerFormat = m.ConstPointerFormat
	mc.ArrayFormat = m.ArrayFormat
	mc.ReferenceFormat = m.ReferenceFormat
	mc.FunctionPointerType = m.FunctionPointerType
	mc.TypePrefix = m.TypePrefix
	mc.TypeSuffix = m.TypeSuffix
	if m.PassthroughUnknown != mc.Passthrough() {
		passthrough := m.PassthroughUnknown
		mc.PassthroughUnknown = &passthrough
	}
	mc.DefaultType = m.DefaultType
	mc.Options.SymbolPrefix = m.Options.SymbolPrefix
	mc.Options.StringFreeDefault = m.Options.StringFreeDefault
	mc.Options.GetterPrefix = m.Options.GetterPrefix
}
