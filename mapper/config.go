// Package mapper resolves IR types into target-language type strings and
// attaches the call bridging metadata templates need to emit wrappers.
package mapper

import (
	"slices"

	"github.com/libnativeapi/bindgen/naming"
)

// Config is the mapping section of a bindgen configuration.
type Config struct {
	// Language names the target language. It is informational and exposed
	// to templates.
	Language string `mapstructure:"language" yaml:"language"`

	// Types maps C type spellings ("int", "const char*", "void*",
	// "function_pointer") to target type names.
	Types map[string]string `mapstructure:"types" yaml:"types"`

	VoidType string `mapstructure:"void_type" yaml:"void_type"`

	// Format strings. {inner} is the mapped pointee or referent, {element}
	// and {length} describe arrays. {length} is empty for unsized arrays.
	PointerFormat      string `mapstructure:"pointer_format" yaml:"pointer_format"`
	ConstPointerFormat string `mapstructure:"const_pointer_format" yaml:"const_pointer_format"`
	ArrayFormat        string `mapstructure:"array_format" yaml:"array_format"`
	ReferenceFormat    string `mapstructure:"reference_format" yaml:"reference_format"`

	FunctionPointerType  string `mapstructure:"function_pointer_type" yaml:"function_pointer_type"`
	VoidPointerType      string `mapstructure:"void_pointer_type" yaml:"void_pointer_type"`
	ConstCharPointerType string `mapstructure:"const_char_pointer_type" yaml:"const_char_pointer_type"`

	// TypePrefix and TypeSuffix wrap table hits and passed-through names.
	TypePrefix string `mapstructure:"type_prefix" yaml:"type_prefix"`
	TypeSuffix string `mapstructure:"type_suffix" yaml:"type_suffix"`

	// PassthroughUnknown keeps unmapped names as they are. Nil means true.
	PassthroughUnknown *bool `mapstructure:"passthrough_unknown" yaml:"passthrough_unknown"`

	// DefaultType replaces unmapped names when passthrough is disabled.
	DefaultType string `mapstructure:"default_type" yaml:"default_type"`

	Naming  naming.Config `mapstructure:"naming" yaml:"naming"`
	Options Options       `mapstructure:"options" yaml:"options"`
}

// Options holds the bridging tables. Every table is optional.
type Options struct {
	// SymbolPrefix is prepended to synthesized call symbols.
	SymbolPrefix string `mapstructure:"symbol_prefix" yaml:"symbol_prefix"`

	// SymbolOverrides maps a function's qualified name, or
	// "<qualified-class>::<method>", to its call symbol.
	SymbolOverrides map[string]string `mapstructure:"symbol_overrides" yaml:"symbol_overrides"`

	SingletonClasses   []string `mapstructure:"singleton_classes" yaml:"singleton_classes"`
	SingletonAccessors []string `mapstructure:"singleton_accessors" yaml:"singleton_accessors"`

	// StringFree pairs are scanned in order for a key contained in the call
	// symbol; StringFreeDefault applies when none matches.
	StringFree        []StringFree `mapstructure:"string_free" yaml:"string_free"`
	StringFreeDefault string       `mapstructure:"string_free_default" yaml:"string_free_default"`

	// BridgeTypeAliases rename mapped types before bridge lookups.
	BridgeTypeAliases map[string]string `mapstructure:"bridge_type_aliases" yaml:"bridge_type_aliases"`

	// ReturnBridges classifies mapped return types. Unlisted types are
	// "plain".
	ReturnBridges map[string]string `mapstructure:"return_bridges" yaml:"return_bridges"`

	// OwningReturnBridges lists the classifications that transfer ownership
	// of the returned value to the caller.
	OwningReturnBridges []string `mapstructure:"owning_return_bridges" yaml:"owning_return_bridges"`

	ParamBridges []ParamBridge `mapstructure:"param_bridges" yaml:"param_bridges"`

	GetterPrefix      string   `mapstructure:"getter_prefix" yaml:"getter_prefix"`
	PredicatePrefixes []string `mapstructure:"predicate_prefixes" yaml:"predicate_prefixes"`
	BoolTypes         []string `mapstructure:"bool_types" yaml:"bool_types"`
}

// StringFree names the function releasing strings returned by symbols
// containing Key.
type StringFree struct {
	Key    string `mapstructure:"key" yaml:"key"`
	Symbol string `mapstructure:"symbol" yaml:"symbol"`
}

// ParamBridge rewrites a parameter into call-site arguments. Empty Type and
// SymbolSuffix match anything.
type ParamBridge struct {
	Type         string   `mapstructure:"type" yaml:"type"`
	SymbolSuffix string   `mapstructure:"symbol_suffix" yaml:"symbol_suffix"`
	Args         []string `mapstructure:"args" yaml:"args"`
}

// Default values.
const (
	DefaultVoidType            = "void"
	DefaultPointerFormat       = "{inner}*"
	DefaultArrayFormat         = "{element}[{length}]"
	DefaultReferenceFormat     = "{inner}&"
	DefaultFunctionPointerType = "FunctionPointer"
	DefaultGetterPrefix        = "Get"
	DefaultLanguage            = "default"
)

// withDefaults returns a copy of cfg with empty settings defaulted.
func withDefaults(cfg Config) Config {
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	if cfg.VoidType == "" {
		cfg.VoidType = DefaultVoidType
	}
	if cfg.PointerFormat == "" {
		cfg.PointerFormat = DefaultPointerFormat
	}
	if cfg.ConstPointerFormat == "" {
		cfg.ConstPointerFormat = cfg.PointerFormat
	}
	if cfg.ArrayFormat == "" {
		cfg.ArrayFormat = DefaultArrayFormat
	}
	if cfg.ReferenceFormat == "" {
		cfg.ReferenceFormat = DefaultReferenceFormat
	}
	if cfg.FunctionPointerType == "" {
		cfg.FunctionPointerType = DefaultFunctionPointerType
	}
	o := &cfg.Options
	if o.SingletonAccessors == nil {
		o.SingletonAccessors = []string{"GetInstance"}
	}
	if o.OwningReturnBridges == nil {
		o.OwningReturnBridges = []string{"string"}
	}
	if o.GetterPrefix == "" {
		o.GetterPrefix = DefaultGetterPrefix
	}
	if o.PredicatePrefixes == nil {
		o.PredicatePrefixes = []string{"Is", "Has"}
	}
	if o.BoolTypes == nil {
		o.BoolTypes = []string{"bool"}
	}
	return cfg
}

// Passthrough reports whether unmapped names pass through.
func (c Config) Passthrough() bool {
	return c.PassthroughUnknown == nil || *c.PassthroughUnknown
}

func (o Options) singletonAccessor(name string) bool {
	return slices.Contains(o.SingletonAccessors, name)
}
