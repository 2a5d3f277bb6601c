package naming

import "github.com/cockroachdb/errors"

// Category is a class of identifier with its own naming rule.
type Category string

const (
	CategoryFile      Category = "file"
	CategoryType      Category = "type"
	CategoryEnum      Category = "enum"
	CategoryEnumValue Category = "enum_value"
	CategoryFunction  Category = "function"
	CategoryMethod    Category = "method"
	CategoryClass     Category = "class"
	CategoryField     Category = "field"
	CategoryParam     Category = "param"
	CategoryConstant  Category = "constant"
	CategoryAlias     Category = "alias"
)

// Categories lists every category in a stable order.
var Categories = []Category{
	CategoryFile, CategoryType, CategoryEnum, CategoryEnumValue, CategoryFunction,
	CategoryMethod, CategoryClass, CategoryField, CategoryParam, CategoryConstant, CategoryAlias,
}

// CategoryRule overrides the shared affixes for one category. Nil slices and
// empty strings inherit the shared value.
type CategoryRule struct {
	Style         string   `mapstructure:"style" yaml:"style"`
	StripPrefixes []string `mapstructure:"strip_prefixes" yaml:"strip_prefixes"`
	StripSuffixes []string `mapstructure:"strip_suffixes" yaml:"strip_suffixes"`
	AddPrefix     string   `mapstructure:"add_prefix" yaml:"add_prefix"`
	AddSuffix     string   `mapstructure:"add_suffix" yaml:"add_suffix"`
}

// Config is the naming section of a mapping configuration.
type Config struct {
	StripPrefixes []string `mapstructure:"strip_prefixes" yaml:"strip_prefixes"`
	StripSuffixes []string `mapstructure:"strip_suffixes" yaml:"strip_suffixes"`
	AddPrefix     string   `mapstructure:"add_prefix" yaml:"add_prefix"`
	AddSuffix     string   `mapstructure:"add_suffix" yaml:"add_suffix"`

	// Per-category style names. Empty means the original spelling.
	FileName      string `mapstructure:"file_name" yaml:"file_name"`
	TypeName      string `mapstructure:"type_name" yaml:"type_name"`
	EnumName      string `mapstructure:"enum_name" yaml:"enum_name"`
	EnumValueName string `mapstructure:"enum_value_name" yaml:"enum_value_name"`
	FunctionName  string `mapstructure:"function_name" yaml:"function_name"`
	MethodName    string `mapstructure:"method_name" yaml:"method_name"`
	ClassName     string `mapstructure:"class_name" yaml:"class_name"`
	FieldName     string `mapstructure:"field_name" yaml:"field_name"`
	ParamName     string `mapstructure:"param_name" yaml:"param_name"`
	ConstantName  string `mapstructure:"constant_name" yaml:"constant_name"`
	AliasName     string `mapstructure:"alias_name" yaml:"alias_name"`

	// Rules holds per-category affix overrides, keyed by category.
	Rules map[Category]CategoryRule `mapstructure:"rules" yaml:"rules"`
}

// Style returns the configured style name for a category.
func (c Config) Style(cat Category) string {
	switch cat {
	case CategoryFile:
		return c.FileName
	case CategoryType:
		return c.TypeName
	case CategoryEnum:
		return c.EnumName
	case CategoryEnumValue:
		return c.EnumValueName
	case CategoryFunction:
		return c.FunctionName
	case CategoryMethod:
		return c.MethodName
	case CategoryClass:
		return c.ClassName
	case CategoryField:
		return c.FieldName
	case CategoryParam:
		return c.ParamName
	case CategoryConstant:
		return c.ConstantName
	case CategoryAlias:
		return c.AliasName
	}
	return ""
}

// Transformer applies the configured rule for each category.
type Transformer struct {
	rules map[Category]Rule
}

// NewTransformer resolves cfg into one Rule per category.
func NewTransformer(cfg Config) (*Transformer, error) {
	t := &Transformer{rules: make(map[Category]Rule, len(Categories))}
	for _, c := range Categories {
		override := cfg.Rules[c]
		styleName := cfg.Style(c)
		if override.Style != "" {
			styleName = override.Style
		}
		style, err := ParseStyle(styleName)
		if err != nil {
			return nil, errors.Errorf("naming %s: %w", c, err)
		}
		r := Rule{
			Style:         style,
			StripPrefixes: cfg.StripPrefixes,
			StripSuffixes: cfg.StripSuffixes,
			AddPrefix:     cfg.AddPrefix,
			AddSuffix:     cfg.AddSuffix,
		}
		if override.StripPrefixes != nil {
			r.StripPrefixes = override.StripPrefixes
		}
		if override.StripSuffixes != nil {
			r.StripSuffixes = override.StripSuffixes
		}
		if override.AddPrefix != "" {
			r.AddPrefix = override.AddPrefix
		}
		if override.AddSuffix != "" {
			r.AddSuffix = override.AddSuffix
		}
		t.rules[c] = r
	}
	return t, nil
}

// Identity returns a transformer that leaves every name unchanged.
func Identity() *Transformer {
	t, _ := NewTransformer(Config{})
	return t
}

// Rule returns the resolved rule for a category.
func (t *Transformer) Rule(c Category) Rule { return t.rules[c] }

// Apply transforms name under the rule of category c.
func (t *Transformer) Apply(c Category, name string) string {
	return Transform(name, t.rules[c])
}

func (t *Transformer) FileName(name string) string      { return t.Apply(CategoryFile, name) }
func (t *Transformer) TypeName(name string) string      { return t.Apply(CategoryType, name) }
func (t *Transformer) EnumName(name string) string      { return t.Apply(CategoryEnum, name) }
func (t *Transformer) EnumValueName(name string) string { return t.Apply(CategoryEnumValue, name) }
func (t *Transformer) FunctionName(name string) string  { return t.Apply(CategoryFunction, name) }
func (t *Transformer) MethodName(name string) string    { return t.Apply(CategoryMethod, name) }
func (t *Transformer) ClassName(name string) string     { return t.Apply(CategoryClass, name) }
func (t *Transformer) FieldName(name string) string     { return t.Apply(CategoryField, name) }
func (t *Transformer) ParamName(name string) string     { return t.Apply(CategoryParam, name) }
func (t *Transformer) ConstantName(name string) string  { return t.Apply(CategoryConstant, name) }
func (t *Transformer) AliasName(name string) string     { return t.Apply(CategoryAlias, name) }
