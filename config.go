package bindgen

import (
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/libnativeapi/bindgen/cdecl"
	"github.com/libnativeapi/bindgen/cheader"
	"github.com/libnativeapi/bindgen/generator"
	"github.com/libnativeapi/bindgen/mapper"
	"github.com/libnativeapi/bindgen/naming"
	"github.com/libnativeapi/bindgen/normalize"
)

// ErrInvalidConfig marks configuration errors.
var ErrInvalidConfig = errors.New("invalid config")

// EnvPrefix prefixes environment overrides, e.g. BINDGEN_TEMPLATE_DIR.
const EnvPrefix = "BINDGEN"

var validate = validator.New()

// Config is a bindgen configuration document.
type Config struct {
	// EntryHeaders are the headers (or declaration documents) to parse.
	EntryHeaders []string `mapstructure:"entry_headers" yaml:"entry_headers" validate:"required,min=1,dive,required"`

	IncludePaths []string `mapstructure:"include_paths" yaml:"include_paths"`

	// ClangFlags are compiler-style flags. -I, -D and -x c are honored.
	ClangFlags []string `mapstructure:"clang_flags" yaml:"clang_flags"`

	// TemplateDir defaults to <ConfigDir>/template.
	TemplateDir string `mapstructure:"template_dir" yaml:"template_dir"`

	Filters    Filters               `mapstructure:"filters" yaml:"filters"`
	Mapping    mapper.Config         `mapstructure:"mapping" yaml:"mapping"`
	Formatters []generator.Formatter `mapstructure:"formatters" yaml:"formatters" validate:"dive"`

	// Path is the file the config was loaded from, if any.
	Path string `mapstructure:"-" yaml:"-"`

	// ConfigDir anchors relative paths. It is the directory of Path, or the
	// working directory for configs built in code.
	ConfigDir string `mapstructure:"-" yaml:"-"`
}

// Filters selects which declarations are bound.
type Filters struct {
	Allowlist    []string `mapstructure:"allowlist_regex" yaml:"allowlist_regex"`
	Denylist     []string `mapstructure:"denylist_regex" yaml:"denylist_regex"`
	ExcludeDirs  []string `mapstructure:"exclude_dirs" yaml:"exclude_dirs"`
	ProjectRoot  string   `mapstructure:"project_root" yaml:"project_root"`
	IgnoreMarker string   `mapstructure:"ignore_marker" yaml:"ignore_marker"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("include_paths", []string{})
	v.SetDefault("clang_flags", []string{})
	v.SetDefault("template_dir", "")
	v.SetDefault("filters.ignore_marker", normalize.DefaultIgnoreMarker)
	v.SetDefault("mapping.language", mapper.DefaultLanguage)
}

// LoadConfig reads a YAML, TOML or JSON config file. Keys may be overridden
// by BINDGEN_-prefixed environment variables, with "." in key paths written
// as "_", e.g. BINDGEN_MAPPING_LANGUAGE. The result is validated.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "decoding config %s", path), ErrInvalidConfig)
	}
	if err := restoreKeyCase(&cfg, path); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(err, "resolving config path")
	}
	cfg.Path = abs
	cfg.ConfigDir = filepath.Dir(abs)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// caseSensitive holds the config maps whose keys are C or target type
// names. Viper lower-cases every key, so they are re-read verbatim.
type caseSensitive struct {
	Mapping struct {
		Types   map[string]string `yaml:"types"`
		Options struct {
			SymbolOverrides   map[string]string `yaml:"symbol_overrides"`
			BridgeTypeAliases map[string]string `yaml:"bridge_type_aliases"`
			ReturnBridges     map[string]string `yaml:"return_bridges"`
		} `yaml:"options"`
	} `yaml:"mapping"`
}

// restoreKeyCase replaces case-folded maps with their spelling in the file.
// Only YAML and JSON files are re-read; TOML keeps viper's keys.
func restoreKeyCase(cfg *Config, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
	default:
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading config %s", path)
	}
	var raw caseSensitive
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return errors.Mark(errors.Wrapf(err, "decoding config %s", path), ErrInvalidConfig)
	}
	m := raw.Mapping
	if m.Types != nil {
		cfg.Mapping.Types = m.Types
	}
	if m.Options.SymbolOverrides != nil {
		cfg.Mapping.Options.SymbolOverrides = m.Options.SymbolOverrides
	}
	if m.Options.BridgeTypeAliases != nil {
		cfg.Mapping.Options.BridgeTypeAliases = m.Options.BridgeTypeAliases
	}
	if m.Options.ReturnBridges != nil {
		cfg.Mapping.Options.ReturnBridges = m.Options.ReturnBridges
	}
	return nil
}

// Validate checks struct constraints and that filters, naming styles and
// formatter commands are usable. Failures match ErrInvalidConfig.
func (c *Config) Validate() error {
	invalid := func(err error, what string) error {
		return errors.Mark(errors.Wrap(err, what), ErrInvalidConfig)
	}
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Namespace()+" ("+fe.Tag()+")")
			}
			return errors.Mark(errors.Newf("config: invalid fields: %s", strings.Join(fields, ", ")), ErrInvalidConfig)
		}
		return invalid(err, "config")
	}
	if _, err := normalize.CompileFilters(c.Filters.Allowlist); err != nil {
		return invalid(err, "filters.allowlist_regex")
	}
	if _, err := normalize.CompileFilters(c.Filters.Denylist); err != nil {
		return invalid(err, "filters.denylist_regex")
	}
	if _, err := naming.NewTransformer(c.Mapping.Naming); err != nil {
		return invalid(err, "mapping.naming")
	}
	for i, f := range c.Formatters {
		if _, err := f.Argv(generator.Vars{}); err != nil {
			return invalid(err, "formatters["+strconv.Itoa(i)+"]")
		}
	}
	return nil
}

// TemplateRoot returns the template directory, resolved against ConfigDir.
func (c *Config) TemplateRoot() string {
	if c.TemplateDir == "" {
		return filepath.Join(c.dir(), "template")
	}
	return c.resolve(c.TemplateDir)
}

func (c *Config) dir() string {
	if c.ConfigDir != "" {
		return c.ConfigDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.dir(), p)
}

func (c *Config) resolveAll(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = c.resolve(p)
	}
	return out
}

// Request returns the provider request with paths resolved against
// ConfigDir.
func (c *Config) Request() cdecl.Request {
	return cdecl.Request{
		EntryHeaders: c.resolveAll(c.EntryHeaders),
		IncludePaths: c.resolveAll(c.IncludePaths),
		Flags:        slices.Clone(c.ClangFlags),
	}
}

// Provider picks the declaration provider: documents when every entry is a
// JSON or YAML declaration document, else the header parser in the
// language selected by -x in ClangFlags.
func (c *Config) Provider(opts ...cheader.Option) cdecl.Provider {
	documents := len(c.EntryHeaders) > 0
	for _, e := range c.EntryHeaders {
		documents = documents && cdecl.IsDocument(e)
	}
	if documents {
		return cdecl.DocumentProvider{}
	}
	if c.headerLanguage() == cheader.LanguageC {
		opts = append(opts, cheader.WithLanguage(cheader.LanguageC))
	}
	return cheader.New(opts...)
}

func (c *Config) headerLanguage() cheader.Language {
	flags := c.ClangFlags
	for i, f := range flags {
		lang := strings.TrimPrefix(f, "-x")
		if f == "-x" && i+1 < len(flags) {
			lang = flags[i+1]
		} else if lang == f {
			continue
		}
		if lang == "c" {
			return cheader.LanguageC
		}
		return cheader.LanguageCPP
	}
	return cheader.LanguageCPP
}

// NormalizeConfig returns the normalizer settings.
func (c *Config) NormalizeConfig() normalize.Config {
	return normalize.Config{
		Allowlist:    c.Filters.Allowlist,
		Denylist:     c.Filters.Denylist,
		ExcludeDirs:  c.Filters.ExcludeDirs,
		ProjectRoot:  c.resolve(c.Filters.ProjectRoot),
		IgnoreMarker: c.Filters.IgnoreMarker,
	}
}
