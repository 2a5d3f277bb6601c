// Package naming converts C/C++ identifiers into target-language names.
//
// Every transformation runs the same fixed pipeline: strip at most one
// prefix and one suffix (longest match wins), apply a case style, then add
// the configured prefix and suffix.
package naming

import (
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
)

// Style is a naming convention.
type Style string

const (
	Original           Style = "original"
	SnakeCase          Style = "snake_case"
	CamelCase          Style = "camel_case"
	PascalCase         Style = "pascal_case"
	ScreamingSnakeCase Style = "screaming_snake_case"
	KebabCase          Style = "kebab_case"
)

var styleAliases = map[string]Style{
	"":                     Original,
	"original":             Original,
	"snake_case":           SnakeCase,
	"snake":                SnakeCase,
	"camel_case":           CamelCase,
	"camelcase":            CamelCase,
	"camel":                CamelCase,
	"pascal_case":          PascalCase,
	"pascalcase":           PascalCase,
	"pascal":               PascalCase,
	"screaming_snake_case": ScreamingSnakeCase,
	"screaming_snake":      ScreamingSnakeCase,
	"kebab_case":           KebabCase,
	"kebab-case":           KebabCase,
	"kebab":                KebabCase,
}

// ParseStyle resolves a configured style name. Matching is case-insensitive
// for the alias spellings ("camelCase", "PascalCase", "SCREAMING_SNAKE_CASE").
func ParseStyle(name string) (Style, error) {
	if s, ok := styleAliases[name]; ok {
		return s, nil
	}
	if s, ok := styleAliases[strings.ToLower(name)]; ok {
		return s, nil
	}
	return "", errors.Errorf("unknown naming style %q", name)
}

// Apply converts name to the style. Unknown styles leave name unchanged.
func (s Style) Apply(name string) string {
	switch s {
	case SnakeCase:
		return ToSnakeCase(name)
	case CamelCase:
		return ToCamelCase(name)
	case PascalCase:
		return ToPascalCase(name)
	case ScreamingSnakeCase:
		return ToScreamingSnakeCase(name)
	case KebabCase:
		return ToKebabCase(name)
	default:
		return name
	}
}

// Rule is a complete naming transformation.
type Rule struct {
	Style         Style
	StripPrefixes []string
	StripSuffixes []string
	AddPrefix     string
	AddSuffix     string
}

// Transform runs name through strip, style and add, in that order.
func Transform(name string, r Rule) string {
	name = StripAffixes(name, r.StripPrefixes, r.StripSuffixes)
	name = r.Style.Apply(name)
	return r.AddPrefix + name + r.AddSuffix
}

// StripAffixes removes at most one prefix and one suffix. When several
// candidates match, the longest is removed.
func StripAffixes(name string, prefixes, suffixes []string) string {
	for _, p := range longestFirst(prefixes) {
		if p != "" && strings.HasPrefix(name, p) {
			name = name[len(p):]
			break
		}
	}
	for _, s := range longestFirst(suffixes) {
		if s != "" && strings.HasSuffix(name, s) {
			name = name[:len(name)-len(s)]
			break
		}
	}
	return name
}

func longestFirst(affixes []string) []string {
	sorted := slices.Clone(affixes)
	slices.SortStableFunc(sorted, func(a, b string) int { return len(b) - len(a) })
	return sorted
}
