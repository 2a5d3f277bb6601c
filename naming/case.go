package naming

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	acronymBoundary = regexp.MustCompile(`([A-Z]+)([A-Z][a-z])`)
	wordBoundary    = regexp.MustCompile(`([a-z\d])([A-Z])`)
	separators      = regexp.MustCompile(`[-\s]+`)
)

// title upper-cases the first letter of word and lower-cases the rest.
// Casers are stateful, so each call gets its own.
func title(word string) string {
	return cases.Title(language.Und).String(word)
}

// ToSnakeCase converts s to snake_case. Acronym runs are kept together:
// "XMLParser" becomes "xml_parser".
func ToSnakeCase(s string) string {
	s = acronymBoundary.ReplaceAllString(s, "${1}_${2}")
	s = wordBoundary.ReplaceAllString(s, "${1}_${2}")
	s = separators.ReplaceAllString(s, "_")
	return strings.ToLower(s)
}

// ToCamelCase converts s to camelCase.
func ToCamelCase(s string) string {
	parts := strings.Split(ToSnakeCase(s), "_")
	var b strings.Builder
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		b.WriteString(title(p))
	}
	return b.String()
}

// ToPascalCase converts s to PascalCase.
func ToPascalCase(s string) string {
	var b strings.Builder
	for _, p := range strings.Split(ToSnakeCase(s), "_") {
		b.WriteString(title(p))
	}
	return b.String()
}

// ToScreamingSnakeCase converts s to SCREAMING_SNAKE_CASE.
func ToScreamingSnakeCase(s string) string {
	return strings.ToUpper(ToSnakeCase(s))
}

// ToKebabCase converts s to kebab-case.
func ToKebabCase(s string) string {
	return strings.ReplaceAll(ToSnakeCase(s), "_", "-")
}

// FirstLower lower-cases the first rune of s.
func FirstLower(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// FirstUpper upper-cases the first rune of s.
func FirstUpper(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
