// Package cdecl defines the declaration tree a C/C++ provider hands to the
// normalizer: a traversable tree of declarations with resolved types,
// qualifiers, access specifiers and source locations.
package cdecl

import "context"

// Kind identifies a declaration node.
type Kind string

const (
	KindTranslationUnit Kind = "translation_unit"
	KindNamespace       Kind = "namespace"
	KindLinkageSpec     Kind = "linkage_spec"
	KindUnexposed       Kind = "unexposed"
	KindStruct          Kind = "struct"
	KindClass           Kind = "class"
	KindUnion           Kind = "union"
	KindEnum            Kind = "enum"
	KindEnumConstant    Kind = "enum_constant"
	KindField           Kind = "field"
	KindFunction        Kind = "function"
	KindMethod          Kind = "method"
	KindConstructor     Kind = "constructor"
	KindDestructor      Kind = "destructor"
	KindParam           Kind = "param"
	KindTypedef         Kind = "typedef"
	KindTypeAlias       Kind = "type_alias"
	KindVariable        Kind = "variable"
	KindMacro           Kind = "macro"
	KindBaseSpecifier   Kind = "base_specifier"
)

// IsContainer reports whether declarations of this kind are transparent
// scopes whose children belong to the enclosing scope.
func (k Kind) IsContainer() bool {
	switch k {
	case KindTranslationUnit, KindNamespace, KindLinkageSpec, KindUnexposed:
		return true
	}
	return false
}

// IsRecord reports whether k declares a struct, class or union.
func (k Kind) IsRecord() bool {
	return k == KindStruct || k == KindClass || k == KindUnion
}

// Location is a position in a source file. Line and Column are 1-based.
type Location struct {
	File   string `json:"file,omitempty" yaml:"file,omitempty"`
	Line   int    `json:"line,omitempty" yaml:"line,omitempty"`
	Column int    `json:"column,omitempty" yaml:"column,omitempty"`
}

// Decl is one node of the declaration tree.
type Decl struct {
	Kind     Kind     `json:"kind" yaml:"kind"`
	Name     string   `json:"name,omitempty" yaml:"name,omitempty"`
	Location Location `json:"location,omitzero" yaml:"location,omitempty"`

	// Comment is the raw documentation comment, markers included.
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`

	// Type is the declared type of fields, params, variables and typedefs.
	Type *TypeRef `json:"type,omitempty" yaml:"type,omitempty"`

	// Result is the return type of functions and methods.
	Result *TypeRef `json:"result,omitempty" yaml:"result,omitempty"`

	// Access is "public", "protected", "private" or empty outside records.
	Access string `json:"access,omitempty" yaml:"access,omitempty"`

	Children []*Decl `json:"children,omitempty" yaml:"children,omitempty"`

	// IsDefinition is set for records and enums that have a body.
	IsDefinition bool `json:"definition,omitempty" yaml:"definition,omitempty"`

	// Scoped marks C++ "enum class".
	Scoped bool `json:"scoped,omitempty" yaml:"scoped,omitempty"`

	// Value is the evaluated value of an enum constant.
	Value *int64 `json:"value,omitempty" yaml:"value,omitempty"`

	Static   bool   `json:"static,omitempty" yaml:"static,omitempty"`
	Const    bool   `json:"const,omitempty" yaml:"const,omitempty"`
	Variadic bool   `json:"variadic,omitempty" yaml:"variadic,omitempty"`
	CallConv string `json:"callConv,omitempty" yaml:"callConv,omitempty"`

	// Tokens holds a macro's tokens, its name first.
	Tokens []string `json:"tokens,omitempty" yaml:"tokens,omitempty"`

	// Underlying is the anonymous record or enum a typedef names.
	Underlying *Decl `json:"underlying,omitempty" yaml:"underlying,omitempty"`
}

// Walk visits d and its descendants depth-first. Returning false from fn
// skips the children of the visited node.
func Walk(d *Decl, fn func(d *Decl) bool) {
	if d == nil || !fn(d) {
		return
	}
	for _, c := range d.Children {
		Walk(c, fn)
	}
}

// Request describes what a provider should parse.
type Request struct {
	// EntryHeaders are the headers to start from.
	EntryHeaders []string

	// IncludePaths are searched for entry headers and quoted includes.
	IncludePaths []string

	// Flags are compiler-style flags. Providers honor -I and -D.
	Flags []string
}

// Provider produces a declaration tree. A parse failure aborts the run.
type Provider interface {
	Parse(ctx context.Context, req Request) (*Decl, error)
}
