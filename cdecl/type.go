package cdecl

import (
	"strconv"
	"strings"
)

// TypeKind identifies a type reference.
type TypeKind string

const (
	TypeVoid            TypeKind = "void"
	TypeBuiltin         TypeKind = "builtin"
	TypePointer         TypeKind = "pointer"
	TypeLValueReference TypeKind = "lvalue_reference"
	TypeRValueReference TypeKind = "rvalue_reference"
	TypeArray           TypeKind = "array"
	TypeRecord          TypeKind = "record"
	TypeEnum            TypeKind = "enum"
	TypeTypedef         TypeKind = "typedef"
	TypeElaborated      TypeKind = "elaborated"
	TypeFunction        TypeKind = "function"
	TypeUnexposed       TypeKind = "unexposed"
)

// TypeRef is a resolved type as reported by the provider.
type TypeRef struct {
	Kind TypeKind `json:"kind" yaml:"kind"`

	// Name is the builtin spelling or the referenced declaration's name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// RecordKind is "struct", "class" or "union" for record references.
	RecordKind string `json:"recordKind,omitempty" yaml:"recordKind,omitempty"`

	Const    bool `json:"const,omitempty" yaml:"const,omitempty"`
	Volatile bool `json:"volatile,omitempty" yaml:"volatile,omitempty"`
	Restrict bool `json:"restrict,omitempty" yaml:"restrict,omitempty"`

	// Pointee is set for pointers and references.
	Pointee *TypeRef `json:"pointee,omitempty" yaml:"pointee,omitempty"`

	// Element and Length describe arrays. Length is nil for unsized arrays
	// such as "int[]".
	Element *TypeRef `json:"element,omitempty" yaml:"element,omitempty"`
	Length  *int     `json:"length,omitempty" yaml:"length,omitempty"`

	// Result is the return type of a function type.
	Result *TypeRef `json:"result,omitempty" yaml:"result,omitempty"`
}

// Spelling renders the type roughly as C source, for diagnostics.
func (t *TypeRef) Spelling() string {
	if t == nil {
		return ""
	}
	var quals []string
	if t.Const {
		quals = append(quals, "const")
	}
	if t.Volatile {
		quals = append(quals, "volatile")
	}
	q := strings.Join(quals, " ")
	join := func(a, b string) string {
		if a == "" {
			return b
		}
		return a + " " + b
	}
	switch t.Kind {
	case TypeVoid:
		return join(q, "void")
	case TypePointer:
		s := t.Pointee.Spelling() + "*"
		if q != "" {
			s += " " + q
		}
		return s
	case TypeLValueReference:
		return t.Pointee.Spelling() + "&"
	case TypeRValueReference:
		return t.Pointee.Spelling() + "&&"
	case TypeArray:
		if t.Length != nil {
			return t.Element.Spelling() + "[" + strconv.Itoa(*t.Length) + "]"
		}
		return t.Element.Spelling() + "[]"
	case TypeFunction:
		return t.Result.Spelling() + "()"
	}
	return join(q, t.Name)
}
