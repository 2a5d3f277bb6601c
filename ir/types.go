// Package ir defines the intermediate representation of a C/C++ public
// interface. The normalizer builds an ir.Module once; every later stage
// treats it as read-only.
package ir

import (
	"strconv"
	"strings"
)

// NamedDecl identifies what kind of declaration a NamedType refers to.
type NamedDecl string

const (
	DeclStruct     NamedDecl = "struct"
	DeclEnum       NamedDecl = "enum"
	DeclClass      NamedDecl = "class"
	DeclTypedef    NamedDecl = "typedef"
	DeclElaborated NamedDecl = "elaborated"
)

// VoidType is the C void type.
type VoidType struct {
	Quals Qualifiers
}

// PrimitiveType is a built-in scalar such as int, double or size_t.
type PrimitiveType struct {
	// Name is the canonical C spelling, e.g. "unsigned int".
	Name  string
	Quals Qualifiers
}

// PointerType points at Pointee. Quals qualify the pointer itself.
type PointerType struct {
	Pointee Type
	Quals   Qualifiers
}

// ArrayType is an array of Element. Length is meaningful only when Sized;
// "int[]" is unsized while "int[0]" is sized with Length 0.
type ArrayType struct {
	Element Type
	Length  int
	Sized   bool
	Quals   Qualifiers
}

// ReferenceType is a C++ reference to Referent.
type ReferenceType struct {
	Referent Type
	Quals    Qualifiers
}

// NamedType refers to a declared type by name.
type NamedType struct {
	Name  string
	Decl  NamedDecl
	Quals Qualifiers
}

// FunctionPointerType is a pointer to a function. Signatures are not modeled.
type FunctionPointerType struct {
	Quals Qualifiers
}

// UnknownType is a type the provider could not classify.
type UnknownType struct {
	// Spelling is the provider's textual form of the type.
	Spelling string
	Quals    Qualifiers
}

func (*VoidType) Kind() TypeKind            { return KindVoid }
func (*PrimitiveType) Kind() TypeKind       { return KindPrimitive }
func (*PointerType) Kind() TypeKind         { return KindPointer }
func (*ArrayType) Kind() TypeKind           { return KindArray }
func (*ReferenceType) Kind() TypeKind       { return KindReference }
func (*NamedType) Kind() TypeKind           { return KindNamed }
func (*FunctionPointerType) Kind() TypeKind { return KindFunctionPointer }
func (*UnknownType) Kind() TypeKind         { return KindUnknown }

func (t *VoidType) Qualifiers() Qualifiers            { return t.Quals }
func (t *PrimitiveType) Qualifiers() Qualifiers       { return t.Quals }
func (t *PointerType) Qualifiers() Qualifiers         { return t.Quals }
func (t *ArrayType) Qualifiers() Qualifiers           { return t.Quals }
func (t *ReferenceType) Qualifiers() Qualifiers       { return t.Quals }
func (t *NamedType) Qualifiers() Qualifiers           { return t.Quals }
func (t *FunctionPointerType) Qualifiers() Qualifiers { return t.Quals }
func (t *UnknownType) Qualifiers() Qualifiers         { return t.Quals }

func (*VoidType) sealed()            {}
func (*PrimitiveType) sealed()       {}
func (*PointerType) sealed()         {}
func (*ArrayType) sealed()           {}
func (*ReferenceType) sealed()       {}
func (*NamedType) sealed()           {}
func (*FunctionPointerType) sealed() {}
func (*UnknownType) sealed()         {}

// Void returns an unqualified void type.
func Void() *VoidType { return &VoidType{} }

// Primitive returns an unqualified primitive type.
func Primitive(name string) *PrimitiveType { return &PrimitiveType{Name: name} }

// Named returns an unqualified reference to a declared type.
func Named(name string, decl NamedDecl) *NamedType { return &NamedType{Name: name, Decl: decl} }

// PointerTo returns an unqualified pointer to t.
func PointerTo(t Type) *PointerType { return &PointerType{Pointee: t} }

// ArrayOf returns an array of t with a fixed length.
func ArrayOf(t Type, length int) *ArrayType {
	return &ArrayType{Element: t, Length: length, Sized: true}
}

// UnsizedArrayOf returns an array of t without a length.
func UnsizedArrayOf(t Type) *ArrayType { return &ArrayType{Element: t} }

// ReferenceTo returns an unqualified reference to t.
func ReferenceTo(t Type) *ReferenceType { return &ReferenceType{Referent: t} }

// WithQualifiers returns a shallow copy of t with q added to its qualifiers.
func WithQualifiers(t Type, q Qualifiers) Type {
	switch v := t.(type) {
	case *VoidType:
		c := *v
		c.Quals |= q
		return &c
	case *PrimitiveType:
		c := *v
		c.Quals |= q
		return &c
	case *PointerType:
		c := *v
		c.Quals |= q
		return &c
	case *ArrayType:
		c := *v
		c.Quals |= q
		return &c
	case *ReferenceType:
		c := *v
		c.Quals |= q
		return &c
	case *NamedType:
		c := *v
		c.Quals |= q
		return &c
	case *FunctionPointerType:
		c := *v
		c.Quals |= q
		return &c
	case *UnknownType:
		c := *v
		c.Quals |= q
		return &c
	}
	return t
}

// BaseName returns the name a primitive, named or unknown type is looked up
// by. It returns "void" for void and "" for wrapper types.
func BaseName(t Type) string {
	switch v := t.(type) {
	case *VoidType:
		return "void"
	case *PrimitiveType:
		return v.Name
	case *NamedType:
		return v.Name
	case *UnknownType:
		return v.Spelling
	}
	return ""
}

// Spelling renders t in C declaration syntax, for diagnostics.
func Spelling(t Type) string {
	if t == nil {
		return "<nil>"
	}
	var b strings.Builder
	spell(&b, t)
	return b.String()
}

func spell(b *strings.Builder, t Type) {
	prefix := func(name string) {
		if q := t.Qualifiers().String(); q != "" {
			b.WriteString(q)
			b.WriteByte(' ')
		}
		b.WriteString(name)
	}
	switch v := t.(type) {
	case *VoidType:
		prefix("void")
	case *PrimitiveType:
		prefix(v.Name)
	case *NamedType:
		prefix(v.Name)
	case *UnknownType:
		prefix(v.Spelling)
	case *FunctionPointerType:
		prefix("(*)()")
	case *PointerType:
		spell(b, v.Pointee)
		b.WriteByte('*')
		if q := v.Quals.String(); q != "" {
			b.WriteString(" " + q)
		}
	case *ReferenceType:
		spell(b, v.Referent)
		b.WriteByte('&')
	case *ArrayType:
		spell(b, v.Element)
		b.WriteByte('[')
		if v.Sized {
			b.WriteString(strconv.Itoa(v.Length))
		}
		b.WriteByte(']')
	}
}
