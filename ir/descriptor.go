package ir

import "strings"

// TypeKind identifies the category of a type descriptor.
type TypeKind int

const (
	KindUnknown         TypeKind = iota // Unrecognized type, kept by spelling
	KindVoid                            // void
	KindPrimitive                       // Built-in scalar (int, double, size_t, ...)
	KindPointer                         // Pointer to another type
	KindArray                           // Fixed or unsized array
	KindReference                       // C++ lvalue or rvalue reference
	KindNamed                           // Reference to a declared struct, enum, class or typedef
	KindFunctionPointer                 // Pointer to function
)

// String returns the serialized tag of the kind.
func (k TypeKind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindPrimitive:
		return "primitive"
	case KindPointer:
		return "pointer"
	case KindArray:
		return "array"
	case KindReference:
		return "reference"
	case KindNamed:
		return "named"
	case KindFunctionPointer:
		return "function_pointer"
	default:
		return "unknown"
	}
}

// Qualifiers is a set of C type qualifiers.
type Qualifiers uint8

const (
	Const Qualifiers = 1 << iota
	Volatile
	Restrict
)

var qualifierNames = []struct {
	q    Qualifiers
	name string
}{
	{Const, "const"},
	{Volatile, "volatile"},
	{Restrict, "restrict"},
}

// Has reports whether every qualifier in o is set.
func (q Qualifiers) Has(o Qualifiers) bool { return q&o == o }

// Names returns the qualifier keywords in declaration order.
func (q Qualifiers) Names() []string {
	var names []string
	for _, qn := range qualifierNames {
		if q.Has(qn.q) {
			names = append(names, qn.name)
		}
	}
	return names
}

// String returns the qualifiers as a space separated keyword list.
func (q Qualifiers) String() string { return strings.Join(q.Names(), " ") }

// ParseQualifier returns the qualifier for a keyword, or 0.
func ParseQualifier(name string) Qualifiers {
	for _, qn := range qualifierNames {
		if qn.name == name {
			return qn.q
		}
	}
	return 0
}

// Type is the base interface for all type descriptors.
// A type graph is a finite tree: named references carry a name, never a pointer
// to the referenced declaration.
type Type interface {
	// Kind returns the descriptor kind for type switching.
	Kind() TypeKind

	// Qualifiers returns the cv-qualifiers attached to this type.
	Qualifiers() Qualifiers

	// Ensure only types in this package can implement Type.
	sealed()
}

// IsConst reports whether t is const qualified. A nil type is not const.
func IsConst(t Type) bool {
	return t != nil && t.Qualifiers().Has(Const)
}
