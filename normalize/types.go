package normalize

import (
	"strings"

	"github.com/libnativeapi/bindgen/cdecl"
	"github.com/libnativeapi/bindgen/ir"
)

// primitiveNames maps builtin spellings to their canonical C names.
var primitiveNames = map[string]string{
	"bool":                   "bool",
	"_Bool":                  "bool",
	"char":                   "char",
	"signed char":            "signed char",
	"unsigned char":          "unsigned char",
	"short":                  "short",
	"short int":              "short",
	"signed short":           "short",
	"signed short int":       "short",
	"unsigned short":         "unsigned short",
	"unsigned short int":     "unsigned short",
	"int":                    "int",
	"signed":                 "int",
	"signed int":             "int",
	"unsigned":               "unsigned int",
	"unsigned int":           "unsigned int",
	"long":                   "long",
	"long int":               "long",
	"signed long":            "long",
	"signed long int":        "long",
	"unsigned long":          "unsigned long",
	"unsigned long int":      "unsigned long",
	"long long":              "long long",
	"long long int":          "long long",
	"signed long long":       "long long",
	"signed long long int":   "long long",
	"unsigned long long":     "unsigned long long",
	"unsigned long long int": "unsigned long long",
	"float":                  "float",
	"double":                 "double",
	"long double":            "long double",
	"wchar_t":                "wchar_t",
	"char8_t":                "char8_t",
	"char16_t":               "char16_t",
	"char32_t":               "char32_t",
}

// wellKnownTypedefs are standard typedefs treated as primitives.
var wellKnownTypedefs = map[string]bool{
	"size_t":    true,
	"ssize_t":   true,
	"ptrdiff_t": true,
	"intptr_t":  true,
	"uintptr_t": true,
	"int8_t":    true,
	"int16_t":   true,
	"int32_t":   true,
	"int64_t":   true,
	"uint8_t":   true,
	"uint16_t":  true,
	"uint32_t":  true,
	"uint64_t":  true,
}

// primitiveName reports the canonical primitive name for a builtin or
// well-known typedef spelling.
func primitiveName(name string) (string, bool) {
	name = strings.Join(strings.Fields(name), " ")
	if canonical, ok := primitiveNames[name]; ok {
		return canonical, true
	}
	name = strings.TrimPrefix(name, "std::")
	if wellKnownTypedefs[name] {
		return name, true
	}
	return "", false
}

func qualifiers(t *cdecl.TypeRef) ir.Qualifiers {
	var q ir.Qualifiers
	if t.Const {
		q |= ir.Const
	}
	if t.Volatile {
		q |= ir.Volatile
	}
	if t.Restrict {
		q |= ir.Restrict
	}
	return q
}

// convertType converts a provider type into an IR type. It returns nil when
// the reference or a nested reference is missing.
func convertType(t *cdecl.TypeRef) ir.Type {
	if t == nil {
		return nil
	}
	q := qualifiers(t)
	switch t.Kind {
	case cdecl.TypeVoid:
		return &ir.VoidType{Quals: q}

	case cdecl.TypeBuiltin:
		if name, ok := primitiveName(t.Name); ok {
			return &ir.PrimitiveType{Name: name, Quals: q}
		}
		if t.Name == "void" {
			return &ir.VoidType{Quals: q}
		}
		return &ir.PrimitiveType{Name: t.Name, Quals: q}

	case cdecl.TypePointer:
		if t.Pointee == nil {
			return nil
		}
		if t.Pointee.Kind == cdecl.TypeFunction {
			return &ir.FunctionPointerType{Quals: q}
		}
		pointee := convertType(t.Pointee)
		if pointee == nil {
			return nil
		}
		return &ir.PointerType{Pointee: pointee, Quals: q}

	case cdecl.TypeLValueReference, cdecl.TypeRValueReference:
		referent := convertType(t.Pointee)
		if referent == nil {
			return nil
		}
		return &ir.ReferenceType{Referent: referent, Quals: q}

	case cdecl.TypeArray:
		elem := convertType(t.Element)
		if elem == nil {
			return nil
		}
		arr := &ir.ArrayType{Element: elem, Quals: q}
		if t.Length != nil && *t.Length >= 0 {
			arr.Length, arr.Sized = *t.Length, true
		}
		return arr

	case cdecl.TypeRecord, cdecl.TypeEnum, cdecl.TypeTypedef, cdecl.TypeElaborated:
		if name, ok := primitiveName(t.Name); ok {
			return &ir.PrimitiveType{Name: name, Quals: q}
		}
		if t.Name == "" {
			return &ir.UnknownType{Spelling: t.Spelling(), Quals: q}
		}
		return &ir.NamedType{Name: t.Name, Decl: namedDecl(t), Quals: q}
	}
	return &ir.UnknownType{Spelling: t.Spelling(), Quals: q}
}

func namedDecl(t *cdecl.TypeRef) ir.NamedDecl {
	switch t.Kind {
	case cdecl.TypeRecord:
		if t.RecordKind == "class" {
			return ir.DeclClass
		}
		return ir.DeclStruct
	case cdecl.TypeEnum:
		return ir.DeclEnum
	case cdecl.TypeTypedef:
		return ir.DeclTypedef
	}
	return ir.DeclElaborated
}
