package cheader

import (
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/libnativeapi/bindgen/cdecl"
)

// signature describes the function declarator nearest a declared name.
type signature struct {
	params   []*cdecl.Decl
	variadic bool
	isConst  bool
	deleted  bool
	callConv string
}

// declarator is the result of resolving a declarator against a base type.
type declarator struct {
	name string
	typ  *cdecl.TypeRef
	sig  *signature
	// kind is the node type that carried the name.
	kind string
}

// nameKinds are the node types that terminate a declarator chain.
var nameKinds = map[string]bool{
	"identifier":           true,
	"field_identifier":     true,
	"type_identifier":      true,
	"primitive_type":       true,
	"qualified_identifier": true,
	"destructor_name":      true,
	"operator_name":        true,
	"template_function":    true,
}

// declaratorKinds are the node types that may appear as a declarator child.
var declaratorKinds = map[string]bool{
	"pointer_declarator":            true,
	"reference_declarator":          true,
	"array_declarator":              true,
	"function_declarator":           true,
	"parenthesized_declarator":      true,
	"init_declarator":               true,
	"abstract_pointer_declarator":   true,
	"abstract_reference_declarator": true,
	"abstract_array_declarator":     true,
	"abstract_function_declarator":  true,
}

func sameNode(a, b sitter.Node) bool {
	return !a.IsNull() && !b.IsNull() && a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

// declarators returns the declarator children of a declaration-like node,
// skipping its type specifier.
func (f *fileConv) declarators(n sitter.Node) []sitter.Node {
	typeNode := n.ChildByFieldName("type")
	var out []sitter.Node
	for i := range n.NamedChildCount() {
		c := n.NamedChild(i)
		if sameNode(c, typeNode) {
			continue
		}
		if declaratorKinds[c.Type()] || nameKinds[c.Type()] {
			out = append(out, c)
		}
	}
	return out
}

// qualifiers collects type_qualifier children of n.
func (f *fileConv) qualifiers(n sitter.Node, t *cdecl.TypeRef) {
	for i := range n.NamedChildCount() {
		c := n.NamedChild(i)
		if c.Type() != "type_qualifier" {
			continue
		}
		switch strings.TrimSpace(c.Content(f.src)) {
		case "const", "constexpr":
			t.Const = true
		case "volatile":
			t.Volatile = true
		case "restrict", "__restrict", "__restrict__":
			t.Restrict = true
		}
	}
}

// hasChildType reports whether n has a direct child (named or not) of the
// given node type or, for named children, the given text.
func (f *fileConv) hasChild(n sitter.Node, nodeType, text string) bool {
	for i := range n.ChildCount() {
		c := n.Child(i)
		if c.Type() != nodeType {
			continue
		}
		if text == "" || strings.TrimSpace(c.Content(f.src)) == text {
			return true
		}
	}
	return false
}

// baseType converts the type specifier of a declaration-like node.
func (f *fileConv) baseType(owner sitter.Node) *cdecl.TypeRef {
	n := owner.ChildByFieldName("type")
	var t *cdecl.TypeRef
	if n.IsNull() {
		t = &cdecl.TypeRef{Kind: cdecl.TypeUnexposed}
	} else {
		t = f.typeSpecifier(n)
	}
	f.qualifiers(owner, t)
	return t
}

func (f *fileConv) typeSpecifier(n sitter.Node) *cdecl.TypeRef {
	text := normalizeSpace(n.Content(f.src))
	switch n.Type() {
	case "primitive_type":
		if text == "void" {
			return &cdecl.TypeRef{Kind: cdecl.TypeVoid}
		}
		return &cdecl.TypeRef{Kind: cdecl.TypeBuiltin, Name: text}
	case "sized_type_specifier":
		return &cdecl.TypeRef{Kind: cdecl.TypeBuiltin, Name: f.sizedType(n)}
	case "type_identifier", "qualified_identifier", "template_type":
		return &cdecl.TypeRef{Kind: cdecl.TypeElaborated, Name: text}
	case "struct_specifier", "class_specifier", "union_specifier":
		name := n.ChildByFieldName("name")
		ref := &cdecl.TypeRef{Kind: cdecl.TypeRecord, RecordKind: strings.TrimSuffix(n.Type(), "_specifier")}
		if !name.IsNull() {
			ref.Name = normalizeSpace(name.Content(f.src))
		}
		return ref
	case "enum_specifier":
		name := n.ChildByFieldName("name")
		ref := &cdecl.TypeRef{Kind: cdecl.TypeEnum}
		if !name.IsNull() {
			ref.Name = normalizeSpace(name.Content(f.src))
		}
		return ref
	}
	return &cdecl.TypeRef{Kind: cdecl.TypeUnexposed, Name: text}
}

// sizedType canonicalizes specifiers such as "unsigned", "long int" or
// "signed char".
func (f *fileConv) sizedType(n sitter.Node) string {
	var unsigned, signed, short bool
	longs := 0
	for i := range n.ChildCount() {
		switch n.Child(i).Type() {
		case "unsigned":
			unsigned = true
		case "signed":
			signed = true
		case "short":
			short = true
		case "long":
			longs++
		}
	}
	base := "int"
	if t := n.ChildByFieldName("type"); !t.IsNull() {
		base = t.Content(f.src)
	}
	switch {
	case base == "char":
		switch {
		case unsigned:
			return "unsigned char"
		case signed:
			return "signed char"
		}
		return "char"
	case base == "double":
		if longs > 0 {
			return "long double"
		}
		return "double"
	case base != "int":
		return normalizeSpace(n.Content(f.src))
	}
	var name string
	switch {
	case short:
		name = "short"
	case longs == 1:
		name = "long"
	case longs >= 2:
		name = "long long"
	default:
		name = "int"
	}
	if unsigned {
		return "unsigned " + name
	}
	return name
}

// resolve applies a declarator chain to the base type, outermost first.
func (f *fileConv) resolve(n sitter.Node, base *cdecl.TypeRef) declarator {
	if n.IsNull() {
		return declarator{typ: base}
	}
	switch n.Type() {
	case "init_declarator":
		return f.resolve(n.ChildByFieldName("declarator"), base)
	case "parenthesized_declarator":
		if n.NamedChildCount() == 0 {
			return declarator{typ: base}
		}
		return f.resolve(n.NamedChild(0), base)
	case "pointer_declarator", "abstract_pointer_declarator":
		ptr := &cdecl.TypeRef{Kind: cdecl.TypePointer, Pointee: base}
		f.qualifiers(n, ptr)
		return f.resolve(n.ChildByFieldName("declarator"), ptr)
	case "reference_declarator", "abstract_reference_declarator":
		ref := &cdecl.TypeRef{Kind: cdecl.TypeLValueReference, Pointee: base}
		if f.hasChild(n, "&&", "") {
			ref.Kind = cdecl.TypeRValueReference
		}
		inner := n.ChildByFieldName("declarator")
		if inner.IsNull() {
			for i := range n.NamedChildCount() {
				inner = n.NamedChild(i)
			}
		}
		return f.resolve(inner, ref)
	case "array_declarator", "abstract_array_declarator":
		arr := &cdecl.TypeRef{Kind: cdecl.TypeArray, Element: base}
		if size := n.ChildByFieldName("size"); !size.IsNull() {
			ev := &evaluator{src: f.src, known: f.session.constants}
			if v, err := ev.eval(size); err == nil && v >= 0 {
				length := int(v)
				arr.Length = &length
			}
		}
		f.qualifiers(n, arr)
		return f.resolve(n.ChildByFieldName("declarator"), arr)
	case "function_declarator", "abstract_function_declarator":
		fn := &cdecl.TypeRef{Kind: cdecl.TypeFunction, Result: base}
		sig := f.signature(n)
		d := f.resolve(n.ChildByFieldName("declarator"), fn)
		if d.sig == nil {
			d.sig = sig
		}
		return d
	}
	if nameKinds[n.Type()] {
		return declarator{name: normalizeSpace(n.Content(f.src)), typ: base, kind: n.Type()}
	}
	return declarator{typ: base}
}

func (f *fileConv) signature(n sitter.Node) *signature {
	sig := &signature{}
	for i := range n.NamedChildCount() {
		c := n.NamedChild(i)
		switch c.Type() {
		case "type_qualifier":
			if strings.TrimSpace(c.Content(f.src)) == "const" {
				sig.isConst = true
			}
		case "delete_method_clause":
			sig.deleted = true
		case "ms_call_modifier":
			sig.callConv = strings.TrimSpace(c.Content(f.src))
		}
	}
	params := n.ChildByFieldName("parameters")
	if params.IsNull() {
		return sig
	}
	for i := range params.ChildCount() {
		c := params.Child(i)
		switch c.Type() {
		case "...", "variadic_parameter", "variadic_parameter_declaration":
			sig.variadic = true
		case "parameter_declaration", "optional_parameter_declaration":
			base := f.baseType(c)
			d := f.resolve(c.ChildByFieldName("declarator"), base)
			if d.name == "" && d.typ.Kind == cdecl.TypeVoid && params.NamedChildCount() == 1 {
				continue
			}
			sig.params = append(sig.params, &cdecl.Decl{
				Kind:     cdecl.KindParam,
				Name:     d.name,
				Location: f.location(c),
				Type:     d.typ,
			})
		}
	}
	return sig
}

// typeDescriptor converts a type_descriptor node, as used by using-aliases
// and template arguments.
func (f *fileConv) typeDescriptor(n sitter.Node) *cdecl.TypeRef {
	if n.IsNull() {
		return &cdecl.TypeRef{Kind: cdecl.TypeUnexposed}
	}
	if n.Type() != "type_descriptor" {
		return f.typeSpecifier(n)
	}
	base := f.baseType(n)
	return f.resolve(n.ChildByFieldName("declarator"), base).typ
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
