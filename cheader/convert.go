package cheader

import (
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
	"go.uber.org/zap"

	"github.com/libnativeapi/bindgen/cdecl"
)

// fileConv converts the syntax tree of one header.
type fileConv struct {
	session  *session
	path     string
	src      []byte
	includes []string
}

func (f *fileConv) location(n sitter.Node) cdecl.Location {
	p := n.StartPoint()
	return cdecl.Location{File: f.path, Line: int(p.Row) + 1, Column: int(p.Column) + 1}
}

// container converts the children of a scope node. Comments immediately
// preceding a declaration become its documentation.
func (f *fileConv) container(n sitter.Node) []*cdecl.Decl {
	return f.scope(n, nil, "")
}

// recordScope identifies the record whose body is being converted.
type recordScope struct {
	name string
}

// scope converts the named children of n. record is the enclosing record
// (nil outside records) and access its default access.
func (f *fileConv) scope(n sitter.Node, record *recordScope, access string) []*cdecl.Decl {
	var out []*cdecl.Decl
	var comment string
	var commentEnd uint
	for i := range n.NamedChildCount() {
		c := n.NamedChild(i)
		adjacent := comment != "" && f.onlySpace(commentEnd, uint(c.StartByte()))
		if c.Type() == "comment" {
			text := c.Content(f.src)
			if adjacent {
				comment += "\n" + text
			} else {
				comment = text
			}
			commentEnd = uint(c.EndByte())
			continue
		}
		doc := ""
		if adjacent {
			doc = comment
		}
		comment = ""

		if c.Type() == "access_specifier" {
			access = strings.TrimSuffix(strings.TrimSpace(c.Content(f.src)), ":")
			continue
		}
		decls := f.node(c, record, access)
		if len(decls) > 0 && doc != "" && decls[len(decls)-1].Comment == "" {
			decls[len(decls)-1].Comment = doc
		}
		out = append(out, decls...)
	}
	return out
}

// onlySpace reports whether the source between two byte offsets is blank.
// Blanked decoration macros count as blank.
func (f *fileConv) onlySpace(from, to uint) bool {
	if from > to || int(to) > len(f.src) {
		return false
	}
	return strings.TrimSpace(string(f.src[from:to])) == ""
}

// node converts a single declaration-level node.
func (f *fileConv) node(n sitter.Node, record *recordScope, access string) []*cdecl.Decl {
	switch n.Type() {
	case "preproc_include":
		path := n.ChildByFieldName("path")
		if !path.IsNull() && path.Type() == "string_literal" {
			f.includes = append(f.includes, strings.Trim(path.Content(f.src), `"`))
		}
		return nil
	case "preproc_def":
		return f.macro(n)
	case "preproc_ifdef", "preproc_if", "preproc_else", "preproc_elif", "preproc_elifdef":
		return f.scope(n, record, access)
	case "declaration_list", "field_declaration_list":
		return f.scope(n, record, access)
	case "namespace_definition":
		ns := &cdecl.Decl{Kind: cdecl.KindNamespace, Location: f.location(n)}
		if name := n.ChildByFieldName("name"); !name.IsNull() {
			ns.Name = normalizeSpace(name.Content(f.src))
		}
		if body := n.ChildByFieldName("body"); !body.IsNull() {
			ns.Children = f.scope(body, nil, "")
		}
		return []*cdecl.Decl{ns}
	case "linkage_specification":
		ls := &cdecl.Decl{Kind: cdecl.KindLinkageSpec, Location: f.location(n)}
		if body := n.ChildByFieldName("body"); !body.IsNull() {
			if body.Type() == "declaration_list" {
				ls.Children = f.scope(body, nil, "")
			} else {
				ls.Children = f.node(body, nil, "")
			}
		}
		return []*cdecl.Decl{ls}
	case "type_definition":
		return f.typedef(n)
	case "alias_declaration":
		return f.alias(n)
	case "struct_specifier", "class_specifier", "union_specifier", "enum_specifier":
		if d := f.specifier(n, access); d != nil {
			return []*cdecl.Decl{d}
		}
		return nil
	case "declaration", "field_declaration", "function_definition":
		return f.declaration(n, record, access)
	case "template_declaration", "friend_declaration", "static_assert_declaration",
		"preproc_function_def", "preproc_call", "using_declaration", "comment", "ERROR":
		return nil
	}
	f.session.parser.logger.Debug("skipping node",
		zap.String("type", n.Type()),
		zap.String("file", f.path),
		zap.Int("line", int(n.StartPoint().Row)+1),
	)
	return nil
}

func (f *fileConv) macro(n sitter.Node) []*cdecl.Decl {
	name := n.ChildByFieldName("name")
	if name.IsNull() {
		return nil
	}
	d := &cdecl.Decl{
		Kind:     cdecl.KindMacro,
		Name:     name.Content(f.src),
		Location: f.location(n),
		Tokens:   []string{name.Content(f.src)},
	}
	if value := n.ChildByFieldName("value"); !value.IsNull() {
		d.Tokens = append(d.Tokens, macroTokens(value.Content(f.src))...)
	}
	return []*cdecl.Decl{d}
}

// specifier converts a struct, class, union or enum specifier. It returns
// nil for specifiers that only reference a type.
func (f *fileConv) specifier(n sitter.Node, access string) *cdecl.Decl {
	body := n.ChildByFieldName("body")
	name := ""
	if nn := n.ChildByFieldName("name"); !nn.IsNull() {
		name = normalizeSpace(nn.Content(f.src))
	}
	if body.IsNull() && name == "" {
		return nil
	}
	if n.Type() == "enum_specifier" {
		return f.enum(n, name, body, access)
	}

	kind := cdecl.KindStruct
	defaultAccess := "public"
	switch n.Type() {
	case "class_specifier":
		kind = cdecl.KindClass
		defaultAccess = "private"
	case "union_specifier":
		kind = cdecl.KindUnion
	}
	d := &cdecl.Decl{
		Kind:         kind,
		Name:         name,
		Location:     f.location(n),
		Access:       access,
		IsDefinition: !body.IsNull(),
	}
	if d.IsDefinition {
		f.session.declare(name, symbol{kind: cdecl.TypeRecord, recordKind: strings.TrimSuffix(n.Type(), "_specifier")})
	}
	for i := range n.NamedChildCount() {
		c := n.NamedChild(i)
		if c.Type() != "base_class_clause" {
			continue
		}
		for j := range c.NamedChildCount() {
			b := c.NamedChild(j)
			switch b.Type() {
			case "type_identifier", "qualified_identifier", "template_type":
				d.Children = append(d.Children, &cdecl.Decl{
					Kind:     cdecl.KindBaseSpecifier,
					Name:     normalizeSpace(b.Content(f.src)),
					Location: f.location(b),
				})
			}
		}
	}
	if !body.IsNull() {
		d.Children = append(d.Children, f.scope(body, &recordScope{name: name}, defaultAccess)...)
	}
	return d
}

func (f *fileConv) enum(n sitter.Node, name string, body sitter.Node, access string) *cdecl.Decl {
	d := &cdecl.Decl{
		Kind:         cdecl.KindEnum,
		Name:         name,
		Location:     f.location(n),
		Access:       access,
		IsDefinition: !body.IsNull(),
		Scoped:       f.hasChild(n, "class", "") || f.hasChild(n, "struct", ""),
	}
	if base := n.ChildByFieldName("base"); !base.IsNull() {
		d.Type = f.typeSpecifier(base)
	}
	if body.IsNull() {
		return d
	}
	f.session.declare(name, symbol{kind: cdecl.TypeEnum})

	ev := &evaluator{src: f.src, known: f.session.constants}
	next := int64(0)
	var comment string
	for i := range body.NamedChildCount() {
		c := body.NamedChild(i)
		if c.Type() == "comment" {
			comment = c.Content(f.src)
			continue
		}
		if c.Type() != "enumerator" {
			comment = ""
			continue
		}
		ename := c.ChildByFieldName("name").Content(f.src)
		value := next
		if expr := c.ChildByFieldName("value"); !expr.IsNull() {
			v, err := ev.eval(expr)
			if err != nil {
				f.session.parser.logger.Debug("cannot evaluate enumerator",
					zap.String("enum", name),
					zap.String("enumerator", ename),
					zap.Error(err),
				)
			} else {
				value = v
			}
		}
		f.session.constants[ename] = value
		next = value + 1
		v := value
		d.Children = append(d.Children, &cdecl.Decl{
			Kind:     cdecl.KindEnumConstant,
			Name:     ename,
			Location: f.location(c),
			Comment:  comment,
			Value:    &v,
		})
		comment = ""
	}
	return d
}

// inlineDefinition returns the record or enum defined inside a
// declaration's type specifier, if any.
func (f *fileConv) inlineDefinition(n sitter.Node, access string) *cdecl.Decl {
	t := n.ChildByFieldName("type")
	if t.IsNull() {
		return nil
	}
	switch t.Type() {
	case "struct_specifier", "class_specifier", "union_specifier", "enum_specifier":
	default:
		return nil
	}
	if t.ChildByFieldName("body").IsNull() {
		return nil
	}
	return f.specifier(t, access)
}

func (f *fileConv) typedef(n sitter.Node) []*cdecl.Decl {
	var out []*cdecl.Decl
	def := f.inlineDefinition(n, "")
	anonymous := def != nil && def.Name == ""
	if def != nil && !anonymous {
		out = append(out, def)
	}
	base := f.baseType(n)
	for _, dn := range f.declarators(n) {
		d := f.resolve(dn, base)
		if d.name == "" {
			continue
		}
		td := &cdecl.Decl{
			Kind:     cdecl.KindTypedef,
			Name:     d.name,
			Location: f.location(n),
			Type:     d.typ,
		}
		if anonymous && d.typ == base {
			td.Underlying = def
			f.session.declare(d.name, symbol{kind: recordOrEnum(def), recordKind: string(def.Kind)})
		} else {
			f.session.declare(d.name, symbol{kind: cdecl.TypeTypedef})
		}
		out = append(out, td)
	}
	return out
}

func recordOrEnum(d *cdecl.Decl) cdecl.TypeKind {
	if d.Kind == cdecl.KindEnum {
		return cdecl.TypeEnum
	}
	return cdecl.TypeRecord
}

func (f *fileConv) alias(n sitter.Node) []*cdecl.Decl {
	name := n.ChildByFieldName("name")
	if name.IsNull() {
		return nil
	}
	d := &cdecl.Decl{
		Kind:     cdecl.KindTypeAlias,
		Name:     normalizeSpace(name.Content(f.src)),
		Location: f.location(n),
		Type:     f.typeDescriptor(n.ChildByFieldName("type")),
	}
	f.session.declare(d.Name, symbol{kind: cdecl.TypeTypedef})
	return []*cdecl.Decl{d}
}

// declaration converts declarations, field declarations and function
// definitions. Inside records, function declarators become methods,
// constructors or destructors.
func (f *fileConv) declaration(n sitter.Node, record *recordScope, access string) []*cdecl.Decl {
	var out []*cdecl.Decl
	if def := f.inlineDefinition(n, access); def != nil {
		out = append(out, def)
	}
	deleted := f.hasChild(n, "delete_method_clause", "")
	static := f.hasChild(n, "storage_class_specifier", "static")
	callConv := ""
	for i := range n.NamedChildCount() {
		if c := n.NamedChild(i); c.Type() == "ms_call_modifier" {
			callConv = strings.TrimSpace(c.Content(f.src))
		}
	}
	base := f.baseType(n)

	dns := f.declarators(n)
	if len(dns) == 0 {
		// A bare specifier such as "struct Foo;" declares the record.
		if out == nil {
			if t := n.ChildByFieldName("type"); !t.IsNull() {
				if d := f.specifier(t, access); d != nil {
					out = append(out, d)
				}
			}
		}
		return out
	}

	for _, dn := range dns {
		d := f.resolve(dn, base)
		if d.name == "" {
			continue
		}
		loc := f.location(n)
		if d.typ.Kind == cdecl.TypeFunction && d.sig != nil {
			if deleted || d.sig.deleted {
				continue
			}
			fn := &cdecl.Decl{
				Kind:     cdecl.KindFunction,
				Name:     d.name,
				Location: loc,
				Result:   d.typ.Result,
				Access:   access,
				Children: d.sig.params,
				Static:   static,
				Const:    d.sig.isConst,
				Variadic: d.sig.variadic,
				CallConv: d.sig.callConv,
			}
			if fn.CallConv == "" {
				fn.CallConv = callConv
			}
			if record != nil {
				switch {
				case d.kind == "destructor_name" || strings.HasPrefix(d.name, "~"):
					fn.Kind = cdecl.KindDestructor
				case d.name == record.name && n.ChildByFieldName("type").IsNull():
					fn.Kind = cdecl.KindConstructor
				default:
					fn.Kind = cdecl.KindMethod
				}
			}
			out = append(out, fn)
			continue
		}
		kind := cdecl.KindVariable
		if record != nil && !static {
			kind = cdecl.KindField
		}
		out = append(out, &cdecl.Decl{
			Kind:     kind,
			Name:     d.name,
			Location: loc,
			Type:     d.typ,
			Access:   access,
			Static:   static,
		})
	}
	return out
}
