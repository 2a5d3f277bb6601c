// Package normalize builds an ir.Module from a cdecl declaration tree.
//
// Traversal is depth-first. Namespaces, linkage specifications and unexposed
// declarations are transparent containers that contribute to qualified names
// (namespaces only) but never produce items themselves.
package normalize

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/libnativeapi/bindgen/cdecl"
	"github.com/libnativeapi/bindgen/ir"
)

// DefaultIgnoreMarker excludes a declaration when it appears in its comment.
const DefaultIgnoreMarker = "bindgen:ignore"

// Config controls which declarations are kept and how files are keyed.
type Config struct {
	// Allowlist keeps only names matched by at least one pattern when
	// non-empty. Patterns are unanchored.
	Allowlist []string

	// Denylist drops names matched by any pattern.
	Denylist []string

	// ExcludeDirs drops declarations whose source path has a segment equal
	// to one of these names.
	ExcludeDirs []string

	// ProjectRoot makes file keys relative to it when it contains the file.
	ProjectRoot string

	// IgnoreMarker overrides DefaultIgnoreMarker.
	IgnoreMarker string
}

// Option configures a Normalize call.
type Option func(*normalizer)

// WithLogger sets the logger used for skipped declarations.
func WithLogger(l *zap.Logger) Option {
	return func(n *normalizer) { n.logger = l }
}

type normalizer struct {
	allow   []*regexp.Regexp
	deny    []*regexp.Regexp
	exclude map[string]bool
	marker  string
	buckets *bucketer
	logger  *zap.Logger
}

// accumulator collects items per file key during traversal.
type accumulator struct {
	files map[string]*ir.File
}

func (a *accumulator) add(key string, item ir.Item) {
	f, ok := a.files[key]
	if !ok {
		f = &ir.File{}
		a.files[key] = f
	}
	f.Items = append(f.Items, item)
}

// CompileFilters compiles allow and deny patterns.
func CompileFilters(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid filter pattern %q", p)
		}
		out = append(out, re)
	}
	return out, nil
}

// Normalize converts the declaration tree rooted at root into a module.
// Items in each file are sorted by name; the sort is stable, so items with
// equal names keep traversal order.
func Normalize(root *cdecl.Decl, cfg Config, opts ...Option) (*ir.Module, error) {
	n := &normalizer{
		exclude: make(map[string]bool),
		marker:  cmp.Or(cfg.IgnoreMarker, DefaultIgnoreMarker),
		buckets: newBucketer(cfg.ProjectRoot),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	var err error
	if n.allow, err = CompileFilters(cfg.Allowlist); err != nil {
		return nil, errors.Wrap(err, "allowlist")
	}
	if n.deny, err = CompileFilters(cfg.Denylist); err != nil {
		return nil, errors.Wrap(err, "denylist")
	}
	for _, d := range cfg.ExcludeDirs {
		n.exclude[d] = true
	}

	acc := &accumulator{files: make(map[string]*ir.File)}
	if root != nil {
		if root.Kind == cdecl.KindTranslationUnit {
			for _, c := range root.Children {
				n.visit(c, nil, acc)
			}
		} else {
			n.visit(root, nil, acc)
		}
	}

	m := ir.NewModule()
	for key, f := range acc.files {
		slices.SortStableFunc(f.Items, func(a, b ir.Item) int {
			return cmp.Compare(a.ItemName(), b.ItemName())
		})
		m.Files[key] = f
	}
	return m, nil
}

// passes applies the allow and deny filters to a name.
func (n *normalizer) passes(name string) bool {
	for _, re := range n.deny {
		if re.MatchString(name) {
			return false
		}
	}
	if len(n.allow) == 0 {
		return true
	}
	for _, re := range n.allow {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

func (n *normalizer) ignored(d *cdecl.Decl) bool {
	return d.Comment != "" && strings.Contains(d.Comment, n.marker)
}

func (n *normalizer) skip(d *cdecl.Decl, reason string) {
	n.logger.Debug("skipping declaration",
		zap.String("kind", string(d.Kind)),
		zap.String("name", d.Name),
		zap.String("file", d.Location.File),
		zap.Int("line", d.Location.Line),
		zap.String("reason", reason),
	)
}

func qualify(scope []string, name string) string {
	return strings.Join(append(slices.Clone(scope), name), "::")
}

func source(d *cdecl.Decl) ir.Source {
	return ir.Source{File: d.Location.File, Line: d.Location.Line, Column: d.Location.Column}
}

func (n *normalizer) visit(d *cdecl.Decl, scope []string, acc *accumulator) {
	if d == nil {
		return
	}
	if d.Location.File == "" {
		return
	}
	if excluded(d.Location.File, n.exclude) {
		n.skip(d, "excluded directory")
		return
	}
	if n.ignored(d) {
		n.skip(d, "ignore marker")
		return
	}

	switch d.Kind {
	case cdecl.KindNamespace:
		inner := scope
		if d.Name != "" {
			inner = append(slices.Clone(scope), d.Name)
		}
		for _, c := range d.Children {
			n.visit(c, inner, acc)
		}
		return
	case cdecl.KindLinkageSpec, cdecl.KindUnexposed, cdecl.KindTranslationUnit:
		for _, c := range d.Children {
			n.visit(c, scope, acc)
		}
		return
	}

	if d.Name == "" {
		return
	}
	if !n.passes(d.Name) {
		n.skip(d, "name filter")
		return
	}
	key := n.buckets.key(d.Location.File)

	switch d.Kind {
	case cdecl.KindStruct, cdecl.KindClass:
		if !d.IsDefinition && len(d.Children) == 0 {
			return
		}
		if item := n.record(d, d.Name, scope); item != nil {
			acc.add(key, item)
		}
		n.nested(d, append(slices.Clone(scope), d.Name), acc)

	case cdecl.KindEnum:
		if !d.IsDefinition && len(d.Children) == 0 {
			return
		}
		acc.add(key, n.enum(d, d.Name, scope))

	case cdecl.KindFunction:
		if isOperator(d.Name) {
			n.skip(d, "operator")
			return
		}
		if fn := n.function(d, scope); fn != nil {
			acc.add(key, fn)
		}

	case cdecl.KindTypedef, cdecl.KindTypeAlias:
		if item := n.typedef(d, scope); item != nil {
			acc.add(key, item)
		}

	case cdecl.KindMacro:
		typ, value, ok := macroConstant(d.Tokens)
		if !ok {
			return
		}
		acc.add(key, &ir.Constant{
			Name:          d.Name,
			Type:          typ,
			Value:         value,
			Documentation: documentation(d.Comment),
			Source:        source(d),
		})

	default:
		n.skip(d, "unsupported kind")
	}
}

// nested visits record and enum definitions declared inside a record. Only
// public members of classes are considered.
func (n *normalizer) nested(d *cdecl.Decl, scope []string, acc *accumulator) {
	for _, c := range d.Children {
		switch c.Kind {
		case cdecl.KindStruct, cdecl.KindClass, cdecl.KindEnum:
			if c.Access == string(ir.AccessPrivate) || c.Access == string(ir.AccessProtected) {
				continue
			}
			if c.Location.File == "" {
				inner := *c
				inner.Location = d.Location
				c = &inner
			}
			n.visit(c, scope, acc)
		}
	}
}

// isClass reports whether a record has methods, constructors, destructors
// or base specifiers.
func isClass(d *cdecl.Decl) bool {
	for _, c := range d.Children {
		switch c.Kind {
		case cdecl.KindMethod, cdecl.KindConstructor, cdecl.KindDestructor, cdecl.KindBaseSpecifier:
			return true
		}
	}
	return false
}

func isOperator(name string) bool {
	rest, ok := strings.CutPrefix(name, "operator")
	if !ok {
		return false
	}
	if rest == "" {
		return true
	}
	c := rest[0]
	ident := c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
	return !ident
}

func publicMember(d *cdecl.Decl) bool {
	return d.Access == "" || d.Access == string(ir.AccessPublic)
}

// record converts a record definition under the given name.
func (n *normalizer) record(d *cdecl.Decl, name string, scope []string) ir.Item {
	if !isClass(d) {
		s := &ir.Struct{
			Name:          name,
			QualifiedName: qualify(scope, name),
			Documentation: documentation(d.Comment),
			Source:        source(d),
		}
		for _, c := range d.Children {
			if c.Kind != cdecl.KindField {
				continue
			}
			f, ok := n.field(c)
			if !ok {
				n.skip(d, fmt.Sprintf("field %s has no type", c.Name))
				return nil
			}
			s.Fields = append(s.Fields, f)
		}
		return s
	}

	cls := &ir.Class{
		Name:          name,
		QualifiedName: qualify(scope, name),
		Documentation: documentation(d.Comment),
		Source:        source(d),
	}
	for _, c := range d.Children {
		switch c.Kind {
		case cdecl.KindBaseSpecifier:
			cls.Bases = append(cls.Bases, c.Name)
		case cdecl.KindField:
			if !publicMember(c) || n.ignored(c) {
				continue
			}
			f, ok := n.field(c)
			if !ok {
				n.skip(c, "field has no type")
				continue
			}
			cls.Fields = append(cls.Fields, f)
		case cdecl.KindMethod, cdecl.KindConstructor, cdecl.KindDestructor:
			if !publicMember(c) || n.ignored(c) {
				continue
			}
			if m, ok := n.method(c, name); ok {
				cls.Methods = append(cls.Methods, m)
			}
		}
	}
	return cls
}

func (n *normalizer) field(d *cdecl.Decl) (ir.Field, bool) {
	t := convertType(d.Type)
	if t == nil || d.Name == "" {
		return ir.Field{}, false
	}
	return ir.Field{Name: d.Name, Type: t}, true
}

func (n *normalizer) method(d *cdecl.Decl, record string) (ir.Method, bool) {
	m := ir.Method{
		Name:          d.Name,
		Kind:          ir.MethodPlain,
		Static:        d.Static,
		Const:         d.Const,
		Access:        ir.Access(d.Access),
		Variadic:      d.Variadic,
		Documentation: documentation(d.Comment),
	}
	switch d.Kind {
	case cdecl.KindConstructor:
		m.Name = record
		m.Kind = ir.MethodConstructor
		m.ReturnType = ir.Void()
	case cdecl.KindDestructor:
		m.Name = "~" + record
		m.Kind = ir.MethodDestructor
		m.ReturnType = ir.Void()
	default:
		if d.Name == "" || isOperator(d.Name) {
			n.skip(d, "operator")
			return ir.Method{}, false
		}
		if !n.passes(d.Name) {
			n.skip(d, "name filter")
			return ir.Method{}, false
		}
		m.ReturnType = resultType(d.Result)
		if m.ReturnType == nil {
			n.skip(d, "missing return type")
			return ir.Method{}, false
		}
	}
	params, ok := n.params(d)
	if !ok {
		return ir.Method{}, false
	}
	m.Params = params
	return m, true
}

// resultType converts a return type. A missing result is void.
func resultType(t *cdecl.TypeRef) ir.Type {
	if t == nil {
		return ir.Void()
	}
	return convertType(t)
}

func (n *normalizer) params(d *cdecl.Decl) ([]ir.Param, bool) {
	var out []ir.Param
	for _, c := range d.Children {
		if c.Kind != cdecl.KindParam {
			continue
		}
		t := convertType(c.Type)
		if t == nil {
			n.skip(d, fmt.Sprintf("parameter %d has no type", len(out)))
			return nil, false
		}
		name := c.Name
		if name == "" {
			name = fmt.Sprintf("arg%d", len(out))
		}
		out = append(out, ir.Param{Name: name, Type: t})
	}
	return out, true
}

func (n *normalizer) function(d *cdecl.Decl, scope []string) *ir.Function {
	ret := resultType(d.Result)
	if ret == nil {
		n.skip(d, "missing return type")
		return nil
	}
	params, ok := n.params(d)
	if !ok {
		return nil
	}
	return &ir.Function{
		Name:          d.Name,
		QualifiedName: qualify(scope, d.Name),
		ReturnType:    ret,
		Params:        params,
		Variadic:      d.Variadic,
		CallConv:      d.CallConv,
		Documentation: documentation(d.Comment),
		Source:        source(d),
	}
}

func (n *normalizer) enum(d *cdecl.Decl, name string, scope []string) *ir.Enum {
	e := &ir.Enum{
		Name:          name,
		QualifiedName: qualify(scope, name),
		Scoped:        d.Scoped,
		Documentation: documentation(d.Comment),
		Source:        source(d),
	}
	next := int64(0)
	for _, c := range d.Children {
		if c.Kind != cdecl.KindEnumConstant {
			continue
		}
		v := next
		if c.Value != nil {
			v = *c.Value
		}
		e.Values = append(e.Values, ir.EnumValue{Name: c.Name, Value: v})
		next = v + 1
	}
	return e
}

// typedef folds typedefs of anonymous struct and enum definitions into the
// definition itself. Other typedefs become aliases, except those naming a
// type of the same name.
func (n *normalizer) typedef(d *cdecl.Decl, scope []string) ir.Item {
	if d.Underlying != nil && d.Underlying.Name == "" {
		u := *d.Underlying
		if u.Location.File == "" {
			u.Location = d.Location
		}
		u.Comment = cmp.Or(u.Comment, d.Comment)
		switch u.Kind {
		case cdecl.KindStruct, cdecl.KindClass:
			return n.record(&u, d.Name, scope)
		case cdecl.KindEnum:
			return n.enum(&u, d.Name, scope)
		}
	}
	target := convertType(d.Type)
	if target == nil {
		n.skip(d, "missing target type")
		return nil
	}
	if named, ok := target.(*ir.NamedType); ok && named.Name == d.Name {
		return nil
	}
	return &ir.Alias{
		Name:          d.Name,
		Target:        target,
		Documentation: documentation(d.Comment),
		Source:        source(d),
	}
}
