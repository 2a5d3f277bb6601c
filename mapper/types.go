package mapper

import (
	"strconv"
	"strings"

	"github.com/libnativeapi/bindgen/ir"
	"github.com/libnativeapi/bindgen/naming"
)

// MappedType is an IR type resolved to a target type string.
type MappedType struct {
	// Mapped is the target type string.
	Mapped string

	// Raw is the IR type this was mapped from.
	Raw ir.Type

	// Kind is the IR type kind tag, e.g. "pointer".
	Kind string

	// Name is the looked-up name of primitive, named and unknown types.
	Name string

	IsPointer bool
	IsArray   bool
	IsVoid    bool
	IsConst   bool

	// Inner is the mapped pointee or referent.
	Inner *MappedType

	// Element and Length describe arrays. Length is meaningful only when
	// Sized.
	Element *MappedType
	Length  int
	Sized   bool
}

// String returns the target type string.
func (t *MappedType) String() string {
	if t == nil {
		return ""
	}
	return t.Mapped
}

// Mapper maps IR types and items using one mapping configuration.
type Mapper struct {
	cfg   Config
	namer *naming.Transformer
}

// New creates a Mapper. A nil namer leaves names unchanged.
func New(cfg Config, namer *naming.Transformer) *Mapper {
	if namer == nil {
		namer = naming.Identity()
	}
	return &Mapper{cfg: withDefaults(cfg), namer: namer}
}

// Config returns the effective configuration, defaults applied.
func (m *Mapper) Config() Config { return m.cfg }

// Namer returns the naming transformer applied to mapped items.
func (m *Mapper) Namer() *naming.Transformer { return m.namer }

// MapType maps t. It fails only with an *UnresolvedTypeError, when a name
// has no table entry and both passthrough and the default type are
// disabled.
func (m *Mapper) MapType(t ir.Type) (*MappedType, error) {
	if t == nil {
		t = ir.Void()
	}
	isConst := ir.IsConst(t)
	out := &MappedType{Raw: t, Kind: t.Kind().String(), IsConst: isConst}

	switch v := t.(type) {
	case *ir.VoidType:
		out.IsVoid = true
		out.Mapped = m.cfg.VoidType
		if mapped, ok := m.cfg.Types["void"]; ok {
			out.Mapped = mapped
		}

	case *ir.PointerType:
		inner, err := m.MapType(v.Pointee)
		if err != nil {
			return nil, err
		}
		out.IsPointer = true
		out.Inner = inner
		out.IsConst = isConst || ir.IsConst(v.Pointee)
		out.Mapped = m.pointer(v, inner, out.IsConst)

	case *ir.ArrayType:
		elem, err := m.MapType(v.Element)
		if err != nil {
			return nil, err
		}
		out.IsArray = true
		out.Element = elem
		out.Length = v.Length
		out.Sized = v.Sized
		length := ""
		if v.Sized {
			length = strconv.Itoa(v.Length)
		}
		out.Mapped = strings.NewReplacer(
			"{element}", elem.Mapped,
			"{length}", length,
		).Replace(m.cfg.ArrayFormat)

	case *ir.ReferenceType:
		inner, err := m.MapType(v.Referent)
		if err != nil {
			return nil, err
		}
		out.Inner = inner
		out.Mapped = strings.ReplaceAll(m.cfg.ReferenceFormat, "{inner}", inner.Mapped)

	case *ir.FunctionPointerType:
		out.Mapped = m.cfg.FunctionPointerType
		if mapped, ok := m.cfg.Types["function_pointer"]; ok {
			out.Mapped = mapped
		}

	default:
		name := ir.BaseName(t)
		if name == "" {
			name = t.Kind().String()
		}
		mapped, err := m.lookup(name, isConst)
		if err != nil {
			return nil, err
		}
		out.Name = name
		out.Mapped = mapped
	}
	return out, nil
}

// pointerKey returns the table key of a pointer type, or "" for pointers
// to wrapper types.
func pointerKey(pointee ir.Type) string {
	if _, ok := pointee.(*ir.VoidType); ok {
		return "void*"
	}
	if name := ir.BaseName(pointee); name != "" {
		return name + "*"
	}
	return ""
}

func (m *Mapper) pointer(p *ir.PointerType, inner *MappedType, isConst bool) string {
	key := pointerKey(p.Pointee)
	if key != "" {
		if isConst {
			if mapped, ok := m.cfg.Types["const "+key]; ok {
				return mapped
			}
		}
		if mapped, ok := m.cfg.Types[key]; ok {
			return mapped
		}
		if key == "void*" && m.cfg.VoidPointerType != "" {
			return m.cfg.VoidPointerType
		}
		if isConst && key == "char*" && m.cfg.ConstCharPointerType != "" {
			return m.cfg.ConstCharPointerType
		}
	}
	format := m.cfg.PointerFormat
	if isConst {
		format = m.cfg.ConstPointerFormat
	}
	return strings.ReplaceAll(format, "{inner}", inner.Mapped)
}

// lookup resolves a primitive, named or unknown type name.
func (m *Mapper) lookup(name string, isConst bool) (string, error) {
	wrap := func(s string) string { return m.cfg.TypePrefix + s + m.cfg.TypeSuffix }
	if isConst {
		if mapped, ok := m.cfg.Types["const "+name]; ok {
			return wrap(mapped), nil
		}
	}
	if mapped, ok := m.cfg.Types[name]; ok {
		return wrap(mapped), nil
	}
	if m.cfg.Passthrough() {
		return wrap(name), nil
	}
	if m.cfg.DefaultType != "" {
		return m.cfg.DefaultType, nil
	}
	return "", &UnresolvedTypeError{Name: name}
}
