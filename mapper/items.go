package mapper

import (
	"github.com/cockroachdb/errors"

	"github.com/libnativeapi/bindgen/ir"
)

// Item is a mapped top-level declaration.
type Item interface {
	// ItemKind returns the item kind tag, e.g. "struct".
	ItemKind() string

	// ItemName returns the transformed name.
	ItemName() string

	sealed()
}

// Field is a mapped struct or class field.
type Field struct {
	Name string
	Type *MappedType
	Raw  *ir.Field
}

// Param is a mapped parameter.
type Param struct {
	Name      string
	Type      *MappedType
	Nullable  bool
	Direction ir.Direction

	// Args are the call-site argument expressions for this parameter.
	Args []string

	Raw *ir.Param
}

// Struct is a mapped plain record.
type Struct struct {
	Kind          string
	Name          string
	QualifiedName string
	Fields        []*Field
	Documentation ir.Documentation
	Raw           *ir.Struct
}

// EnumValue is a mapped enumerator.
type EnumValue struct {
	Name  string
	Value int64
}

// Enum is a mapped enumeration.
type Enum struct {
	Kind          string
	Name          string
	QualifiedName string
	Scoped        bool
	Values        []EnumValue
	Documentation ir.Documentation
	Raw           *ir.Enum
}

// Alias is a mapped typedef.
type Alias struct {
	Kind          string
	Name          string
	Target        *MappedType
	Documentation ir.Documentation
	Raw           *ir.Alias
}

// Function is a mapped free function with its bridging metadata.
type Function struct {
	Kind          string
	Name          string
	QualifiedName string
	ReturnType    *MappedType
	Params        []*Param
	CallConv      string
	Variadic      bool
	Documentation ir.Documentation
	Bridge
	Raw *ir.Function
}

// Method is a mapped method with its bridging metadata and classification.
type Method struct {
	Name          string
	ReturnType    *MappedType
	Params        []*Param
	MethodKind    ir.MethodKind
	Static        bool
	Const         bool
	Access        ir.Access
	Variadic      bool
	Documentation ir.Documentation
	Bridge
	Classification
	Raw *ir.Method
}

// Class is a mapped C++ class.
type Class struct {
	Kind          string
	Name          string
	QualifiedName string
	Fields        []*Field
	Methods       []*Method
	Bases         []string

	// Singleton is set for classes listed in singleton_classes.
	// InstanceSymbol is then the call symbol of the instance accessor.
	Singleton      bool
	InstanceSymbol string

	Documentation ir.Documentation
	Raw           *ir.Class
}

// Bindable returns the methods not classified as skipped.
func (c *Class) Bindable() []*Method {
	var out []*Method
	for _, m := range c.Methods {
		if m.Role != RoleSkip {
			out = append(out, m)
		}
	}
	return out
}

// Constant is a mapped constant.
type Constant struct {
	Kind          string
	Name          string
	Type          *MappedType
	Value         any
	Documentation ir.Documentation
	Raw           *ir.Constant
}

func (s *Struct) ItemKind() string   { return s.Kind }
func (e *Enum) ItemKind() string     { return e.Kind }
func (a *Alias) ItemKind() string    { return a.Kind }
func (f *Function) ItemKind() string { return f.Kind }
func (c *Class) ItemKind() string    { return c.Kind }
func (c *Constant) ItemKind() string { return c.Kind }

func (s *Struct) ItemName() string   { return s.Name }
func (e *Enum) ItemName() string     { return e.Name }
func (a *Alias) ItemName() string    { return a.Name }
func (f *Function) ItemName() string { return f.Name }
func (c *Class) ItemName() string    { return c.Name }
func (c *Constant) ItemName() string { return c.Name }

func (*Struct) sealed()   {}
func (*Enum) sealed()     {}
func (*Alias) sealed()    {}
func (*Function) sealed() {}
func (*Class) sealed()    {}
func (*Constant) sealed() {}

// File is a mapped source file.
type File struct {
	Items []Item
	Raw   *ir.File
}

// Structs returns the file's structs in item order.
func (f *File) Structs() []*Struct { return itemsOf[*Struct](f.Items) }

// Enums returns the file's enums in item order.
func (f *File) Enums() []*Enum { return itemsOf[*Enum](f.Items) }

// Aliases returns the file's aliases in item order.
func (f *File) Aliases() []*Alias { return itemsOf[*Alias](f.Items) }

// Functions returns the file's functions in item order.
func (f *File) Functions() []*Function { return itemsOf[*Function](f.Items) }

// Classes returns the file's classes in item order.
func (f *File) Classes() []*Class { return itemsOf[*Class](f.Items) }

// Constants returns the file's constants in item order.
func (f *File) Constants() []*Constant { return itemsOf[*Constant](f.Items) }

func itemsOf[T Item](items []Item) []T {
	var out []T
	for _, it := range items {
		if v, ok := it.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// MapFile maps every item of f in order.
func (m *Mapper) MapFile(f *ir.File) (*File, error) {
	out := &File{Raw: f}
	if f == nil {
		return out, nil
	}
	for _, it := range f.Items {
		mapped, err := m.MapItem(it)
		if err != nil {
			return nil, err
		}
		out.Items = append(out.Items, mapped)
	}
	return out, nil
}

// MapItem maps any IR item. Errors name the failing item.
func (m *Mapper) MapItem(it ir.Item) (Item, error) {
	var (
		out Item
		err error
	)
	switch v := it.(type) {
	case *ir.Struct:
		out, err = m.MapStruct(v)
	case *ir.Enum:
		out = m.MapEnum(v)
	case *ir.Alias:
		out, err = m.MapAlias(v)
	case *ir.Function:
		out, err = m.MapFunction(v)
	case *ir.Class:
		out, err = m.MapClass(v)
	case *ir.Constant:
		out, err = m.MapConstant(v)
	default:
		return nil, errors.Newf("unknown item type %T", it)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", it.Kind(), it.ItemName())
	}
	return out, nil
}

// MapField maps a field.
func (m *Mapper) MapField(f *ir.Field) (*Field, error) {
	t, err := m.MapType(f.Type)
	if err != nil {
		return nil, errors.Wrapf(err, "field %s", f.Name)
	}
	return &Field{Name: m.namer.FieldName(f.Name), Type: t, Raw: f}, nil
}

func (m *Mapper) mapFields(fields []ir.Field) ([]*Field, error) {
	out := make([]*Field, 0, len(fields))
	for i := range fields {
		f, err := m.MapField(&fields[i])
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// MapParam maps a parameter without bridge arguments.
func (m *Mapper) MapParam(p *ir.Param) (*Param, error) {
	t, err := m.MapType(p.Type)
	if err != nil {
		return nil, errors.Wrapf(err, "param %s", p.Name)
	}
	name := m.namer.ParamName(p.Name)
	return &Param{
		Name:      name,
		Type:      t,
		Nullable:  p.Nullable,
		Direction: p.Direction,
		Args:      []string{name},
		Raw:       p,
	}, nil
}

func (m *Mapper) mapParams(params []ir.Param, symbol string) ([]*Param, error) {
	out := make([]*Param, 0, len(params))
	for i := range params {
		p, err := m.MapParam(&params[i])
		if err != nil {
			return nil, err
		}
		p.Args = m.ParamArgs(p, symbol)
		out = append(out, p)
	}
	return out, nil
}

// MapStruct maps a struct.
func (m *Mapper) MapStruct(s *ir.Struct) (*Struct, error) {
	fields, err := m.mapFields(s.Fields)
	if err != nil {
		return nil, err
	}
	return &Struct{
		Kind:          ir.ItemStruct.String(),
		Name:          m.namer.TypeName(s.Name),
		QualifiedName: s.QualifiedName,
		Fields:        fields,
		Documentation: s.Documentation,
		Raw:           s,
	}, nil
}

// MapEnum maps an enum. Enums carry no types, so mapping cannot fail.
func (m *Mapper) MapEnum(e *ir.Enum) *Enum {
	values := make([]EnumValue, 0, len(e.Values))
	for _, v := range e.Values {
		values = append(values, EnumValue{Name: m.namer.EnumValueName(v.Name), Value: v.Value})
	}
	return &Enum{
		Kind:          ir.ItemEnum.String(),
		Name:          m.namer.EnumName(e.Name),
		QualifiedName: e.QualifiedName,
		Scoped:        e.Scoped,
		Values:        values,
		Documentation: e.Documentation,
		Raw:           e,
	}
}

// MapAlias maps a typedef.
func (m *Mapper) MapAlias(a *ir.Alias) (*Alias, error) {
	target, err := m.MapType(a.Target)
	if err != nil {
		return nil, err
	}
	return &Alias{
		Kind:          ir.ItemAlias.String(),
		Name:          m.namer.AliasName(a.Name),
		Target:        target,
		Documentation: a.Documentation,
		Raw:           a,
	}, nil
}

// MapFunction maps a free function and resolves its bridging metadata.
func (m *Mapper) MapFunction(f *ir.Function) (*Function, error) {
	ret, err := m.MapType(f.ReturnType)
	if err != nil {
		return nil, errors.Wrap(err, "return type")
	}
	symbol := m.FunctionSymbol(f)
	params, err := m.mapParams(f.Params, symbol)
	if err != nil {
		return nil, err
	}
	return &Function{
		Kind:          ir.ItemFunction.String(),
		Name:          m.namer.FunctionName(f.Name),
		QualifiedName: f.QualifiedName,
		ReturnType:    ret,
		Params:        params,
		CallConv:      f.CallConv,
		Variadic:      f.Variadic,
		Documentation: f.Documentation,
		Bridge:        m.bridge(symbol, ret),
		Raw:           f,
	}, nil
}

// MapMethod maps a method of class c.
func (m *Mapper) MapMethod(c *ir.Class, method *ir.Method) (*Method, error) {
	ret, err := m.MapType(method.ReturnType)
	if err != nil {
		return nil, errors.Wrapf(err, "method %s: return type", method.Name)
	}
	symbol := m.MethodSymbol(c, method.Name)
	params, err := m.mapParams(method.Params, symbol)
	if err != nil {
		return nil, errors.Wrapf(err, "method %s", method.Name)
	}
	out := &Method{
		Name:          m.namer.MethodName(method.Name),
		ReturnType:    ret,
		Params:        params,
		MethodKind:    method.Kind,
		Static:        method.Static,
		Const:         method.Const,
		Access:        method.Access,
		Variadic:      method.Variadic,
		Documentation: method.Documentation,
		Bridge:        m.bridge(symbol, ret),
		Raw:           method,
	}
	out.Classification = m.Classify(c.Name, out)
	return out, nil
}

// MapClass maps a class, its members and its singleton metadata.
func (m *Mapper) MapClass(c *ir.Class) (*Class, error) {
	fields, err := m.mapFields(c.Fields)
	if err != nil {
		return nil, err
	}
	out := &Class{
		Kind:          ir.ItemClass.String(),
		Name:          m.namer.ClassName(c.Name),
		QualifiedName: c.QualifiedName,
		Fields:        fields,
		Bases:         c.Bases,
		Documentation: c.Documentation,
		Raw:           c,
	}
	for i := range c.Methods {
		method, err := m.MapMethod(c, &c.Methods[i])
		if err != nil {
			return nil, err
		}
		out.Methods = append(out.Methods, method)
	}
	out.Singleton, out.InstanceSymbol = m.singleton(c, out.Name)
	return out, nil
}

// MapConstant maps a constant.
func (m *Mapper) MapConstant(c *ir.Constant) (*Constant, error) {
	t, err := m.MapType(c.Type)
	if err != nil {
		return nil, err
	}
	return &Constant{
		Kind:          ir.ItemConstant.String(),
		Name:          m.namer.ConstantName(c.Name),
		Type:          t,
		Value:         c.Value,
		Documentation: c.Documentation,
		Raw:           c,
	}, nil
}
