package ir

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// JSON serialization support for IR types.
// Every type and item record carries a "kind" field for discrimination.
// Constants carry a "valueKind" so float values survive a reload.

type typeJSON struct {
	Kind       string    `json:"kind"`
	Qualifiers []string  `json:"qualifiers,omitempty"`
	Name       string    `json:"name,omitempty"`
	Decl       string    `json:"decl,omitempty"`
	Spelling   string    `json:"spelling,omitempty"`
	Pointee    *typeJSON `json:"pointee,omitempty"`
	Element    *typeJSON `json:"element,omitempty"`
	Length     *int      `json:"length,omitempty"`
	Referent   *typeJSON `json:"referent,omitempty"`
}

type fieldJSON struct {
	Name string    `json:"name"`
	Type *typeJSON `json:"type"`
}

type paramJSON struct {
	Name      string    `json:"name"`
	Type      *typeJSON `json:"type"`
	Nullable  bool      `json:"nullable,omitempty"`
	Direction string    `json:"direction,omitempty"`
}

type enumValueJSON struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

type docJSON struct {
	Summary string `json:"summary,omitempty"`
	Body    string `json:"body,omitempty"`
}

type sourceJSON struct {
	File   string `json:"file,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

type methodJSON struct {
	Name       string      `json:"name"`
	Kind       string      `json:"kind"`
	ReturnType *typeJSON   `json:"returnType"`
	Params     []paramJSON `json:"params,omitempty"`
	Static     bool        `json:"static,omitempty"`
	Const      bool        `json:"const,omitempty"`
	Access     string      `json:"access,omitempty"`
	Variadic   bool        `json:"variadic,omitempty"`
	Doc        *docJSON    `json:"doc,omitempty"`
}

type itemJSON struct {
	Kind          string          `json:"kind"`
	Name          string          `json:"name"`
	QualifiedName string          `json:"qualifiedName,omitempty"`
	Scoped        bool            `json:"scoped,omitempty"`
	Fields        []fieldJSON     `json:"fields,omitempty"`
	Methods       []methodJSON    `json:"methods,omitempty"`
	Bases         []string        `json:"bases,omitempty"`
	Values        []enumValueJSON `json:"values,omitempty"`
	Target        *typeJSON       `json:"target,omitempty"`
	ReturnType    *typeJSON       `json:"returnType,omitempty"`
	Params        []paramJSON     `json:"params,omitempty"`
	Variadic      bool            `json:"variadic,omitempty"`
	CallConv      string          `json:"callConv,omitempty"`
	Type          *typeJSON       `json:"type,omitempty"`
	Value         json.RawMessage `json:"value,omitempty"`
	ValueKind     string          `json:"valueKind,omitempty"`
	Doc           *docJSON        `json:"doc,omitempty"`
	Source        *sourceJSON     `json:"source,omitempty"`
}

func encodeType(t Type) *typeJSON {
	if t == nil {
		return nil
	}
	out := &typeJSON{Kind: t.Kind().String(), Qualifiers: t.Qualifiers().Names()}
	switch v := t.(type) {
	case *PrimitiveType:
		out.Name = v.Name
	case *NamedType:
		out.Name = v.Name
		out.Decl = string(v.Decl)
	case *UnknownType:
		out.Spelling = v.Spelling
	case *PointerType:
		out.Pointee = encodeType(v.Pointee)
	case *ArrayType:
		out.Element = encodeType(v.Element)
		if v.Sized {
			out.Length = &v.Length
		}
	case *ReferenceType:
		out.Referent = encodeType(v.Referent)
	}
	return out
}

func decodeType(j *typeJSON) (Type, error) {
	if j == nil {
		return nil, nil
	}
	var q Qualifiers
	for _, name := range j.Qualifiers {
		bit := ParseQualifier(name)
		if bit == 0 {
			return nil, errors.Errorf("unknown qualifier %q", name)
		}
		q |= bit
	}
	switch j.Kind {
	case "void":
		return &VoidType{Quals: q}, nil
	case "primitive":
		return &PrimitiveType{Name: j.Name, Quals: q}, nil
	case "named":
		return &NamedType{Name: j.Name, Decl: NamedDecl(j.Decl), Quals: q}, nil
	case "function_pointer":
		return &FunctionPointerType{Quals: q}, nil
	case "unknown":
		return &UnknownType{Spelling: j.Spelling, Quals: q}, nil
	case "pointer":
		inner, err := decodeType(j.Pointee)
		if err != nil {
			return nil, err
		}
		if inner == nil {
			return nil, errors.Errorf("pointer without pointee")
		}
		return &PointerType{Pointee: inner, Quals: q}, nil
	case "array":
		inner, err := decodeType(j.Element)
		if err != nil {
			return nil, err
		}
		if inner == nil {
			return nil, errors.Errorf("array without element")
		}
		arr := &ArrayType{Element: inner, Quals: q}
		if j.Length != nil {
			arr.Length, arr.Sized = *j.Length, true
		}
		return arr, nil
	case "reference":
		inner, err := decodeType(j.Referent)
		if err != nil {
			return nil, err
		}
		if inner == nil {
			return nil, errors.Errorf("reference without referent")
		}
		return &ReferenceType{Referent: inner, Quals: q}, nil
	}
	return nil, errors.Errorf("unknown type kind %q", j.Kind)
}

func encodeDoc(d Documentation) *docJSON {
	if d.IsZero() {
		return nil
	}
	return &docJSON{Summary: d.Summary, Body: d.Body}
}

func decodeDoc(d *docJSON) Documentation {
	if d == nil {
		return Documentation{}
	}
	return Documentation{Summary: d.Summary, Body: d.Body}
}

func encodeSource(s Source) *sourceJSON {
	if s.IsZero() {
		return nil
	}
	return &sourceJSON{File: s.File, Line: s.Line, Column: s.Column}
}

func decodeSource(s *sourceJSON) Source {
	if s == nil {
		return Source{}
	}
	return Source{File: s.File, Line: s.Line, Column: s.Column}
}

func encodeFields(fields []Field) []fieldJSON {
	if len(fields) == 0 {
		return nil
	}
	out := make([]fieldJSON, len(fields))
	for i, f := range fields {
		out[i] = fieldJSON{Name: f.Name, Type: encodeType(f.Type)}
	}
	return out
}

func encodeParams(params []Param) []paramJSON {
	if len(params) == 0 {
		return nil
	}
	out := make([]paramJSON, len(params))
	for i, p := range params {
		out[i] = paramJSON{Name: p.Name, Type: encodeType(p.Type), Nullable: p.Nullable, Direction: string(p.Direction)}
	}
	return out
}

func decodeFields(in []fieldJSON) ([]Field, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]Field, len(in))
	for i, f := range in {
		t, err := decodeType(f.Type)
		if err != nil {
			return nil, errors.Errorf("field %s: %w", f.Name, err)
		}
		out[i] = Field{Name: f.Name, Type: t}
	}
	return out, nil
}

func decodeParams(in []paramJSON) ([]Param, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]Param, len(in))
	for i, p := range in {
		t, err := decodeType(p.Type)
		if err != nil {
			return nil, errors.Errorf("param %s: %w", p.Name, err)
		}
		out[i] = Param{Name: p.Name, Type: t, Nullable: p.Nullable, Direction: Direction(p.Direction)}
	}
	return out, nil
}

func encodeItem(it Item) (*itemJSON, error) {
	out := &itemJSON{
		Kind:   it.Kind().String(),
		Name:   it.ItemName(),
		Doc:    encodeDoc(it.Doc()),
		Source: encodeSource(it.Src()),
	}
	switch v := it.(type) {
	case *Struct:
		out.QualifiedName = v.QualifiedName
		out.Fields = encodeFields(v.Fields)
	case *Enum:
		out.QualifiedName = v.QualifiedName
		out.Scoped = v.Scoped
		for _, ev := range v.Values {
			out.Values = append(out.Values, enumValueJSON(ev))
		}
	case *Alias:
		out.Target = encodeType(v.Target)
	case *Function:
		out.QualifiedName = v.QualifiedName
		out.ReturnType = encodeType(v.ReturnType)
		out.Params = encodeParams(v.Params)
		out.Variadic = v.Variadic
		out.CallConv = v.CallConv
	case *Class:
		out.QualifiedName = v.QualifiedName
		out.Fields = encodeFields(v.Fields)
		out.Bases = v.Bases
		if len(out.Bases) == 0 {
			out.Bases = nil
		}
		for _, m := range v.Methods {
			out.Methods = append(out.Methods, methodJSON{
				Name:       m.Name,
				Kind:       string(m.Kind),
				ReturnType: encodeType(m.ReturnType),
				Params:     encodeParams(m.Params),
				Static:     m.Static,
				Const:      m.Const,
				Access:     string(m.Access),
				Variadic:   m.Variadic,
				Doc:        encodeDoc(m.Documentation),
			})
		}
	case *Constant:
		out.Type = encodeType(v.Type)
		out.ValueKind = v.ValueKind()
		switch v.Value.(type) {
		case int64, uint64, float64, string:
		default:
			return nil, errors.Errorf("constant %s: unsupported value type %T", v.Name, v.Value)
		}
		raw, err := json.Marshal(v.Value)
		if err != nil {
			return nil, errors.Errorf("constant %s: %w", v.Name, err)
		}
		out.Value = raw
	}
	return out, nil
}

func decodeItem(j *itemJSON) (Item, error) {
	doc, src := decodeDoc(j.Doc), decodeSource(j.Source)
	switch j.Kind {
	case "struct":
		fields, err := decodeFields(j.Fields)
		if err != nil {
			return nil, err
		}
		return &Struct{Name: j.Name, QualifiedName: j.QualifiedName, Fields: fields, Documentation: doc, Source: src}, nil
	case "enum":
		e := &Enum{Name: j.Name, QualifiedName: j.QualifiedName, Scoped: j.Scoped, Documentation: doc, Source: src}
		for _, ev := range j.Values {
			e.Values = append(e.Values, EnumValue(ev))
		}
		return e, nil
	case "alias":
		target, err := decodeType(j.Target)
		if err != nil {
			return nil, err
		}
		return &Alias{Name: j.Name, Target: target, Documentation: doc, Source: src}, nil
	case "function":
		ret, err := decodeType(j.ReturnType)
		if err != nil {
			return nil, err
		}
		params, err := decodeParams(j.Params)
		if err != nil {
			return nil, err
		}
		return &Function{
			Name: j.Name, QualifiedName: j.QualifiedName, ReturnType: ret, Params: params,
			Variadic: j.Variadic, CallConv: j.CallConv, Documentation: doc, Source: src,
		}, nil
	case "class":
		fields, err := decodeFields(j.Fields)
		if err != nil {
			return nil, err
		}
		c := &Class{Name: j.Name, QualifiedName: j.QualifiedName, Fields: fields, Bases: j.Bases, Documentation: doc, Source: src}
		for _, m := range j.Methods {
			ret, err := decodeType(m.ReturnType)
			if err != nil {
				return nil, errors.Errorf("method %s: %w", m.Name, err)
			}
			params, err := decodeParams(m.Params)
			if err != nil {
				return nil, errors.Errorf("method %s: %w", m.Name, err)
			}
			c.Methods = append(c.Methods, Method{
				Name: m.Name, Kind: MethodKind(m.Kind), ReturnType: ret, Params: params,
				Static: m.Static, Const: m.Const, Access: Access(m.Access), Variadic: m.Variadic,
				Documentation: decodeDoc(m.Doc),
			})
		}
		return c, nil
	case "constant":
		t, err := decodeType(j.Type)
		if err != nil {
			return nil, err
		}
		value, err := decodeConstantValue(j.ValueKind, j.Value)
		if err != nil {
			return nil, errors.Errorf("constant %s: %w", j.Name, err)
		}
		return &Constant{Name: j.Name, Type: t, Value: value, Documentation: doc, Source: src}, nil
	}
	return nil, errors.Errorf("unknown item kind %q", j.Kind)
}

func decodeConstantValue(kind string, raw json.RawMessage) (any, error) {
	switch kind {
	case "int":
		var v int64
		err := json.Unmarshal(raw, &v)
		return v, err
	case "uint":
		var v uint64
		err := json.Unmarshal(raw, &v)
		return v, err
	case "float":
		var v float64
		err := json.Unmarshal(raw, &v)
		return v, err
	case "string":
		var v string
		err := json.Unmarshal(raw, &v)
		return v, err
	}
	return nil, errors.Errorf("unknown value kind %q", kind)
}

func marshalType(t Type) ([]byte, error) { return json.Marshal(encodeType(t)) }

// MarshalJSON implements json.Marshaler for VoidType.
func (t *VoidType) MarshalJSON() ([]byte, error) { return marshalType(t) }

// MarshalJSON implements json.Marshaler for PrimitiveType.
func (t *PrimitiveType) MarshalJSON() ([]byte, error) { return marshalType(t) }

// MarshalJSON implements json.Marshaler for PointerType.
func (t *PointerType) MarshalJSON() ([]byte, error) { return marshalType(t) }

// MarshalJSON implements json.Marshaler for ArrayType.
func (t *ArrayType) MarshalJSON() ([]byte, error) { return marshalType(t) }

// MarshalJSON implements json.Marshaler for ReferenceType.
func (t *ReferenceType) MarshalJSON() ([]byte, error) { return marshalType(t) }

// MarshalJSON implements json.Marshaler for NamedType.
func (t *NamedType) MarshalJSON() ([]byte, error) { return marshalType(t) }

// MarshalJSON implements json.Marshaler for FunctionPointerType.
func (t *FunctionPointerType) MarshalJSON() ([]byte, error) { return marshalType(t) }

// MarshalJSON implements json.Marshaler for UnknownType.
func (t *UnknownType) MarshalJSON() ([]byte, error) { return marshalType(t) }

func marshalItem(it Item) ([]byte, error) {
	j, err := encodeItem(it)
	if err != nil {
		return nil, err
	}
	return json.Marshal(j)
}

// MarshalJSON implements json.Marshaler for Struct.
func (s *Struct) MarshalJSON() ([]byte, error) { return marshalItem(s) }

// MarshalJSON implements json.Marshaler for Enum.
func (e *Enum) MarshalJSON() ([]byte, error) { return marshalItem(e) }

// MarshalJSON implements json.Marshaler for Alias.
func (a *Alias) MarshalJSON() ([]byte, error) { return marshalItem(a) }

// MarshalJSON implements json.Marshaler for Function.
func (f *Function) MarshalJSON() ([]byte, error) { return marshalItem(f) }

// MarshalJSON implements json.Marshaler for Class.
func (c *Class) MarshalJSON() ([]byte, error) { return marshalItem(c) }

// MarshalJSON implements json.Marshaler for Constant.
func (c *Constant) MarshalJSON() ([]byte, error) { return marshalItem(c) }

// MarshalJSON encodes the module as an object keyed by source path.
func (m *Module) MarshalJSON() ([]byte, error) {
	out := make(map[string][]*itemJSON, len(m.Files))
	for path, f := range m.Files {
		items := make([]*itemJSON, 0)
		if f != nil {
			for _, it := range f.Items {
				j, err := encodeItem(it)
				if err != nil {
					return nil, errors.Errorf("%s: %w", path, err)
				}
				items = append(items, j)
			}
		}
		out[path] = items
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a module produced by MarshalJSON.
func (m *Module) UnmarshalJSON(data []byte) error {
	var in map[string][]*itemJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	m.Files = make(map[string]*File, len(in))
	for path, items := range in {
		f := &File{}
		for i, j := range items {
			if j == nil {
				return errors.Errorf("%s: item %d is null", path, i)
			}
			it, err := decodeItem(j)
			if err != nil {
				return errors.Errorf("%s: %s: %w", path, j.Name, err)
			}
			f.Items = append(f.Items, it)
		}
		m.Files[path] = f
	}
	return nil
}

// UnmarshalModule decodes a serialized module.
func UnmarshalModule(data []byte) (*Module, error) {
	m := NewModule()
	if err := json.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return m, nil
}

// MarshalIndent encodes the module with two-space indentation and a
// trailing newline.
func MarshalIndent(m *Module) ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// WriteJSONFile writes the module document to path, creating parent
// directories as needed.
func WriteJSONFile(m *Module, path string) error {
	data, err := MarshalIndent(m)
	if err != nil {
		return errors.Errorf("encode module: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Errorf("failed to create directories: %w", err)
		}
	}
	return os.WriteFile(path, data, 0644)
}

// ReadJSONFile loads a module document written by WriteJSONFile.
func ReadJSONFile(path string) (*Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := UnmarshalModule(data)
	if err != nil {
		return nil, errors.Errorf("decode %s: %w", path, err)
	}
	return m, nil
}

// Equal reports whether two modules are structurally equal. Nil and empty
// slices compare equal.
func Equal(a, b *Module) bool {
	if a == nil || b == nil {
		return a == b
	}
	ea, err := json.Marshal(a)
	if err != nil {
		return false
	}
	eb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ea, eb)
}

// TypesEqual reports whether two type descriptors are structurally equal.
func TypesEqual(a, b Type) bool {
	ea, err := json.Marshal(encodeType(a))
	if err != nil {
		return false
	}
	eb, err := json.Marshal(encodeType(b))
	if err != nil {
		return false
	}
	return bytes.Equal(ea, eb)
}
