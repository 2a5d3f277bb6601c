package ir

// ItemKind identifies the category of a top-level declaration.
type ItemKind int

const (
	ItemStruct ItemKind = iota
	ItemEnum
	ItemAlias
	ItemFunction
	ItemClass
	ItemConstant
)

// String returns the serialized tag of the kind.
func (k ItemKind) String() string {
	switch k {
	case ItemStruct:
		return "struct"
	case ItemEnum:
		return "enum"
	case ItemAlias:
		return "alias"
	case ItemFunction:
		return "function"
	case ItemClass:
		return "class"
	case ItemConstant:
		return "constant"
	default:
		return "unknown"
	}
}

// Item is a top-level declaration within a File.
type Item interface {
	// Kind returns the item kind for type switching.
	Kind() ItemKind

	// ItemName returns the unqualified declared name.
	ItemName() string

	// Doc returns the attached documentation comment.
	Doc() Documentation

	// Src returns the declaration's source location.
	Src() Source

	// Ensure only types in this package can implement Item.
	sealed()
}

// Documentation holds the comment attached to a declaration.
type Documentation struct {
	// Summary is the first paragraph of the comment.
	Summary string

	// Body is the complete comment text with comment markers removed.
	Body string
}

// IsZero returns true if the documentation is empty.
func (d Documentation) IsZero() bool {
	return d.Summary == "" && d.Body == ""
}

// Source represents a position in a header file.
type Source struct {
	// File is the header path as reported by the provider.
	File string

	// Line is the 1-based line number (0 if unknown).
	Line int

	// Column is the 1-based column number (0 if unknown).
	Column int
}

// IsZero returns true if the source location is empty.
func (s Source) IsZero() bool {
	return s.File == "" && s.Line == 0 && s.Column == 0
}

// Field is a data member of a struct or class.
type Field struct {
	Name string
	Type Type
}

// Direction describes how a parameter carries data across the call.
type Direction string

const (
	DirectionUnspecified Direction = ""
	DirectionIn          Direction = "in"
	DirectionOut         Direction = "out"
	DirectionInOut       Direction = "inout"
)

// Param is a function or method parameter.
type Param struct {
	Name string
	Type Type

	// Nullable marks pointer parameters that accept NULL.
	Nullable bool

	Direction Direction
}

// EnumValue is a single enumerator. Names are unique within an enum,
// values may repeat.
type EnumValue struct {
	Name  string
	Value int64
}
