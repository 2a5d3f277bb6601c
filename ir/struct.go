package ir

// Struct is a plain record: a C struct or a C++ record without methods or bases.
type Struct struct {
	Name          string
	QualifiedName string
	Fields        []Field
	Documentation Documentation
	Source        Source
}

// Kind returns ItemStruct.
func (*Struct) Kind() ItemKind { return ItemStruct }

// ItemName returns the struct's name.
func (s *Struct) ItemName() string { return s.Name }

// Doc returns the struct's documentation.
func (s *Struct) Doc() Documentation { return s.Documentation }

// Src returns the struct's source location.
func (s *Struct) Src() Source { return s.Source }

func (*Struct) sealed() {}

// Class is a C++ record with at least one method, constructor, destructor
// or base specifier. Only public members are recorded.
type Class struct {
	Name          string
	QualifiedName string
	Fields        []Field
	Methods       []Method
	Bases         []string
	Documentation Documentation
	Source        Source
}

// Kind returns ItemClass.
func (*Class) Kind() ItemKind { return ItemClass }

// ItemName returns the class's name.
func (c *Class) ItemName() string { return c.Name }

// Doc returns the class's documentation.
func (c *Class) Doc() Documentation { return c.Documentation }

// Src returns the class's source location.
func (c *Class) Src() Source { return c.Source }

func (*Class) sealed() {}

// MethodKind distinguishes ordinary methods from special members.
type MethodKind string

const (
	MethodPlain       MethodKind = "method"
	MethodConstructor MethodKind = "constructor"
	MethodDestructor  MethodKind = "destructor"
)

// Access is a C++ access specifier.
type Access string

const (
	AccessNone      Access = ""
	AccessPublic    Access = "public"
	AccessProtected Access = "protected"
	AccessPrivate   Access = "private"
)

// Method is a member function of a Class.
type Method struct {
	// Name is the member name. Constructors carry the class name,
	// destructors "~" followed by the class name.
	Name          string
	Kind          MethodKind
	ReturnType    Type
	Params        []Param
	Static        bool
	Const         bool
	Access        Access
	Variadic      bool
	Documentation Documentation
}
