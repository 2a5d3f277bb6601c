package ir

// Function is a free function declaration.
type Function struct {
	Name          string
	QualifiedName string
	ReturnType    Type
	Params        []Param
	Variadic      bool

	// CallConv is the calling convention spelling, empty for the default.
	CallConv string

	Documentation Documentation
	Source        Source
}

// Kind returns ItemFunction.
func (*Function) Kind() ItemKind { return ItemFunction }

// ItemName returns the function name.
func (f *Function) ItemName() string { return f.Name }

// Doc returns the function documentation.
func (f *Function) Doc() Documentation { return f.Documentation }

// Src returns the function source location.
func (f *Function) Src() Source { return f.Source }

func (*Function) sealed() {}
