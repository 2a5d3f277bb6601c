package ir

// Enum is an enumeration. Scoped is set for C++ "enum class".
type Enum struct {
	Name          string
	QualifiedName string
	Scoped        bool
	Values        []EnumValue
	Documentation Documentation
	Source        Source
}

// Kind returns ItemEnum.
func (*Enum) Kind() ItemKind { return ItemEnum }

// ItemName returns the enum's name.
func (e *Enum) ItemName() string { return e.Name }

// Doc returns the enum's documentation.
func (e *Enum) Doc() Documentation { return e.Documentation }

// Src returns the enum's source location.
func (e *Enum) Src() Source { return e.Source }

func (*Enum) sealed() {}

// Lookup returns the value of the named enumerator.
func (e *Enum) Lookup(name string) (int64, bool) {
	for _, v := range e.Values {
		if v.Name == name {
			return v.Value, true
		}
	}
	return 0, false
}
