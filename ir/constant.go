package ir

import "fmt"

// Constant is a named compile-time value recovered from an object-like macro.
type Constant struct {
	Name string
	Type Type

	// Value holds an int64, float64 or string, or a uint64 for integers
	// above the int64 range.
	Value any

	Documentation Documentation
	Source        Source
}

// Kind returns ItemConstant.
func (*Constant) Kind() ItemKind { return ItemConstant }

// ItemName returns the constant name.
func (c *Constant) ItemName() string { return c.Name }

// Doc returns the constant documentation.
func (c *Constant) Doc() Documentation { return c.Documentation }

// Src returns the constant source location.
func (c *Constant) Src() Source { return c.Source }

func (*Constant) sealed() {}

// ValueKind returns "int", "uint", "float" or "string" for the held value.
func (c *Constant) ValueKind() string {
	switch c.Value.(type) {
	case int64:
		return "int"
	case uint64:
		return "uint"
	case float64:
		return "float"
	case string:
		return "string"
	default:
		return fmt.Sprintf("%T", c.Value)
	}
}
