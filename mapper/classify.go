package mapper

import (
	"slices"
	"strings"

	"github.com/libnativeapi/bindgen/ir"
	"github.com/libnativeapi/bindgen/naming"
)

// Role is how a method is exposed by generated bindings.
type Role string

const (
	RoleSkip         Role = "skip"
	RoleGetter       Role = "getter"
	RoleBoolProperty Role = "bool_property"
	RoleMethod       Role = "method"
)

// Classification is the result of Classify.
type Classification struct {
	Role Role

	// Property is the exposed property name of getters and boolean
	// properties.
	Property string
}

// Classify decides how a mapped method of the class named class (its IR
// name) is exposed. Rules apply in order:
//
//  1. skip: constructors (name equals the class name), destructors (name
//     starts with "~") and singleton accessors;
//  2. getter: getter prefix, no parameters, non-void return. The property
//     is the remainder with its first letter lower-cased, so GetWidth
//     exposes width;
//  3. boolean property: a predicate prefix, no parameters and a boolean
//     return (mapped type in bool_types, or the primitive bool). The
//     property is the full name with its first letter lower-cased;
//  4. plain method.
func (m *Mapper) Classify(class string, method *Method) Classification {
	o := m.cfg.Options
	name := method.Name
	if method.Raw != nil {
		name = method.Raw.Name
	}

	if name == class || strings.HasPrefix(name, "~") || o.singletonAccessor(name) {
		return Classification{Role: RoleSkip}
	}
	if len(method.Params) == 0 {
		if rest, ok := strings.CutPrefix(name, o.GetterPrefix); ok && rest != "" && method.ReturnType != nil && !method.ReturnType.IsVoid {
			return Classification{Role: RoleGetter, Property: naming.FirstLower(rest)}
		}
		for _, prefix := range o.PredicatePrefixes {
			if strings.HasPrefix(name, prefix) && len(name) > len(prefix) && m.isBool(method.ReturnType) {
				return Classification{Role: RoleBoolProperty, Property: naming.FirstLower(name)}
			}
		}
	}
	return Classification{Role: RoleMethod}
}

func (m *Mapper) isBool(t *MappedType) bool {
	if t == nil {
		return false
	}
	if slices.Contains(m.cfg.Options.BoolTypes, t.Mapped) {
		return true
	}
	p, ok := t.Raw.(*ir.PrimitiveType)
	return ok && p.Name == "bool"
}
