package ir

import (
	"slices"
	"strings"
)

// File holds the items declared in one source header, in emission order.
type File struct {
	Items []Item
}

// Structs returns the file's structs in item order.
func (f *File) Structs() []*Struct { return itemsOf[*Struct](f) }

// Enums returns the file's enums in item order.
func (f *File) Enums() []*Enum { return itemsOf[*Enum](f) }

// Aliases returns the file's aliases in item order.
func (f *File) Aliases() []*Alias { return itemsOf[*Alias](f) }

// Functions returns the file's functions in item order.
func (f *File) Functions() []*Function { return itemsOf[*Function](f) }

// Classes returns the file's classes in item order.
func (f *File) Classes() []*Class { return itemsOf[*Class](f) }

// Constants returns the file's constants in item order.
func (f *File) Constants() []*Constant { return itemsOf[*Constant](f) }

func itemsOf[T Item](f *File) []T {
	if f == nil {
		return nil
	}
	var out []T
	for _, it := range f.Items {
		if v, ok := it.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// Module maps a normalized source path to the items declared in it.
type Module struct {
	Files map[string]*File
}

// NewModule returns an empty module.
func NewModule() *Module {
	return &Module{Files: make(map[string]*File)}
}

// SortedPaths returns the file keys in lexicographic order.
func (m *Module) SortedPaths() []string {
	if m == nil {
		return nil
	}
	paths := make([]string, 0, len(m.Files))
	for p := range m.Files {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

// File returns the file stored under path, or nil.
func (m *Module) File(path string) *File {
	if m == nil {
		return nil
	}
	return m.Files[path]
}

// ItemCount returns the number of items across all files.
func (m *Module) ItemCount() int {
	if m == nil {
		return 0
	}
	n := 0
	for _, f := range m.Files {
		n += len(f.Items)
	}
	return n
}

// ValidationError describes a structural problem in a module.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Code + ": " + e.Message
}

// Validate checks the module for structural issues.
// Returns all validation errors found (not just the first).
func (m *Module) Validate() []error {
	var errs []error
	add := func(code, msg string) {
		errs = append(errs, &ValidationError{Code: code, Message: msg})
	}
	for _, path := range m.SortedPaths() {
		f := m.Files[path]
		if f == nil {
			add("nil_file", "file "+path+" has no item list")
			continue
		}
		for _, it := range f.Items {
			if it == nil {
				add("nil_item", "file "+path+" contains a nil item")
				continue
			}
			if strings.TrimSpace(it.ItemName()) == "" {
				add("empty_name", "file "+path+" contains an unnamed "+it.Kind().String())
				continue
			}
			errs = append(errs, validateItem(path, it)...)
		}
	}
	return errs
}

func validateItem(path string, it Item) []error {
	var errs []error
	where := path + ": " + it.Kind().String() + " " + it.ItemName()
	missing := func(what string) {
		errs = append(errs, &ValidationError{Code: "missing_type", Message: where + ": " + what + " has no type"})
	}
	switch v := it.(type) {
	case *Enum:
		seen := make(map[string]bool, len(v.Values))
		for _, ev := range v.Values {
			if seen[ev.Name] {
				errs = append(errs, &ValidationError{Code: "duplicate_enumerator", Message: where + ": duplicate enumerator " + ev.Name})
			}
			seen[ev.Name] = true
		}
	case *Struct:
		for _, fd := range v.Fields {
			if fd.Type == nil {
				missing("field " + fd.Name)
			}
		}
	case *Class:
		for _, fd := range v.Fields {
			if fd.Type == nil {
				missing("field " + fd.Name)
			}
		}
		for _, md := range v.Methods {
			if md.ReturnType == nil {
				missing("method " + md.Name + " return")
			}
			for _, p := range md.Params {
				if p.Type == nil {
					missing("method " + md.Name + " param " + p.Name)
				}
			}
		}
	case *Function:
		if v.ReturnType == nil {
			missing("return")
		}
		for _, p := range v.Params {
			if p.Type == nil {
				missing("param " + p.Name)
			}
		}
	case *Alias:
		if v.Target == nil {
			missing("target")
		}
	case *Constant:
		switch v.Value.(type) {
		case int64, uint64, float64, string:
		default:
			errs = append(errs, &ValidationError{Code: "invalid_constant", Message: where + ": unsupported value kind " + v.ValueKind()})
		}
	}
	return errs
}
