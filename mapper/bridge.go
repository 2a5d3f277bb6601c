package mapper

import (
	"cmp"
	"slices"
	"strings"

	"github.com/libnativeapi/bindgen/ir"
	"github.com/libnativeapi/bindgen/naming"
)

// Return bridge classifications with fixed meaning.
const (
	ReturnVoid  = "void"
	ReturnPlain = "plain"
)

// Bridge is the call metadata of a function or method.
type Bridge struct {
	// Symbol is the native callable symbol.
	Symbol string

	// ReturnBridge classifies the return value: "void", "plain" or a
	// return_bridges entry.
	ReturnBridge string

	// FreeSymbol releases an owned return value. It is empty unless
	// ReturnBridge is listed in owning_return_bridges.
	FreeSymbol string
}

// FunctionSymbol resolves the call symbol of a free function: an override
// for its qualified name, else the symbol prefix plus the snake-cased name.
func (m *Mapper) FunctionSymbol(f *ir.Function) string {
	key := cmp.Or(f.QualifiedName, f.Name)
	if s, ok := m.cfg.Options.SymbolOverrides[key]; ok {
		return s
	}
	return m.cfg.Options.SymbolPrefix + naming.ToSnakeCase(f.Name)
}

// MethodSymbol resolves the call symbol of a method: an override for
// "<qualified-class>::<method>", else the symbol prefix plus the snake-cased
// class and method names joined by "_".
func (m *Mapper) MethodSymbol(c *ir.Class, method string) string {
	key := cmp.Or(c.QualifiedName, c.Name) + "::" + method
	if s, ok := m.cfg.Options.SymbolOverrides[key]; ok {
		return s
	}
	return m.cfg.Options.SymbolPrefix + naming.ToSnakeCase(c.Name) + "_" + naming.ToSnakeCase(method)
}

// BridgeType applies bridge_type_aliases to a mapped type.
func (m *Mapper) BridgeType(t *MappedType) string {
	name := t.String()
	if alias, ok := m.cfg.Options.BridgeTypeAliases[name]; ok {
		return alias
	}
	return name
}

// ParamArgs returns the call-site arguments of p for a call to symbol. The
// first param_bridges rule whose type and symbol suffix both match supplies
// the argument templates, with {name} replaced by the parameter name.
func (m *Mapper) ParamArgs(p *Param, symbol string) []string {
	typ := m.BridgeType(p.Type)
	for _, rule := range m.cfg.Options.ParamBridges {
		if rule.Type != "" && rule.Type != typ {
			continue
		}
		if rule.SymbolSuffix != "" && !strings.HasSuffix(symbol, rule.SymbolSuffix) {
			continue
		}
		args := make([]string, 0, len(rule.Args))
		for _, a := range rule.Args {
			args = append(args, strings.ReplaceAll(a, "{name}", p.Name))
		}
		return args
	}
	return []string{p.Name}
}

// ReturnBridge classifies a mapped return type.
func (m *Mapper) ReturnBridge(ret *MappedType) string {
	if ret == nil || ret.IsVoid {
		return ReturnVoid
	}
	if b, ok := m.cfg.Options.ReturnBridges[m.BridgeType(ret)]; ok {
		return b
	}
	return ReturnPlain
}

// FreeSymbol returns the release function for values returned by symbol
// under the given classification.
func (m *Mapper) FreeSymbol(symbol, returnBridge string) string {
	o := m.cfg.Options
	if !slices.Contains(o.OwningReturnBridges, returnBridge) {
		return ""
	}
	for _, sf := range o.StringFree {
		if strings.Contains(symbol, sf.Key) {
			return sf.Symbol
		}
	}
	return o.StringFreeDefault
}

func (m *Mapper) bridge(symbol string, ret *MappedType) Bridge {
	rb := m.ReturnBridge(ret)
	return Bridge{
		Symbol:       symbol,
		ReturnBridge: rb,
		FreeSymbol:   m.FreeSymbol(symbol, rb),
	}
}

// singleton reports whether the class with the given mapped name is a
// singleton and resolves its instance accessor symbol.
func (m *Mapper) singleton(c *ir.Class, mappedName string) (bool, string) {
	o := m.cfg.Options
	if !slices.Contains(o.SingletonClasses, mappedName) {
		return false, ""
	}
	if len(o.SingletonAccessors) == 0 {
		return true, ""
	}
	return true, m.MethodSymbol(c, o.SingletonAccessors[0])
}
