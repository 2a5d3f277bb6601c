package normalize

import (
	"strconv"
	"strings"

	"github.com/libnativeapi/bindgen/ir"
)

// macroConstant converts an object-like macro with exactly one value token.
// Decimal and hex integers become int constants, or unsigned long long
// constants above the int64 range. Plain decimal floats become double
// constants and string literals become const char* constants. Anything else,
// including negative numbers and suffixed literals, is not a constant.
func macroConstant(tokens []string) (ir.Type, any, bool) {
	if len(tokens) != 2 {
		return nil, nil, false
	}
	value := tokens[1]
	switch {
	case isDigits(value):
		return integerConstant(value, 10)

	case strings.HasPrefix(value, "0x") || strings.HasPrefix(value, "0X"):
		return integerConstant(value[2:], 16)

	case strings.Count(value, ".") == 1 && isDigits(strings.Replace(value, ".", "", 1)):
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, nil, false
		}
		return ir.Primitive("double"), v, true

	case len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`):
		return ir.PointerTo(ir.WithQualifiers(ir.Primitive("char"), ir.Const)), strings.Trim(value, `"`), true
	}
	return nil, nil, false
}

func integerConstant(digits string, base int) (ir.Type, any, bool) {
	if v, err := strconv.ParseInt(digits, base, 64); err == nil {
		return ir.Primitive("int"), v, true
	}
	v, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return nil, nil, false
	}
	return ir.Primitive("unsigned long long"), v, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
