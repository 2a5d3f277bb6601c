package cheader

import (
	"strconv"
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
	"github.com/cockroachdb/errors"
)

// parseIntLiteral parses a C integer literal, including hex, octal and
// binary forms, digit separators and u/l suffixes.
func parseIntLiteral(lit string) (int64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(lit), "'", "")
	s = strings.TrimRight(s, "uUlLzZ")
	if s == "" {
		return 0, errors.Errorf("empty integer literal %q", lit)
	}
	if len(s) > 1 && s[0] == '0' && s[1] >= '0' && s[1] <= '9' {
		s = "0o" + s[1:]
	}
	if v, err := strconv.ParseInt(s, 0, 64); err == nil {
		return v, nil
	}
	u, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, errors.Errorf("invalid integer literal %q", lit)
	}
	return int64(u), nil
}

// evaluator computes enumerator values from constant expressions.
type evaluator struct {
	src   []byte
	known map[string]int64
}

func (e *evaluator) eval(n sitter.Node) (int64, error) {
	switch n.Type() {
	case "number_literal":
		return parseIntLiteral(n.Content(e.src))
	case "char_literal":
		return parseCharLiteral(n.Content(e.src))
	case "identifier", "qualified_identifier":
		name := n.Content(e.src)
		if v, ok := e.known[name]; ok {
			return v, nil
		}
		if i := strings.LastIndex(name, "::"); i >= 0 {
			if v, ok := e.known[name[i+2:]]; ok {
				return v, nil
			}
		}
		return 0, errors.Errorf("unknown identifier %q", name)
	case "true":
		return 1, nil
	case "false":
		return 0, nil
	case "parenthesized_expression":
		if n.NamedChildCount() != 1 {
			return 0, errors.Errorf("unsupported expression %q", n.Content(e.src))
		}
		return e.eval(n.NamedChild(0))
	case "cast_expression":
		value := n.ChildByFieldName("value")
		if value.IsNull() {
			return 0, errors.Errorf("unsupported expression %q", n.Content(e.src))
		}
		return e.eval(value)
	case "unary_expression":
		arg, err := e.eval(n.ChildByFieldName("argument"))
		if err != nil {
			return 0, err
		}
		switch op := n.ChildByFieldName("operator").Type(); op {
		case "-":
			return -arg, nil
		case "+":
			return arg, nil
		case "~":
			return ^arg, nil
		case "!":
			if arg == 0 {
				return 1, nil
			}
			return 0, nil
		default:
			return 0, errors.Errorf("unsupported unary operator %q", op)
		}
	case "binary_expression":
		left, err := e.eval(n.ChildByFieldName("left"))
		if err != nil {
			return 0, err
		}
		right, err := e.eval(n.ChildByFieldName("right"))
		if err != nil {
			return 0, err
		}
		return binaryOp(n.ChildByFieldName("operator").Type(), left, right)
	}
	return 0, errors.Errorf("unsupported expression %q", n.Content(e.src))
}

func binaryOp(op string, l, r int64) (int64, error) {
	switch op {
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/", "%":
		if r == 0 {
			return 0, errors.Errorf("division by zero")
		}
		if op == "/" {
			return l / r, nil
		}
		return l % r, nil
	case "|":
		return l | r, nil
	case "&":
		return l & r, nil
	case "^":
		return l ^ r, nil
	case "<<":
		if r < 0 || r > 63 {
			return 0, errors.Errorf("shift count %d out of range", r)
		}
		return l << uint(r), nil
	case ">>":
		if r < 0 || r > 63 {
			return 0, errors.Errorf("shift count %d out of range", r)
		}
		return l >> uint(r), nil
	}
	return 0, errors.Errorf("unsupported binary operator %q", op)
}

func parseCharLiteral(lit string) (int64, error) {
	s := strings.TrimSpace(lit)
	if i := strings.IndexByte(s, '\''); i > 0 {
		s = s[i:] // drop L, u, U prefixes
	}
	v, _, tail, err := strconv.UnquoteChar(strings.Trim(s, "'"), '\'')
	if err != nil || tail != "" {
		return 0, errors.Errorf("invalid character literal %q", lit)
	}
	return int64(v), nil
}

// macroTokens splits a macro replacement list into tokens. String and
// character literals stay whole and comments are dropped.
func macroTokens(value string) []string {
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch {
		case c == '"' || c == '\'':
			flush()
			j := i + 1
			for j < len(value) && value[j] != c {
				if value[j] == '\\' {
					j++
				}
				j++
			}
			if j >= len(value) {
				j = len(value) - 1
			}
			tokens = append(tokens, value[i:j+1])
			i = j
		case strings.HasPrefix(value[i:], "//"):
			flush()
			return tokens
		case strings.HasPrefix(value[i:], "/*"):
			flush()
			end := strings.Index(value[i+2:], "*/")
			if end < 0 {
				return tokens
			}
			i += end + 3
		case c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\\':
			flush()
		case strings.ContainsRune("()[]{},;+-*/%<>=!&|^~?:", rune(c)):
			flush()
			tokens = append(tokens, string(c))
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return tokens
}
