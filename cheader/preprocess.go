package cheader

import (
	"regexp"
	"strings"
)

var (
	defineLine      = regexp.MustCompile(`^[ \t]*#[ \t]*define[ \t]+([A-Za-z_]\w*)(?:[ \t]+(.*))?$`)
	cplusplusGuard  = regexp.MustCompile(`^[ \t]*#[ \t]*(?:ifdef[ \t]+__cplusplus|if[ \t]+defined[ \t]*\(?[ \t]*__cplusplus[ \t]*\)?)[ \t]*$`)
	endifLine       = regexp.MustCompile(`^[ \t]*#[ \t]*endif\b`)
	externCOpen     = regexp.MustCompile(`^[ \t]*extern[ \t]+"C"[ \t]*\{[ \t]*$`)
	closingBrace    = regexp.MustCompile(`^[ \t]*\}[ \t]*;?[ \t]*$`)
	decorationValue = regexp.MustCompile(`^(?:__declspec|__attribute__|__visibility__)\b`)
)

// decorationMacros returns the names of object-like macros that expand to
// nothing or to a declaration attribute, such as export markers.
func decorationMacros(src string) []string {
	var names []string
	for _, line := range strings.Split(src, "\n") {
		m := defineLine.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil {
			continue
		}
		value := strings.TrimSpace(m[2])
		if value == "" || decorationValue.MatchString(value) {
			names = append(names, m[1])
		}
	}
	return names
}

// preprocess prepares header text for the grammar. It blanks
// extern "C" wrappers guarded by __cplusplus and every use of a decoration
// macro. Blanked text is replaced by spaces so byte offsets, lines and
// columns still match the original file.
func preprocess(src []byte, blank []string) []byte {
	lines := strings.Split(string(src), "\n")
	blankCplusplusGuards(lines)

	if len(blank) > 0 {
		var quoted []string
		for _, name := range blank {
			quoted = append(quoted, regexp.QuoteMeta(name))
		}
		use := regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
		for i, line := range lines {
			if strings.HasPrefix(strings.TrimSpace(line), "#") {
				continue
			}
			lines[i] = use.ReplaceAllStringFunc(line, spaces)
		}
	}
	return []byte(strings.Join(lines, "\n"))
}

func blankCplusplusGuards(lines []string) {
	for i := 0; i < len(lines); i++ {
		if !cplusplusGuard.MatchString(lines[i]) {
			continue
		}
		end := -1
		onlyWrapper := true
		for j := i + 1; j < len(lines); j++ {
			l := lines[j]
			if endifLine.MatchString(l) {
				end = j
				break
			}
			if strings.TrimSpace(l) == "" || externCOpen.MatchString(l) || closingBrace.MatchString(l) {
				continue
			}
			onlyWrapper = false
			break
		}
		if end < 0 || !onlyWrapper {
			continue
		}
		for j := i; j <= end; j++ {
			lines[j] = spaces(lines[j])
		}
		i = end
	}
}

func spaces(s string) string {
	return strings.Repeat(" ", len(s))
}

// splitFlags extracts include directories and macros to blank from
// compiler-style flags. "-DNAME" and "-DNAME=" both blank NAME; macros with
// a value are left to the header.
func splitFlags(flags []string) (includes, blank []string) {
	for i := 0; i < len(flags); i++ {
		f := flags[i]
		switch {
		case f == "-I" && i+1 < len(flags):
			includes = append(includes, flags[i+1])
			i++
		case strings.HasPrefix(f, "-I"):
			includes = append(includes, f[2:])
		case f == "-D" && i+1 < len(flags):
			if name, ok := emptyDefine(flags[i+1]); ok {
				blank = append(blank, name)
			}
			i++
		case strings.HasPrefix(f, "-D"):
			if name, ok := emptyDefine(f[2:]); ok {
				blank = append(blank, name)
			}
		}
	}
	return includes, blank
}

func emptyDefine(def string) (string, bool) {
	name, value, _ := strings.Cut(def, "=")
	if name == "" || value != "" {
		return "", false
	}
	return name, true
}
