package normalize

import (
	"strings"

	"github.com/libnativeapi/bindgen/ir"
)

// documentation strips comment markers from a raw comment. The summary is
// the first paragraph joined onto one line.
func documentation(raw string) ir.Documentation {
	if strings.TrimSpace(raw) == "" {
		return ir.Documentation{}
	}
	var lines []string
	for line := range strings.SplitSeq(raw, "\n") {
		lines = append(lines, stripMarkers(line))
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return ir.Documentation{}
	}

	var summary []string
	for _, line := range lines {
		if line == "" {
			break
		}
		summary = append(summary, line)
	}
	s := strings.Join(summary, " ")
	for _, tag := range []string{"@brief ", `\brief `} {
		s = strings.TrimPrefix(s, tag)
	}
	return ir.Documentation{
		Summary: s,
		Body:    strings.Join(lines, "\n"),
	}
}

func stripMarkers(line string) string {
	line = strings.TrimSpace(line)
	for _, open := range []string{"/**<", "///<", "/**", "/*!", "/*", "///", "//!", "//"} {
		if strings.HasPrefix(line, open) {
			line = line[len(open):]
			break
		}
	}
	line = strings.TrimSuffix(line, "*/")
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "*") {
		line = strings.TrimSpace(strings.TrimLeft(line, "*"))
	}
	return line
}
