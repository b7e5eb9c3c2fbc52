// extract.go implements the per-language span heuristics. They are pure
// functions over the file's lines; no parsing beyond what is needed to find
// where one definition starts and stops.
package reference

import (
	"fmt"
	"regexp"
	"strings"
)

// extractIndented handles indentation-delimited languages. The span starts
// at the definition line and runs until the first non-blank line whose
// indentation is at or below the definition's, exclusive.
func extractIndented(lines []string, symbol string) ([]string, bool) {
	q := regexp.QuoteMeta(symbol)
	defRe := regexp.MustCompile(`^(\s*)(?:async\s+)?(?:def|class)\s+` + q + `\b`)

	start := -1
	defIndent := 0
	for i, line := range lines {
		if m := defRe.FindStringSubmatch(line); m != nil {
			start = i
			defIndent = len(m[1])
			break
		}
	}
	if start < 0 {
		return nil, false
	}

	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		if indentOf(lines[i]) <= defIndent {
			end = i
			break
		}
	}
	return lines[start:end], true
}

// extractBraced handles brace-delimited languages. The definition line is
// located by a small set of declaration shapes; the span ends on the line
// where brace depth returns to zero.
func extractBraced(lines []string, symbol string) ([]string, bool) {
	q := regexp.QuoteMeta(symbol)
	shapes := []*regexp.Regexp{
		// named / exported function declarations
		regexp.MustCompile(`^\s*(?:export\s+)?(?:default\s+)?(?:async\s+)?function\s*\*?\s*` + q + `\s*\(`),
		// assigned arrow or function expressions
		regexp.MustCompile(`^\s*(?:export\s+)?(?:const|let|var)\s+` + q + `\s*=`),
		regexp.MustCompile(fmt.Sprintf(`^\s*%s\s*[:=]\s*(?:async\s*)?(?:function\b|\()`, q)),
		// go functions and methods
		regexp.MustCompile(`^\s*func\s+(?:\([^)]*\)\s*)?` + q + `\s*\(`),
		// java/c style: a return type followed by the name
		regexp.MustCompile(`^\s*(?:[\w<>\[\]*]+\s+)+\*?` + q + `\s*\(`),
	}

	start := -1
	for i, line := range lines {
		if isControlLine(line) {
			continue
		}
		for _, re := range shapes {
			if re.MatchString(line) {
				start = i
				break
			}
		}
		if start >= 0 {
			break
		}
	}
	if start < 0 {
		return nil, false
	}

	depth := 0
	opened := false
	for i := start; i < len(lines); i++ {
		depth += strings.Count(lines[i], "{") - strings.Count(lines[i], "}")
		if strings.Contains(lines[i], "{") {
			opened = true
		}
		if opened && depth <= 0 {
			return lines[start : i+1], true
		}
	}
	return nil, false
}

// extractStatement handles statement-terminated dialects such as SQL
// function definitions: from CREATE FUNCTION|PROCEDURE <name> to the first
// line ending in a terminator.
func extractStatement(lines []string, symbol string) ([]string, bool) {
	q := regexp.QuoteMeta(symbol)
	defRe := regexp.MustCompile(`(?i)CREATE\s+(?:OR\s+REPLACE\s+)?(?:FUNCTION|PROCEDURE)\s+` + q + `\b`)

	start := -1
	for i, line := range lines {
		if defRe.MatchString(line) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, false
	}

	for i := start; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if strings.HasSuffix(trimmed, ";") || strings.HasSuffix(trimmed, "$$") {
			return lines[start : i+1], true
		}
	}
	return lines[start:], true
}

// isControlLine filters out statements that would otherwise satisfy the
// loose "return type followed by name" declaration shape, such as
// `return calculate(x);` at a call site.
func isControlLine(line string) bool {
	word := strings.TrimSpace(line)
	if i := strings.IndexAny(word, " \t("); i > 0 {
		word = word[:i]
	}
	switch word {
	case "return", "if", "else", "while", "for", "switch", "case", "new", "throw", "await", "yield":
		return true
	}
	return false
}

func indentOf(line string) int {
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	return n
}
