package nelgen

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	numberLiteral = regexp.MustCompile(`^\s*-?\d+(\.\d+)?\s*$`)
	identifier    = regexp.MustCompile(`^\w+$`)
)

// IsNumber reports whether code is a plain numeric literal such as 3, -2 or 1.5.
func IsNumber(code string) bool {
	return numberLiteral.MatchString(code)
}

// IsIdentifier reports whether code is a bare word that can be evaluated
// any number of times without side effects.
func IsIdentifier(code string) bool {
	return identifier.MatchString(code)
}

// IsSimple reports whether code is an identifier or a numeric literal.
func IsSimple(code string) bool {
	return IsIdentifier(code) || IsNumber(code)
}

// FormatNumber renders f the shortest way that reads back as f.
func FormatNumber(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "math.huge"
	case math.IsInf(f, -1):
		return "-math.huge"
	case math.IsNaN(f):
		return "(0/0)"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ParseNumber parses a numeric field or literal. Blank text is zero.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// PrefixLines prepends prefix to every line of text. A trailing newline
// does not start a new line.
func PrefixLines(text, prefix string) string {
	body, trailing := strings.CutSuffix(text, "\n")
	out := prefix + strings.ReplaceAll(body, "\n", "\n"+prefix)
	if trailing {
		out += "\n"
	}
	return out
}

// Wrap breaks every line of text at word boundaries so that no line is
// longer than limit, unless a single word already is.
func Wrap(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = wrapLine(line, limit)
	}
	return strings.Join(lines, "\n")
}

func wrapLine(line string, limit int) string {
	if len(line) <= limit {
		return line
	}
	words := strings.Fields(line)
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	width := 0
	for i, w := range words {
		switch {
		case i == 0:
		case width+1+len(w) > limit:
			b.WriteByte('\n')
			width = 0
		default:
			b.WriteByte(' ')
			width++
		}
		b.WriteString(w)
		width += len(w)
	}
	return b.String()
}
