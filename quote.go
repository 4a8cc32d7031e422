package nelgen

import "strings"

var quoteReplacer = strings.NewReplacer(
	`\`, `\\`,
	"\n", "\\\n",
	`'`, `\'`,
)

// Quote encodes s as a single-quoted Nelua string literal.
// Newlines are escaped so the literal stays a single token.
func Quote(s string) string {
	return "'" + quoteReplacer.Replace(s) + "'"
}

// MultilineQuote encodes s as a chain of single-line literals joined by
// .. '\n' .. so each source line of s becomes its own literal.
func MultilineQuote(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = Quote(line)
	}
	return strings.Join(lines, " .. '\\n' ..\n")
}

// MultilineOrder is the binding strength of a literal produced by MultilineQuote.
func MultilineOrder(code string) Order {
	if strings.Contains(code, "..") {
		return OrderConcatenation
	}
	return OrderAtomic
}
