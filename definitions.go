package nelgen

import "strings"

// FunctionNamePlaceholder is replaced by the allocated helper name inside
// the body passed to ProvideFunction.
const FunctionNamePlaceholder = "{@fn}"

// Definitions caches helper function and procedure bodies for one pass.
// Each key is stored once; bodies are flushed in first-registration order.
type Definitions struct {
	order     []string
	code      map[string]string
	funcNames map[string]string
}

// NewDefinitions returns an empty cache.
func NewDefinitions() *Definitions {
	d := &Definitions{}
	d.Reset()
	return d
}

// Reset forgets every definition.
func (d *Definitions) Reset() {
	d.order = nil
	d.code = make(map[string]string)
	d.funcNames = make(map[string]string)
}

// Provide returns the helper name for key. The first call allocates a name in
// the procedure namespace, substitutes it into lines, re-indents two-space
// steps to indent and stores the body. The second result reports whether the
// body was stored by this call.
func (d *Definitions) Provide(names *NameDB, key string, lines []string, indent string) (string, bool) {
	if name, ok := d.funcNames[key]; ok {
		return name, false
	}
	name := names.GetDistinctName(key, NamespaceProcedure)
	d.funcNames[key] = name

	body := make([]string, len(lines))
	for i, line := range lines {
		line = strings.ReplaceAll(line, FunctionNamePlaceholder, name)
		body[i] = reindent(line, indent)
	}
	d.Add(key, strings.Join(body, "\n"))
	return name, true
}

// Add stores code under key unless key is already present.
func (d *Definitions) Add(key, code string) {
	if _, ok := d.code[key]; ok {
		return
	}
	d.order = append(d.order, key)
	d.code[key] = code
}

// Has reports whether key has been stored.
func (d *Definitions) Has(key string) bool {
	_, ok := d.code[key]
	return ok
}

// Len returns the number of stored definitions.
func (d *Definitions) Len() int {
	return len(d.order)
}

// Flush returns all bodies in first-registration order.
func (d *Definitions) Flush() []string {
	out := make([]string, 0, len(d.order))
	for _, key := range d.order {
		out = append(out, d.code[key])
	}
	return out
}

// reindent swaps each leading two-space step for indent.
func reindent(line, indent string) string {
	if indent == "  " {
		return line
	}
	steps := 0
	for strings.HasPrefix(line[steps*2:], "  ") {
		steps++
	}
	if steps == 0 {
		return line
	}
	return strings.Repeat(indent, steps) + line[steps*2:]
}
