package blocks

import (
	"regexp"
	"strings"

	"github.com/mxkacsa/nelgen"
)

func init() {
	nelgen.MustRegister(KindText, generateText)
	nelgen.MustRegister("text_multiline", generateMultiline)
	nelgen.MustRegister("text_join", generateJoin)
	nelgen.MustRegister("text_append", generateAppend)
	nelgen.MustRegister("text_length", generateTextLength)
	nelgen.MustRegister("text_isEmpty", generateTextIsEmpty)
	nelgen.MustRegister("text_indexOf", generateTextIndexOf)
	nelgen.MustRegister("text_charAt", generateCharAt)
	nelgen.MustRegister("text_getSubstring", generateSubstring)
	nelgen.MustRegister("text_changeCase", generateChangeCase)
	nelgen.MustRegister("text_trim", generateTrim)
	nelgen.MustRegister("text_print", generatePrint)
	nelgen.MustRegister("text_prompt_ext", generatePrompt)
	nelgen.MustAlias("text_prompt", "text_prompt_ext")
	nelgen.MustRegister("text_count", generateCount)
	nelgen.MustRegister("text_replace", generateReplace)
	nelgen.MustRegister("text_reverse", generateTextReverse)
}

func generateText(g *gen, n *node) (code, error) {
	return value(nelgen.Quote(n.Field("TEXT")), nelgen.OrderAtomic)
}

func generateMultiline(g *gen, n *node) (code, error) {
	text := nelgen.MultilineQuote(n.Field("TEXT"))
	return value(text, nelgen.MultilineOrder(text))
}

func generateJoin(g *gen, n *node) (code, error) {
	count := n.ItemCount("ADD")
	in := inputs(g, n)
	switch count {
	case 0:
		return value("''", nelgen.OrderAtomic)
	case 1:
		element := in.get("ADD0", nelgen.OrderNone, "''")
		if in.err != nil {
			return fail(in.err)
		}
		return value("tostring("+element+")", nelgen.OrderHigh)
	}
	elements := make([]string, count)
	for i := range elements {
		elements[i] = in.get("ADD"+itoa(i), nelgen.OrderConcatenation, "''")
	}
	if in.err != nil {
		return fail(in.err)
	}
	return value(strings.Join(elements, " .. "), nelgen.OrderConcatenation)
}

func generateAppend(g *gen, n *node) (code, error) {
	variable := g.VariableName(n, "VAR")
	text, err := g.ValueOrDefault(n, "TEXT", nelgen.OrderConcatenation, "''")
	if err != nil {
		return fail(err)
	}
	return statement(variable + " = " + variable + " .. " + text + "\n")
}

func generateTextLength(g *gen, n *node) (code, error) {
	text, err := g.ValueOrDefault(n, "VALUE", nelgen.OrderUnary, "''")
	if err != nil {
		return fail(err)
	}
	return value("#"+text, nelgen.OrderUnary)
}

func generateTextIsEmpty(g *gen, n *node) (code, error) {
	text, err := g.ValueOrDefault(n, "VALUE", nelgen.OrderUnary, "''")
	if err != nil {
		return fail(err)
	}
	return value("#"+text+" == 0", nelgen.OrderRelational)
}

// generateTextIndexOf returns the one-based position of the substring, or 0.
func generateTextIndexOf(g *gen, n *node) (code, error) {
	var fn string
	switch n.Field("END") {
	case "FIRST":
		fn = g.ProvideFunction("firstIndexOf", []string{
			"local function " + nelgen.FunctionNamePlaceholder + "(str: string, substr: string): integer",
			"  local i = string.find(str, substr, 1, true)",
			"  if i == nil then",
			"    return 0",
			"  end",
			"  return i",
			"end",
		})
	case "LAST":
		fn = g.ProvideFunction("lastIndexOf", []string{
			"local function " + nelgen.FunctionNamePlaceholder + "(str: string, substr: string): integer",
			"  local i = string.find(string.reverse(str), string.reverse(substr), 1, true)",
			"  if i then",
			"    return #str + 2 - i - #substr",
			"  end",
			"  return 0",
			"end",
		})
	default:
		return fail(nelgen.UnknownOperator(n, "END"))
	}
	in := inputs(g, n)
	substring := in.get("FIND", nelgen.OrderNone, "''")
	text := in.get("VALUE", nelgen.OrderNone, "''")
	if in.err != nil {
		return fail(in.err)
	}
	return value(fn+"("+text+", "+substring+")", nelgen.OrderHigh)
}

// simpleIndex matches start positions that are safe to repeat.
var simpleIndex = regexp.MustCompile(`^-?\w*$`)

func generateCharAt(g *gen, n *node) (code, error) {
	where := n.Field("WHERE")
	in := inputs(g, n)
	text := in.get("VALUE", nelgen.OrderNone, "''")
	atSlot := nelgen.OrderNone
	if where == "FROM_END" {
		atSlot = nelgen.OrderUnary
	}
	at := in.at("AT", where, atSlot)
	if in.err != nil {
		return fail(in.err)
	}

	var start string
	switch where {
	case "RANDOM":
		fn := g.ProvideFunction("text_random_letter", []string{
			"local function " + nelgen.FunctionNamePlaceholder + "(str: string): string",
			"  local index: integer = math.random(1, #str)",
			"  return string.sub(str, index, index)",
			"end",
		})
		return value(fn+"("+text+")", nelgen.OrderHigh)
	case "FIRST":
		start = "1"
	case "LAST":
		start = "-1"
	case "FROM_START":
		start = at
	case "FROM_END":
		start = negate(at)
	default:
		return fail(nelgen.UnhandledSlot(n, "WHERE"))
	}

	if simpleIndex.MatchString(start) {
		return value("string.sub("+text+", "+start+", "+start+")", nelgen.OrderHigh)
	}
	fn := g.ProvideFunction("text_char_at", []string{
		"local function " + nelgen.FunctionNamePlaceholder + "(str: string, index: integer): string",
		"  return string.sub(str, index, index)",
		"end",
	})
	return value(fn+"("+text+", "+start+")", nelgen.OrderHigh)
}

func generateSubstring(g *gen, n *node) (code, error) {
	where1 := n.Field("WHERE1")
	where2 := n.Field("WHERE2")
	at1Order := nelgen.OrderNone
	if where1 == "FROM_END" {
		at1Order = nelgen.OrderUnary
	}
	at2Order := nelgen.OrderNone
	if where2 == "FROM_END" {
		at2Order = nelgen.OrderUnary
	}

	in := inputs(g, n)
	text := in.get("STRING", nelgen.OrderNone, "''")
	at1 := in.at("AT1", where1, at1Order)
	at2 := in.at("AT2", where2, at2Order)
	if in.err != nil {
		return fail(in.err)
	}

	var start, end string
	switch where1 {
	case "FIRST":
		start = "1"
	case "FROM_START":
		start = at1
	case "FROM_END":
		start = negate(at1)
	default:
		return fail(nelgen.UnhandledSlot(n, "WHERE1", "WHERE2"))
	}
	switch where2 {
	case "LAST":
		end = "-1"
	case "FROM_START":
		end = at2
	case "FROM_END":
		end = negate(at2)
	default:
		return fail(nelgen.UnhandledSlot(n, "WHERE1", "WHERE2"))
	}
	return value("string.sub("+text+", "+start+", "+end+")", nelgen.OrderHigh)
}

func generateChangeCase(g *gen, n *node) (code, error) {
	text, err := g.ValueOrDefault(n, "TEXT", nelgen.OrderNone, "''")
	if err != nil {
		return fail(err)
	}
	switch n.Field("CASE") {
	case "UPPERCASE":
		return value("string.upper("+text+")", nelgen.OrderHigh)
	case "LOWERCASE":
		return value("string.lower("+text+")", nelgen.OrderHigh)
	case "TITLECASE":
		fn := g.ProvideFunction("text_titlecase", []string{
			"local function " + nelgen.FunctionNamePlaceholder + "(str: string): string",
			"  local res: string = ''",
			"  local inWord: boolean = false",
			"  for i = 1, #str do",
			"    local c: string = string.sub(str, i, i)",
			"    if inWord then",
			"      res = res .. string.lower(c)",
			"    else",
			"      res = res .. string.upper(c)",
			"    end",
			"    inWord = not string.find(c, '%s')",
			"  end",
			"  return res",
			"end",
		})
		return value(fn+"("+text+")", nelgen.OrderHigh)
	}
	return fail(nelgen.UnknownOperator(n, "CASE"))
}

var trimPatterns = map[string]string{
	"LEFT":  "^%s*(.-)$",
	"RIGHT": "^(.-)%s*$",
	"BOTH":  "^%s*(.-)%s*$",
}

func generateTrim(g *gen, n *node) (code, error) {
	pattern, ok := trimPatterns[n.Field("MODE")]
	if !ok {
		return fail(nelgen.UnknownOperator(n, "MODE"))
	}
	text, err := g.ValueOrDefault(n, "TEXT", nelgen.OrderNone, "''")
	if err != nil {
		return fail(err)
	}
	// Parenthesised to drop the match count gsub also returns.
	return value("(string.gsub("+text+", "+nelgen.Quote(pattern)+", '%1'))", nelgen.OrderAtomic)
}

func generatePrint(g *gen, n *node) (code, error) {
	msg, err := g.ValueOrDefault(n, "TEXT", nelgen.OrderNone, "''")
	if err != nil {
		return fail(err)
	}
	return statement("print(" + msg + ")\n")
}

// generatePrompt covers text_prompt (message in a field) and
// text_prompt_ext (message in a value input).
func generatePrompt(g *gen, n *node) (code, error) {
	var msg string
	if n.HasField("TEXT") {
		msg = nelgen.Quote(n.Field("TEXT"))
	} else {
		var err error
		msg, err = g.ValueOrDefault(n, "TEXT", nelgen.OrderNone, "''")
		if err != nil {
			return fail(err)
		}
	}
	fn := g.ProvideFunction("text_prompt", []string{
		"local function " + nelgen.FunctionNamePlaceholder + "(msg: string): string",
		"  io.write(msg)",
		"  io.stdout:flush()",
		"  return io.read()",
		"end",
	})
	text := fn + "(" + msg + ")"
	if n.Field("TYPE") == "NUMBER" {
		text = "tonumber(" + text + ", 10)"
	}
	return value(text, nelgen.OrderHigh)
}

func generateCount(g *gen, n *node) (code, error) {
	in := inputs(g, n)
	text := in.get("TEXT", nelgen.OrderNone, "''")
	sub := in.get("SUB", nelgen.OrderNone, "''")
	if in.err != nil {
		return fail(in.err)
	}
	fn := g.ProvideFunction("text_count", []string{
		"local function " + nelgen.FunctionNamePlaceholder + "(haystack: string, needle: string): integer",
		"  if #needle == 0 then",
		"    return #haystack + 1",
		"  end",
		"  local i: integer = 1",
		"  local count: integer = 0",
		"  while true do",
		"    i = string.find(haystack, needle, i, true)",
		"    if i == nil then",
		"      break",
		"    end",
		"    count = count + 1",
		"    i = i + #needle",
		"  end",
		"  return count",
		"end",
	})
	return value(fn+"("+text+", "+sub+")", nelgen.OrderHigh)
}

func generateReplace(g *gen, n *node) (code, error) {
	in := inputs(g, n)
	text := in.get("TEXT", nelgen.OrderNone, "''")
	from := in.get("FROM", nelgen.OrderNone, "''")
	to := in.get("TO", nelgen.OrderNone, "''")
	if in.err != nil {
		return fail(in.err)
	}
	fn := g.ProvideFunction("text_replace", []string{
		"local function " + nelgen.FunctionNamePlaceholder + "(haystack: string, needle: string, replacement: string): string",
		"  if #needle == 0 then",
		"    return haystack",
		"  end",
		"  local res: string = ''",
		"  local i: integer = 1",
		"  while i <= #haystack do",
		"    if string.sub(haystack, i, i + #needle - 1) == needle then",
		"      res = res .. replacement",
		"      i = i + #needle",
		"    else",
		"      res = res .. string.sub(haystack, i, i)",
		"      i = i + 1",
		"    end",
		"  end",
		"  return res",
		"end",
	})
	return value(fn+"("+text+", "+from+", "+to+")", nelgen.OrderHigh)
}

func generateTextReverse(g *gen, n *node) (code, error) {
	text, err := g.ValueOrDefault(n, "TEXT", nelgen.OrderNone, "''")
	if err != nil {
		return fail(err)
	}
	return value("string.reverse("+text+")", nelgen.OrderHigh)
}
