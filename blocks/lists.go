package blocks

import (
	"strings"

	"github.com/mxkacsa/nelgen"
)

func init() {
	nelgen.MustRegister("lists_create_empty", generateListEmpty)
	nelgen.MustRegister("lists_create_with", generateListWith)
	nelgen.MustRegister("lists_repeat", generateListRepeat)
	nelgen.MustRegister("lists_length", generateListLength)
	nelgen.MustRegister("lists_isEmpty", generateListIsEmpty)
	nelgen.MustRegister("lists_indexOf", generateListIndexOf)
	nelgen.MustRegister("lists_getIndex", generateListGetIndex)
	nelgen.MustRegister("lists_setIndex", generateListSetIndex)
	nelgen.MustRegister("lists_getSublist", generateListSublist)
	nelgen.MustRegister("lists_sort", generateListSort)
	nelgen.MustRegister("lists_split", generateListSplit)
	nelgen.MustRegister("lists_reverse", generateListReverse)
}

// List positions in the graph are one-based; vectors are zero-based.

// TempListName seeds the temporary a list expression is bound to when an
// index computation would evaluate it twice.
const TempListName = "tmp_list"

// listIndex returns the zero-based index expression for where. list must be
// an expression that can be evaluated more than once. at is composed at
// OrderAdditive for FROM_START and at OrderMultiplicative for FROM_END.
func listIndex(list, where, at string) (string, bool) {
	switch where {
	case "FIRST":
		return "0", true
	case "LAST":
		return "#" + list + " - 1", true
	case "FROM_START":
		if nelgen.IsNumber(at) {
			f, _ := nelgen.ParseNumber(at)
			return nelgen.FormatNumber(f - 1), true
		}
		return at + " - 1", true
	case "FROM_END":
		return "#" + list + " - " + at, true
	case "RANDOM":
		return "math.random(0, #" + list + " - 1)", true
	}
	return "", false
}

func atOrder(where string) nelgen.Order {
	switch where {
	case "FROM_START":
		return nelgen.OrderAdditive
	case "FROM_END":
		return nelgen.OrderMultiplicative
	}
	return nelgen.OrderNone
}

// usesListTwice reports whether the index for where mentions the list.
func usesListTwice(where string) bool {
	return where == "LAST" || where == "FROM_END" || where == "RANDOM"
}

func generateListEmpty(g *gen, n *node) (code, error) {
	return value("{}", nelgen.OrderAtomic)
}

func generateListWith(g *gen, n *node) (code, error) {
	count := n.ItemCount("ADD")
	elements := make([]string, count)
	in := inputs(g, n)
	for i := range elements {
		elements[i] = in.get("ADD"+itoa(i), nelgen.OrderNone, "nil")
	}
	if in.err != nil {
		return fail(in.err)
	}
	return value("{"+strings.Join(elements, ", ")+"}", nelgen.OrderHigh)
}

func generateListRepeat(g *gen, n *node) (code, error) {
	fn := g.ProvideFunction("create_list_repeated", []string{
		"local function " + nelgen.FunctionNamePlaceholder + "(item: auto, count: integer)",
		"  local t: vector(#[item.type]#) = {}",
		"  for i = 1, count do",
		"    t:push(item)",
		"  end",
		"  return t",
		"end",
	})
	in := inputs(g, n)
	item := in.get("ITEM", nelgen.OrderNone, "nil")
	count := in.get("NUM", nelgen.OrderNone, "0")
	if in.err != nil {
		return fail(in.err)
	}
	return value(fn+"("+item+", "+count+")", nelgen.OrderHigh)
}

func generateListLength(g *gen, n *node) (code, error) {
	list, err := g.ValueOrDefault(n, "VALUE", nelgen.OrderUnary, "{}")
	if err != nil {
		return fail(err)
	}
	return value("#"+list, nelgen.OrderUnary)
}

func generateListIsEmpty(g *gen, n *node) (code, error) {
	list, err := g.ValueOrDefault(n, "VALUE", nelgen.OrderUnary, "{}")
	if err != nil {
		return fail(err)
	}
	return value("#"+list+" == 0", nelgen.OrderRelational)
}

// generateListIndexOf returns the one-based position of the item, or 0.
func generateListIndexOf(g *gen, n *node) (code, error) {
	var fn string
	switch n.Field("END") {
	case "FIRST":
		fn = g.ProvideFunction("first_index", []string{
			"local function " + nelgen.FunctionNamePlaceholder + "(t: auto, elem: auto): integer",
			"  ## assert(t.type.is_vector)",
			"  for i = 0, #t - 1 do",
			"    if t[i] == elem then",
			"      return i + 1",
			"    end",
			"  end",
			"  return 0",
			"end",
		})
	case "LAST":
		fn = g.ProvideFunction("last_index", []string{
			"local function " + nelgen.FunctionNamePlaceholder + "(t: auto, elem: auto): integer",
			"  ## assert(t.type.is_vector)",
			"  for i = #t - 1, 0, -1 do",
			"    if t[i] == elem then",
			"      return i + 1",
			"    end",
			"  end",
			"  return 0",
			"end",
		})
	default:
		return fail(nelgen.UnknownOperator(n, "END"))
	}
	in := inputs(g, n)
	item := in.get("FIND", nelgen.OrderNone, "''")
	list := in.get("VALUE", nelgen.OrderNone, "{}")
	if in.err != nil {
		return fail(in.err)
	}
	return value(fn+"("+list+", "+item+")", nelgen.OrderHigh)
}

func generateListGetIndex(g *gen, n *node) (code, error) {
	mode := n.Field("MODE")
	where := n.Field("WHERE")
	if mode != "GET" && mode != "GET_REMOVE" && mode != "REMOVE" {
		return fail(nelgen.UnhandledSlot(n, "MODE", "WHERE"))
	}
	if _, ok := listIndex("t", where, "at"); !ok {
		return fail(nelgen.UnhandledSlot(n, "MODE", "WHERE"))
	}

	list, err := g.ValueOrDefault(n, "VALUE", nelgen.OrderHigh, "({})")
	if err != nil {
		return fail(err)
	}

	if usesListTwice(where) && !nelgen.IsIdentifier(list) {
		if mode == "REMOVE" {
			tmp := g.Names().GetDistinctName(TempListName, nelgen.NamespaceTemporary)
			in := inputs(g, n)
			at := in.at("AT", where, atOrder(where))
			if in.err != nil {
				return fail(in.err)
			}
			idx, _ := listIndex(tmp, where, at)
			return statement("local " + tmp + " = " + list + "\n" + tmp + ":remove(" + idx + ")\n")
		}

		// A helper receives the list once and computes the index itself.
		in := inputs(g, n)
		at := in.at("AT", where, nelgen.OrderNone)
		if in.err != nil {
			return fail(in.err)
		}
		params, args := "t: auto", list
		if where == "FROM_END" {
			params += ", at: integer"
			args += ", " + at
		}
		idx, _ := listIndex("t", where, "at")
		op := "return t[" + idx + "]"
		key := "list_get_" + strings.ToLower(where)
		if mode == "GET_REMOVE" {
			op = "return t:remove(" + idx + ")"
			key = "list_remove_" + strings.ToLower(where)
		}
		fn := g.ProvideFunction(key, []string{
			"local function " + nelgen.FunctionNamePlaceholder + "(" + params + ")",
			"  ## assert(t.type.is_vector)",
			"  " + op,
			"end",
		})
		return value(fn+"("+args+")", nelgen.OrderHigh)
	}

	in := inputs(g, n)
	at := in.at("AT", where, atOrder(where))
	if in.err != nil {
		return fail(in.err)
	}
	idx, _ := listIndex(list, where, at)
	switch mode {
	case "GET":
		return value(list+"["+idx+"]", nelgen.OrderHigh)
	case "GET_REMOVE":
		return value(list+":remove("+idx+")", nelgen.OrderHigh)
	}
	return statement(list + ":remove(" + idx + ")\n")
}

func generateListSetIndex(g *gen, n *node) (code, error) {
	mode := n.Field("MODE")
	where := n.Field("WHERE")
	if mode != "SET" && mode != "INSERT" {
		return fail(nelgen.UnhandledSlot(n, "MODE", "WHERE"))
	}
	if _, ok := listIndex("t", where, "at"); !ok {
		return fail(nelgen.UnhandledSlot(n, "MODE", "WHERE"))
	}

	in := inputs(g, n)
	list := in.get("LIST", nelgen.OrderHigh, "({})")
	at := in.at("AT", where, atOrder(where))
	item := in.get("TO", nelgen.OrderNone, "nil")
	if in.err != nil {
		return fail(in.err)
	}

	var b strings.Builder
	if usesListTwice(where) && !nelgen.IsIdentifier(list) {
		tmp := g.Names().GetDistinctName(TempListName, nelgen.NamespaceTemporary)
		b.WriteString("local " + tmp + " = " + list + "\n")
		list = tmp
	}
	idx, _ := listIndex(list, where, at)
	switch {
	case mode == "SET":
		b.WriteString(list + "[" + idx + "] = " + item + "\n")
	case where == "LAST":
		b.WriteString(list + ":push(" + item + ")\n")
	default:
		b.WriteString(list + ":insert(" + idx + ", " + item + ")\n")
	}
	return statement(b.String())
}

func generateListSublist(g *gen, n *node) (code, error) {
	where1 := n.Field("WHERE1")
	where2 := n.Field("WHERE2")
	switch where1 {
	case "FIRST", "FROM_START", "FROM_END":
	default:
		return fail(nelgen.UnhandledSlot(n, "WHERE1", "WHERE2"))
	}
	switch where2 {
	case "LAST", "FROM_START", "FROM_END":
	default:
		return fail(nelgen.UnhandledSlot(n, "WHERE1", "WHERE2"))
	}

	in := inputs(g, n)
	list := in.get("LIST", nelgen.OrderNone, "{}")
	params, args := "source: auto", list
	if where1 == "FROM_START" || where1 == "FROM_END" {
		params += ", at1: integer"
		args += ", " + in.get("AT1", nelgen.OrderNone, "1")
	}
	if where2 == "FROM_START" || where2 == "FROM_END" {
		params += ", at2: integer"
		args += ", " + in.get("AT2", nelgen.OrderNone, "1")
	}
	if in.err != nil {
		return fail(in.err)
	}

	start, _ := listIndex("source", where1, "at1")
	end, _ := listIndex("source", where2, "at2")
	fn := g.ProvideFunction("list_sublist_"+strings.ToLower(where1)+"_"+strings.ToLower(where2), []string{
		"local function " + nelgen.FunctionNamePlaceholder + "(" + params + "): #[source.type]",
		"  ## assert(source.type.is_vector)",
		"  local t: #[source.type] = {}",
		"  local start: integer = " + start,
		"  local finish: integer = " + end,
		"  for i = start, finish do",
		"    t:push(source[i])",
		"  end",
		"  return t",
		"end",
	})
	return value(fn+"("+args+")", nelgen.OrderHigh)
}

// provideComparator returns a less-than helper for sort type typ.
func provideComparator(g *gen, typ string) string {
	var expr string
	switch typ {
	case "NUMERIC":
		expr = "(tonumber(tostring(a)) or 0) < (tonumber(tostring(b)) or 0)"
	case "TEXT":
		expr = "tostring(a) < tostring(b)"
	case "IGNORE_CASE":
		expr = "string.lower(tostring(a)) < string.lower(tostring(b))"
	default:
		return ""
	}
	return g.ProvideFunction("list_less_"+strings.ToLower(typ), []string{
		"local function " + nelgen.FunctionNamePlaceholder + "(a: auto, b: auto): boolean",
		"  return " + expr,
		"end",
	})
}

// provideQuicksort returns an in-place quicksort over arr[lo..hi] using
// Lomuto partitioning.
func provideQuicksort(g *gen) string {
	partition := g.ProvideFunction("list_partition", []string{
		"local function " + nelgen.FunctionNamePlaceholder + "(arr: auto, lo: integer, hi: integer, less: auto, ascending: boolean): integer",
		"  local pivot = arr[hi]",
		"  local store: integer = lo",
		"  for i = lo, hi - 1 do",
		"    local before: boolean",
		"    if ascending then",
		"      before = less(arr[i], pivot)",
		"    else",
		"      before = less(pivot, arr[i])",
		"    end",
		"    if before then",
		"      arr[i], arr[store] = arr[store], arr[i]",
		"      store = store + 1",
		"    end",
		"  end",
		"  arr[store], arr[hi] = arr[hi], arr[store]",
		"  return store",
		"end",
	})
	return g.ProvideFunction("list_quicksort", []string{
		"local function " + nelgen.FunctionNamePlaceholder + "(arr: auto, lo: integer, hi: integer, less: auto, ascending: boolean)",
		"  if lo < hi then",
		"    local p: integer = " + partition + "(arr, lo, hi, less, ascending)",
		"    " + nelgen.FunctionNamePlaceholder + "(arr, lo, p - 1, less, ascending)",
		"    " + nelgen.FunctionNamePlaceholder + "(arr, p + 1, hi, less, ascending)",
		"  end",
		"end",
	})
}

func generateListSort(g *gen, n *node) (code, error) {
	var ascending string
	switch n.Field("DIRECTION") {
	case "1":
		ascending = "true"
	case "-1":
		ascending = "false"
	default:
		return fail(nelgen.UnknownOperator(n, "DIRECTION"))
	}
	typ := n.Field("TYPE")
	less := provideComparator(g, typ)
	if less == "" {
		return fail(nelgen.UnknownOperator(n, "TYPE"))
	}
	list, err := g.ValueOrDefault(n, "LIST", nelgen.OrderNone, "{}")
	if err != nil {
		return fail(err)
	}
	sort := provideQuicksort(g)
	fn := g.ProvideFunction("list_sort", []string{
		"local function " + nelgen.FunctionNamePlaceholder + "(list: auto, less: auto, ascending: boolean): #[list.type]",
		"  ## assert(list.type.is_vector)",
		"  local t: #[list.type] = {}",
		"  for _, v in ipairs(list) do",
		"    t:push(v)",
		"  end",
		"  " + sort + "(t, 0, #t - 1, less, ascending)",
		"  return t",
		"end",
	})
	return value(fn+"("+list+", "+less+", "+ascending+")", nelgen.OrderHigh)
}

func generateListSplit(g *gen, n *node) (code, error) {
	in := inputs(g, n)
	input := in.get("INPUT", nelgen.OrderNone, "")
	delim := in.get("DELIM", nelgen.OrderNone, "''")
	if in.err != nil {
		return fail(in.err)
	}

	var fn string
	switch n.Field("MODE") {
	case "SPLIT":
		if input == "" {
			input = "''"
		}
		fn = g.ProvideFunction("list_string_split", []string{
			"local function " + nelgen.FunctionNamePlaceholder + "(input: string, delim: string): vector(string)",
			"  local t: vector(string) = {}",
			"  if #delim == 0 then",
			"    for i = 1, #input do",
			"      t:push(string.sub(input, i, i))",
			"    end",
			"    return t",
			"  end",
			"  local pos: integer = 1",
			"  while true do",
			"    local first, last = string.find(input, delim, pos, true)",
			"    if not first then",
			"      t:push(string.sub(input, pos))",
			"      break",
			"    end",
			"    t:push(string.sub(input, pos, first - 1))",
			"    pos = last + 1",
			"  end",
			"  return t",
			"end",
		})
	case "JOIN":
		if input == "" {
			input = "{}"
		}
		fn = g.ProvideFunction("list_join", []string{
			"local function " + nelgen.FunctionNamePlaceholder + "(list: auto, delim: string): string",
			"  local res: string = ''",
			"  local first: boolean = true",
			"  for _, v in ipairs(list) do",
			"    if not first then",
			"      res = res .. delim",
			"    end",
			"    res = res .. tostring(v)",
			"    first = false",
			"  end",
			"  return res",
			"end",
		})
	default:
		return fail(nelgen.UnknownOperator(n, "MODE"))
	}
	return value(fn+"("+input+", "+delim+")", nelgen.OrderHigh)
}

func generateListReverse(g *gen, n *node) (code, error) {
	list, err := g.ValueOrDefault(n, "LIST", nelgen.OrderNone, "{}")
	if err != nil {
		return fail(err)
	}
	fn := g.ProvideFunction("list_reverse", []string{
		"local function " + nelgen.FunctionNamePlaceholder + "(input: auto): #[input.type]",
		"  ## assert(input.type.is_vector)",
		"  local reversed: #[input.type] = {}",
		"  for i = #input - 1, 0, -1 do",
		"    reversed:push(input[i])",
		"  end",
		"  return reversed",
		"end",
	})
	return value(fn+"("+list+")", nelgen.OrderHigh)
}
