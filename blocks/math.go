package blocks

import (
	"fmt"

	"github.com/mxkacsa/nelgen"
)

func init() {
	nelgen.MustRegister(KindMathNumber, generateNumber)
	nelgen.MustRegister("math_arithmetic", generateArithmetic)
	nelgen.MustRegister("math_single", generateSingle)
	nelgen.MustAlias("math_round", "math_single")
	nelgen.MustAlias("math_trig", "math_single")
	nelgen.MustRegister("math_constant", generateConstant)
	nelgen.MustRegister("math_number_property", generateNumberProperty)
	nelgen.MustRegister("math_change", generateChange)
	nelgen.MustRegister("math_on_list", generateOnList)
	nelgen.MustRegister("math_modulo", generateModulo)
	nelgen.MustRegister("math_constrain", generateConstrain)
	nelgen.MustRegister("math_random_int", generateRandomInt)
	nelgen.MustRegister("math_random_float", generateRandomFloat)
	nelgen.MustRegister("math_atan2", generateAtan2)
}

func generateNumber(g *gen, n *node) (code, error) {
	f, ok := nelgen.ParseNumber(n.Field("NUM"))
	if !ok {
		return fail(fmt.Errorf("invalid number %q", n.Field("NUM")))
	}
	if f < 0 {
		return value(nelgen.FormatNumber(f), nelgen.OrderUnary)
	}
	return value(nelgen.FormatNumber(f), nelgen.OrderAtomic)
}

type arithmetic struct {
	op    string
	order nelgen.Order
	// orders of the left and right operand slots
	left, right nelgen.Order
}

var arithmeticOperators = map[string]arithmetic{
	"ADD":      {" + ", nelgen.OrderAdditive, nelgen.OrderAdditive, nelgen.OrderAdditive},
	"MINUS":    {" - ", nelgen.OrderAdditive, nelgen.OrderAdditive, nelgen.OrderAdditive.Tighter()},
	"MULTIPLY": {" * ", nelgen.OrderMultiplicative, nelgen.OrderMultiplicative, nelgen.OrderMultiplicative},
	"DIVIDE":   {" / ", nelgen.OrderMultiplicative, nelgen.OrderMultiplicative, nelgen.OrderMultiplicative.Tighter()},
	"POWER":    {" ^ ", nelgen.OrderExponentiation, nelgen.OrderExponentiation.Tighter(), nelgen.OrderExponentiation},
}

func generateArithmetic(g *gen, n *node) (code, error) {
	op, ok := arithmeticOperators[n.Field("OP")]
	if !ok {
		return fail(nelgen.UnknownOperator(n, "OP"))
	}
	in := inputs(g, n)
	a := in.get("A", op.left, "0")
	b := in.get("B", op.right, "0")
	if in.err != nil {
		return fail(in.err)
	}
	return value(a+op.op+b, op.order)
}

var singleFunctions = map[string]string{
	"ABS":       "math.abs",
	"ROOT":      "math.sqrt",
	"LN":        "math.log",
	"EXP":       "math.exp",
	"ROUNDUP":   "math.ceil",
	"ROUNDDOWN": "math.floor",
	"SIN":       "math.sin",
	"COS":       "math.cos",
	"TAN":       "math.tan",
	"ASIN":      "math.asin",
	"ACOS":      "math.acos",
	"ATAN":      "math.atan",
}

// generateSingle covers math_single, math_round and math_trig. Trig
// functions take and return degrees.
func generateSingle(g *gen, n *node) (code, error) {
	op := n.Field("OP")
	switch op {
	case "NEG":
		arg, err := g.ValueOrDefault(n, "NUM", nelgen.OrderUnary, "0")
		if err != nil {
			return fail(err)
		}
		return value(negate(arg), nelgen.OrderUnary)
	case "POW10":
		arg, err := g.ValueOrDefault(n, "NUM", nelgen.OrderExponentiation, "0")
		if err != nil {
			return fail(err)
		}
		return value("10 ^ "+arg, nelgen.OrderExponentiation)
	}

	order := nelgen.OrderNone
	if op == "ROUND" {
		order = nelgen.OrderAdditive
	}
	arg, err := g.ValueOrDefault(n, "NUM", order, "0")
	if err != nil {
		return fail(err)
	}

	switch op {
	case "ROUND":
		return value("math.floor("+arg+" + .5)", nelgen.OrderHigh)
	case "LOG10":
		return value("math.log("+arg+", 10)", nelgen.OrderHigh)
	case "SIN", "COS", "TAN":
		return value(singleFunctions[op]+"(math.rad("+arg+"))", nelgen.OrderHigh)
	case "ASIN", "ACOS", "ATAN":
		return value("math.deg("+singleFunctions[op]+"("+arg+"))", nelgen.OrderHigh)
	}
	fn, ok := singleFunctions[op]
	if !ok {
		return fail(nelgen.UnknownOperator(n, "OP"))
	}
	return value(fn+"("+arg+")", nelgen.OrderHigh)
}

var constants = map[string]nelgen.Code{
	"PI":           nelgen.Value("math.pi", nelgen.OrderHigh),
	"E":            nelgen.Value("math.exp(1)", nelgen.OrderHigh),
	"GOLDEN_RATIO": nelgen.Value("(1 + math.sqrt(5)) / 2", nelgen.OrderMultiplicative),
	"SQRT2":        nelgen.Value("math.sqrt(2)", nelgen.OrderHigh),
	"SQRT1_2":      nelgen.Value("math.sqrt(1 / 2)", nelgen.OrderHigh),
	"INFINITY":     nelgen.Value("math.huge", nelgen.OrderHigh),
}

func generateConstant(g *gen, n *node) (code, error) {
	c, ok := constants[n.Field("CONSTANT")]
	if !ok {
		return fail(nelgen.UnknownOperator(n, "CONSTANT"))
	}
	return c, nil
}

func generateNumberProperty(g *gen, n *node) (code, error) {
	number, err := g.ValueOrDefault(n, "NUMBER_TO_CHECK", nelgen.OrderMultiplicative, "0")
	if err != nil {
		return fail(err)
	}

	switch n.Field("PROPERTY") {
	case "PRIME":
		fn := g.ProvideFunction("math_isPrime", []string{
			"local function " + nelgen.FunctionNamePlaceholder + "(n: number): boolean",
			"  if n == 2 or n == 3 then",
			"    return true",
			"  end",
			"  -- False if n is NaN, negative, is 1, or not whole.",
			"  -- And false if n is divisible by 2 or 3.",
			"  if not (n > 1) or n % 1 ~= 0 or n % 2 == 0 or n % 3 == 0 then",
			"    return false",
			"  end",
			"  -- Check all the numbers of form 6k +/- 1, up to sqrt(n).",
			"  for x = 6, math.sqrt(n) + 1.5, 6 do",
			"    if n % (x - 1) == 0 or n % (x + 1) == 0 then",
			"      return false",
			"    end",
			"  end",
			"  return true",
			"end",
		})
		return value(fn+"("+number+")", nelgen.OrderHigh)
	case "EVEN":
		return value(number+" % 2 == 0", nelgen.OrderRelational)
	case "ODD":
		return value(number+" % 2 == 1", nelgen.OrderRelational)
	case "WHOLE":
		return value(number+" % 1 == 0", nelgen.OrderRelational)
	case "POSITIVE":
		return value(number+" > 0", nelgen.OrderRelational)
	case "NEGATIVE":
		return value(number+" < 0", nelgen.OrderRelational)
	case "DIVISIBLE_BY":
		divisor, err := g.ValueOrDefault(n, "DIVISOR", nelgen.OrderMultiplicative.Tighter(), "")
		if err != nil {
			return fail(err)
		}
		// Division by zero is never divisible.
		if divisor == "" || divisor == "0" {
			return value("nil", nelgen.OrderAtomic)
		}
		return value(number+" % "+divisor+" == 0", nelgen.OrderRelational)
	}
	return fail(nelgen.UnknownOperator(n, "PROPERTY"))
}

func generateChange(g *gen, n *node) (code, error) {
	delta, err := g.ValueOrDefault(n, "DELTA", nelgen.OrderAdditive, "0")
	if err != nil {
		return fail(err)
	}
	variable := g.VariableName(n, "VAR")
	return statement(variable + " = " + variable + " + " + delta + "\n")
}

func generateModulo(g *gen, n *node) (code, error) {
	in := inputs(g, n)
	dividend := in.get("DIVIDEND", nelgen.OrderMultiplicative, "0")
	divisor := in.get("DIVISOR", nelgen.OrderMultiplicative.Tighter(), "0")
	if in.err != nil {
		return fail(in.err)
	}
	return value(dividend+" % "+divisor, nelgen.OrderMultiplicative)
}

func generateConstrain(g *gen, n *node) (code, error) {
	in := inputs(g, n)
	arg := in.get("VALUE", nelgen.OrderNone, "0")
	low := in.get("LOW", nelgen.OrderNone, "-math.huge")
	high := in.get("HIGH", nelgen.OrderNone, "math.huge")
	if in.err != nil {
		return fail(in.err)
	}
	return value("math.min(math.max("+arg+", "+low+"), "+high+")", nelgen.OrderHigh)
}

func generateRandomInt(g *gen, n *node) (code, error) {
	in := inputs(g, n)
	from := in.get("FROM", nelgen.OrderNone, "0")
	to := in.get("TO", nelgen.OrderNone, "0")
	if in.err != nil {
		return fail(in.err)
	}
	return value("math.random("+from+", "+to+")", nelgen.OrderHigh)
}

func generateRandomFloat(g *gen, n *node) (code, error) {
	return value("math.random()", nelgen.OrderHigh)
}

func generateAtan2(g *gen, n *node) (code, error) {
	in := inputs(g, n)
	x := in.get("X", nelgen.OrderNone, "0")
	y := in.get("Y", nelgen.OrderNone, "0")
	if in.err != nil {
		return fail(in.err)
	}
	return value("math.deg(math.atan("+y+", "+x+"))", nelgen.OrderHigh)
}

// generateOnList reduces a list with one of the aggregate helpers.
func generateOnList(g *gen, n *node) (code, error) {
	list, err := g.ValueOrDefault(n, "LIST", nelgen.OrderNone, "{}")
	if err != nil {
		return fail(err)
	}

	var fn string
	switch n.Field("OP") {
	case "SUM":
		fn = provideSum(g)
	case "MIN":
		fn = provideExtreme(g, "math_min", "<")
	case "MAX":
		fn = provideExtreme(g, "math_max", ">")
	case "AVERAGE":
		sum := provideSum(g)
		fn = g.ProvideFunction("math_average", []string{
			"local function " + nelgen.FunctionNamePlaceholder + "(t: auto): number",
			"  ## assert(t.type.is_vector)",
			"  if #t == 0 then",
			"    return 0",
			"  end",
			"  return " + sum + "(t) / #t",
			"end",
		})
	case "MEDIAN":
		sort := provideQuicksort(g)
		less := provideComparator(g, "NUMERIC")
		fn = g.ProvideFunction("math_median", []string{
			"local function " + nelgen.FunctionNamePlaceholder + "(t: auto): number",
			"  ## assert(t.type.is_vector)",
			"  if #t == 0 then",
			"    return 0",
			"  end",
			"  local temp: #[t.type] = {}",
			"  for _, v in ipairs(t) do",
			"    temp:push(v)",
			"  end",
			"  " + sort + "(temp, 0, #temp - 1, " + less + ", true)",
			"  local mid: integer = #temp // 2",
			"  if #temp % 2 == 0 then",
			"    return (temp[mid - 1] + temp[mid]) / 2",
			"  end",
			"  return temp[mid]",
			"end",
		})
	case "MODE":
		fn = g.ProvideFunction("math_modes", []string{
			"local function " + nelgen.FunctionNamePlaceholder + "(t: auto): #[t.type]",
			"  ## assert(t.type.is_vector)",
			"  local counts: hashmap(#[t.type.subtype]#, integer)",
			"  local maxCount: integer = 0",
			"  for _, v in ipairs(t) do",
			"    counts[v] = counts[v] + 1",
			"    if counts[v] > maxCount then",
			"      maxCount = counts[v]",
			"    end",
			"  end",
			"  local modes: #[t.type] = {}",
			"  for k, c in pairs(counts) do",
			"    if c == maxCount then",
			"      modes:push(k)",
			"    end",
			"  end",
			"  return modes",
			"end",
		})
	case "STD_DEV":
		sum := provideSum(g)
		fn = g.ProvideFunction("math_standard_deviation", []string{
			"local function " + nelgen.FunctionNamePlaceholder + "(t: auto): number",
			"  ## assert(t.type.is_vector)",
			"  if #t == 0 then",
			"    return 0",
			"  end",
			"  local mean: number = " + sum + "(t) / #t",
			"  local total: number = 0",
			"  for _, v in ipairs(t) do",
			"    local d: number = v - mean",
			"    total = total + d * d",
			"  end",
			"  return math.sqrt(total / #t)",
			"end",
		})
	case "RANDOM":
		fn = g.ProvideFunction("math_random_list", []string{
			"local function " + nelgen.FunctionNamePlaceholder + "(t: auto)",
			"  ## assert(t.type.is_vector)",
			"  if #t == 0 then",
			"    return nil",
			"  end",
			"  return t[math.random(0, #t - 1)]",
			"end",
		})
	default:
		return fail(nelgen.UnknownOperator(n, "OP"))
	}
	return value(fn+"("+list+")", nelgen.OrderHigh)
}

func provideSum(g *gen) string {
	return g.ProvideFunction("math_sum", []string{
		"local function " + nelgen.FunctionNamePlaceholder + "(t: auto): number",
		"  ## assert(t.type.is_vector)",
		"  local result: number = 0",
		"  for _, v in ipairs(t) do",
		"    result = result + v",
		"  end",
		"  return result",
		"end",
	})
}

func provideExtreme(g *gen, key, cmp string) string {
	return g.ProvideFunction(key, []string{
		"local function " + nelgen.FunctionNamePlaceholder + "(t: auto): number",
		"  ## assert(t.type.is_vector)",
		"  if #t == 0 then",
		"    return 0",
		"  end",
		"  local result: number = t[0]",
		"  for _, v in ipairs(t) do",
		"    if v " + cmp + " result then",
		"      result = v",
		"    end",
		"  end",
		"  return result",
		"end",
	})
}
