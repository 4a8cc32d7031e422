package blocks

import (
	"strings"

	"github.com/mxkacsa/nelgen"
)

func init() {
	nelgen.MustRegister("controls_if", generateIf)
	nelgen.MustAlias("controls_ifelse", "controls_if")
	nelgen.MustRegister("logic_compare", generateCompare)
	nelgen.MustRegister("logic_operation", generateOperation)
	nelgen.MustRegister("logic_negate", generateNegate)
	nelgen.MustRegister("logic_boolean", generateBoolean)
	nelgen.MustRegister("logic_null", generateNull)
	nelgen.MustRegister("logic_ternary", generateTernary)
}

// generateIf emits an if/elseif/else chain for IF0..IFn / DO0..DOn plus ELSE.
// The statement prefix runs once before the chain and the statement suffix
// at the start of every branch, so a configured suffix forces an else.
func generateIf(g *gen, n *node) (code, error) {
	in := inputs(g, n)
	suffix := g.Indented(g.StatementSuffix(n))
	var b strings.Builder
	b.WriteString(g.StatementPrefix(n))
	for i := 0; ; i++ {
		cond := in.get("IF"+itoa(i), nelgen.OrderNone, "false")
		branch := in.stmt("DO" + itoa(i))
		if in.err != nil {
			return fail(in.err)
		}
		if i > 0 {
			b.WriteString("else")
		}
		b.WriteString("if " + cond + " then\n" + suffix + branch)
		if !n.HasInput("IF" + itoa(i+1)) {
			break
		}
	}
	if n.HasInput("ELSE") || (n.Mutation != nil && n.Mutation.Else) || suffix != "" {
		branch := in.stmt("ELSE")
		if in.err != nil {
			return fail(in.err)
		}
		b.WriteString("else\n" + suffix + branch)
	}
	b.WriteString("end\n")
	return decorated(b.String())
}

var compareOperators = map[string]string{
	"EQ":  "==",
	"NEQ": "~=",
	"LT":  "<",
	"LTE": "<=",
	"GT":  ">",
	"GTE": ">=",
}

func generateCompare(g *gen, n *node) (code, error) {
	op, ok := compareOperators[n.Field("OP")]
	if !ok {
		return fail(nelgen.UnknownOperator(n, "OP"))
	}
	order := nelgen.OrderRelational
	in := inputs(g, n)
	a := in.get("A", order, "0")
	b := in.get("B", order.Tighter(), "0")
	if in.err != nil {
		return fail(in.err)
	}
	return value(a+" "+op+" "+b, order)
}

func generateOperation(g *gen, n *node) (code, error) {
	var op string
	var order nelgen.Order
	switch n.Field("OP") {
	case "AND":
		op, order = "and", nelgen.OrderAnd
	case "OR":
		op, order = "or", nelgen.OrderOr
	default:
		return fail(nelgen.UnknownOperator(n, "OP"))
	}

	in := inputs(g, n)
	a := in.get("A", order, "")
	b := in.get("B", order, "")
	if in.err != nil {
		return fail(in.err)
	}
	// A missing operand is the identity of the operator; both missing is false.
	switch {
	case a == "" && b == "":
		a, b = "false", "false"
	case a == "" || b == "":
		identity := "true"
		if op == "or" {
			identity = "false"
		}
		if a == "" {
			a = identity
		} else {
			b = identity
		}
	}
	return value(a+" "+op+" "+b, order)
}

func generateNegate(g *gen, n *node) (code, error) {
	arg, err := g.ValueOrDefault(n, "BOOL", nelgen.OrderUnary, "true")
	if err != nil {
		return fail(err)
	}
	return value("not "+arg, nelgen.OrderUnary)
}

func generateBoolean(g *gen, n *node) (code, error) {
	if n.Field("BOOL") == "TRUE" {
		return value("true", nelgen.OrderAtomic)
	}
	return value("false", nelgen.OrderAtomic)
}

func generateNull(g *gen, n *node) (code, error) {
	return value("nil", nelgen.OrderAtomic)
}

// generateTernary uses the and/or idiom, which yields the ELSE value when
// THEN evaluates to false or nil.
func generateTernary(g *gen, n *node) (code, error) {
	in := inputs(g, n)
	cond := in.get("IF", nelgen.OrderAnd, "false")
	then := in.get("THEN", nelgen.OrderAnd, "nil")
	els := in.get("ELSE", nelgen.OrderOr, "nil")
	if in.err != nil {
		return fail(in.err)
	}
	return value(cond+" and "+then+" or "+els, nelgen.OrderOr)
}
