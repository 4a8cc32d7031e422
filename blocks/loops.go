package blocks

import (
	"fmt"

	"github.com/mxkacsa/nelgen"
)

func init() {
	nelgen.MustRegister("controls_repeat_ext", generateRepeat)
	nelgen.MustAlias("controls_repeat", "controls_repeat_ext")
	nelgen.MustRegister("controls_whileUntil", generateWhileUntil)
	nelgen.MustRegister("controls_for", generateFor)
	nelgen.MustRegister("controls_forEach", generateForEach)
	nelgen.MustRegister("controls_flow_statements", generateFlow)
}

// generateRepeat handles both the TIMES field (controls_repeat) and the
// TIMES value input (controls_repeat_ext).
func generateRepeat(g *gen, n *node) (code, error) {
	var repeats string
	if n.HasField("TIMES") {
		f, ok := nelgen.ParseNumber(n.Field("TIMES"))
		if !ok {
			return fail(fmt.Errorf("invalid repeat count %q", n.Field("TIMES")))
		}
		repeats = nelgen.FormatNumber(f)
	} else {
		var err error
		repeats, err = g.ValueOrDefault(n, "TIMES", nelgen.OrderNone, "0")
		if err != nil {
			return fail(err)
		}
	}
	body, err := g.LoopBody(n, "DO")
	if err != nil {
		return fail(err)
	}
	return statement(g.CountLoop(repeats, body))
}

func generateWhileUntil(g *gen, n *node) (code, error) {
	var until bool
	switch n.Field("MODE") {
	case "WHILE":
	case "UNTIL":
		until = true
	default:
		return fail(nelgen.UnknownOperator(n, "MODE"))
	}
	order := nelgen.OrderNone
	if until {
		order = nelgen.OrderUnary
	}
	cond, err := g.ValueOrDefault(n, "BOOL", order, "false")
	if err != nil {
		return fail(err)
	}
	body, err := g.LoopBody(n, "DO")
	if err != nil {
		return fail(err)
	}
	return statement(g.ConditionLoop(cond, until, body))
}

func generateFor(g *gen, n *node) (code, error) {
	variable := g.VariableName(n, "VAR")
	in := inputs(g, n)
	from := in.get("FROM", nelgen.OrderNone, "0")
	to := in.get("TO", nelgen.OrderNone, "0")
	by := in.get("BY", nelgen.OrderNone, "1")
	if in.err != nil {
		return fail(in.err)
	}
	body, err := g.LoopBody(n, "DO")
	if err != nil {
		return fail(err)
	}
	return statement(g.RangeLoop(variable, from, to, by, body))
}

func generateForEach(g *gen, n *node) (code, error) {
	variable := g.VariableName(n, "VAR")
	list, err := g.ValueOrDefault(n, "LIST", nelgen.OrderNone, "{}")
	if err != nil {
		return fail(err)
	}
	body, err := g.LoopBody(n, "DO")
	if err != nil {
		return fail(err)
	}
	return statement(g.CollectionLoop(variable, list, body))
}

func generateFlow(g *gen, n *node) (code, error) {
	var stmt string
	var err error
	switch n.Field("FLOW") {
	case "BREAK":
		stmt, err = g.BreakStatement()
	case "CONTINUE":
		stmt, err = g.ContinueStatement()
	default:
		return fail(nelgen.UnknownOperator(n, "FLOW"))
	}
	if err != nil {
		return fail(err)
	}
	return decorated(g.JumpPrefix(n) + stmt)
}
