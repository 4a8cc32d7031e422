package blocks

import (
	"strings"

	"github.com/mxkacsa/nelgen"
)

func init() {
	nelgen.MustRegister(nelgen.KindProcedureDefReturn, generateProcedure)
	nelgen.MustAlias(nelgen.KindProcedureDefNoReturn, nelgen.KindProcedureDefReturn)
	nelgen.MustRegister("procedures_callreturn", generateCallReturn)
	nelgen.MustRegister("procedures_callnoreturn", generateCallNoReturn)
	nelgen.MustRegister("procedures_ifreturn", generateIfReturn)
}

// generateProcedure stores the function definition among the pass
// definitions, keyed "%"+name, and emits nothing in place. The statement
// prefix and suffix open the body and are repeated before the return
// value when a body precedes it.
func generateProcedure(g *gen, n *node) (code, error) {
	name := g.ProcedureName(n, "NAME")
	in := inputs(g, n)
	branch := in.stmt("STACK")
	ret := in.get("RETURN", nelgen.OrderNone, "")
	if in.err != nil {
		return fail(in.err)
	}
	xfix := g.Indented(g.StatementPrefix(n) + g.StatementSuffix(n))
	revisit := ""
	if branch != "" && ret != "" {
		revisit = xfix
	}
	if ret != "" {
		ret = g.Indent() + "return " + ret + "\n"
	}

	params := n.Params()
	args := make([]string, len(params))
	for i, p := range params {
		args[i] = g.Names().GetName(p, nelgen.NamespaceVariable)
	}

	text := "local function " + name + "(" + strings.Join(args, ", ") + ")\n" +
		xfix + g.LoopTrap(n) + branch + revisit + ret + "end\n"
	text, err := g.Scrub(n, text)
	if err != nil {
		return fail(err)
	}
	g.AddDefinition("%"+name, text)
	return nelgen.None(), nil
}

func callArgs(g *gen, n *node) (string, error) {
	params := n.Params()
	args := make([]string, len(params))
	in := inputs(g, n)
	for i := range params {
		args[i] = in.get("ARG"+itoa(i), nelgen.OrderNone, "nil")
	}
	return strings.Join(args, ", "), in.err
}

func generateCallReturn(g *gen, n *node) (code, error) {
	args, err := callArgs(g, n)
	if err != nil {
		return fail(err)
	}
	return value(g.ProcedureName(n, "NAME")+"("+args+")", nelgen.OrderHigh)
}

func generateCallNoReturn(g *gen, n *node) (code, error) {
	args, err := callArgs(g, n)
	if err != nil {
		return fail(err)
	}
	return statement(g.ProcedureName(n, "NAME") + "(" + args + ")\n")
}

func generateIfReturn(g *gen, n *node) (code, error) {
	in := inputs(g, n)
	cond := in.get("CONDITION", nelgen.OrderNone, "false")
	ret := ""
	if n.Mutation != nil && n.Mutation.HasReturn {
		ret = " " + in.get("VALUE", nelgen.OrderNone, "nil")
	}
	if in.err != nil {
		return fail(in.err)
	}
	// The suffix would not run after the return.
	return statement("if " + cond + " then\n" + g.Indented(g.StatementSuffix(n)) +
		g.Indent() + "return" + ret + "\n" + "end\n")
}
