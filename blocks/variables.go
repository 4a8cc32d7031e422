package blocks

import "github.com/mxkacsa/nelgen"

func init() {
	nelgen.MustRegister("variables_get", generateVariableGet)
	nelgen.MustRegister("variables_set", generateVariableSet)
	nelgen.MustAlias("variables_get_dynamic", "variables_get")
	nelgen.MustAlias("variables_set_dynamic", "variables_set")
}

func generateVariableGet(g *gen, n *node) (code, error) {
	return value(g.VariableName(n, "VAR"), nelgen.OrderAtomic)
}

func generateVariableSet(g *gen, n *node) (code, error) {
	arg, err := g.ValueOrDefault(n, "VALUE", nelgen.OrderNone, "0")
	if err != nil {
		return fail(err)
	}
	return statement("local " + g.VariableName(n, "VAR") + " = " + arg + "\n")
}
