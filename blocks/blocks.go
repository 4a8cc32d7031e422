// Package blocks registers the mapping functions of the standard node kinds
// (logic, loops, math, text, lists, colour, variables and procedures) with
// nelgen.DefaultRegistry. Import it for its side effects:
//
//	import _ "github.com/mxkacsa/nelgen/blocks"
package blocks

import (
	"strconv"
	"strings"

	"github.com/mxkacsa/nelgen"
)

// Node kinds shared by more than one file.
const (
	KindText       nelgen.Kind = "text"
	KindMathNumber nelgen.Kind = "math_number"
)

// mapper shorthand used by every file of the package.
type (
	gen  = nelgen.Generator
	node = nelgen.Node
	code = nelgen.Code
)

func value(text string, order nelgen.Order) (code, error) {
	return nelgen.Value(text, order), nil
}

func statement(text string) (code, error) {
	return nelgen.Statement(text), nil
}

// decorated is statement for nodes that place the statement prefix and
// suffix themselves.
func decorated(text string) (code, error) {
	return nelgen.DecoratedStatement(text), nil
}

func fail(err error) (code, error) {
	return code{}, err
}

// negate prefixes an expression already composed at OrderUnary with a
// minus sign, keeping a leading minus from turning into a comment.
func negate(expr string) string {
	if strings.HasPrefix(expr, "-") {
		return "-(" + expr + ")"
	}
	return "-" + expr
}

// values fetches several value inputs at once. The first error wins.
type values struct {
	g   *gen
	n   *node
	err error
}

func inputs(g *gen, n *node) *values {
	return &values{g: g, n: n}
}

func (v *values) get(slot string, order nelgen.Order, fallback string) string {
	if v.err != nil {
		return ""
	}
	s, err := v.g.ValueOrDefault(v.n, slot, order, fallback)
	if err != nil {
		v.err = err
		return ""
	}
	return s
}

// at fetches the position slot for anchor where. Only FROM_START and
// FROM_END read it; other anchors leave the connected node ungenerated.
func (v *values) at(slot, where string, order nelgen.Order) string {
	if where != "FROM_START" && where != "FROM_END" {
		return ""
	}
	return v.get(slot, order, "1")
}

func (v *values) stmt(slot string) string {
	if v.err != nil {
		return ""
	}
	s, err := v.g.StatementToCode(v.n, slot)
	if err != nil {
		v.err = err
		return ""
	}
	return s
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
