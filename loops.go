package nelgen

import (
	"math"
	"strconv"
	"strings"
)

// Nelua has no continue statement. A continue becomes a goto to a label
// placed at the end of the innermost loop body. The label is only emitted
// when the body actually contains such a goto: the continue statement sets
// a flag on the innermost loop context, and LoopBody reads it back.

// ContinueLabelBase seeds the names of synthesized continue labels.
const ContinueLabelBase = "continue"

type loopContext struct {
	node      *Node
	label     string
	continued bool
}

// LoopBody generates the statement input slot of loop node n as a loop body.
// The body starts with the loop trap and the loop's statement suffix and
// ends with its statement prefix, since the loop statement is revisited on
// every iteration. The continue label follows when a continue statement
// inside the body targets this loop.
func (g *Generator) LoopBody(n *Node, slot string) (string, error) {
	lc := &loopContext{node: n}
	g.loops = append(g.loops, lc)
	branch, err := g.StatementToCode(n, slot)
	g.loops = g.loops[:len(g.loops)-1]
	if err != nil {
		return "", err
	}
	branch = g.LoopTrap(n) + g.Indented(g.StatementSuffix(n)) +
		branch + g.Indented(g.StatementPrefix(n))
	if lc.continued {
		branch += g.indent + "::" + lc.label + "::\n"
	}
	return branch, nil
}

// LoopTrap returns the configured loop trap for n, indented one level and
// newline terminated, or "" when no trap is configured.
func (g *Generator) LoopTrap(n *Node) string {
	return g.Indented(injectLine(g.loopTrap, n))
}

// InLoop reports whether a loop body is being generated.
func (g *Generator) InLoop() bool {
	return len(g.loops) > 0
}

// JumpPrefix returns the code placed before a break or continue node n.
// The statement after a jump never runs, so the node's own prefix and
// suffix come first, followed by the prefix of the innermost loop that the
// end of its body would otherwise have run.
func (g *Generator) JumpPrefix(n *Node) string {
	code := g.StatementPrefix(n) + g.StatementSuffix(n)
	if g.statementPrefix != "" && g.InLoop() {
		code += g.StatementPrefix(g.loops[len(g.loops)-1].node)
	}
	return code
}

// ContinueStatement returns the jump that skips to the next iteration of the
// innermost loop.
func (g *Generator) ContinueStatement() (string, error) {
	if len(g.loops) == 0 {
		return "", ErrFlowOutsideLoop
	}
	lc := g.loops[len(g.loops)-1]
	if lc.label == "" {
		lc.label = g.names.GetDistinctName(ContinueLabelBase, NamespaceTemporary)
	}
	lc.continued = true
	return "goto " + lc.label + "\n", nil
}

// BreakStatement returns the statement that leaves the innermost loop.
func (g *Generator) BreakStatement() (string, error) {
	if len(g.loops) == 0 {
		return "", ErrFlowOutsideLoop
	}
	return "break\n", nil
}

// CountLoop emits a loop running body count times. A literal count is
// folded; any other expression is floored once at loop entry.
func (g *Generator) CountLoop(count, body string) string {
	var last string
	if IsNumber(count) {
		f, _ := strconv.ParseFloat(strings.TrimSpace(count), 64)
		last = strconv.Itoa(int(f) - 1)
	} else {
		last = "math.floor(" + count + ") - 1"
	}
	loopVar := g.names.GetDistinctName("count", NamespaceVariable)
	return "for " + loopVar + " = 0, " + last + " do\n" + body + "end\n"
}

// ConditionLoop emits a while loop. With until set the loop runs while cond
// is false; cond must then be composed with at most OrderUnary.
func (g *Generator) ConditionLoop(cond string, until bool, body string) string {
	if until {
		cond = "not " + cond
	}
	return "while " + cond + " do\n" + body + "end\n"
}

// RangeLoop emits a numeric for loop from from to to stepping by |by|.
// The direction is fixed once at loop entry: statically when all three are
// literals, otherwise by a single runtime comparison of the bounds, which
// are first captured in locals unless they are plain names or numbers.
func (g *Generator) RangeLoop(variable, from, to, by, body string) string {
	if IsNumber(from) && IsNumber(to) && IsNumber(by) {
		start, _ := ParseNumber(from)
		end, _ := ParseNumber(to)
		step, _ := ParseNumber(by)
		inc := FormatNumber(math.Abs(step))
		if start > end {
			inc = "-" + inc
		}
		return "for " + variable + " = " + from + ", " + to + ", " + inc + " do\n" + body + "end\n"
	}

	var code strings.Builder
	if !IsSimple(from) {
		tmp := g.names.GetDistinctName(variable+"_start", NamespaceTemporary)
		code.WriteString("local " + tmp + " = " + from + "\n")
		from = tmp
	}
	if !IsSimple(to) {
		tmp := g.names.GetDistinctName(variable+"_end", NamespaceTemporary)
		code.WriteString("local " + tmp + " = " + to + "\n")
		to = tmp
	}
	inc := g.names.GetDistinctName(variable+"_inc", NamespaceTemporary)
	code.WriteString("local " + inc + " = ")
	if IsNumber(by) {
		step, _ := ParseNumber(by)
		code.WriteString(FormatNumber(math.Abs(step)) + "\n")
	} else {
		code.WriteString("math.abs(" + by + ")\n")
	}
	code.WriteString("if " + from + " > " + to + " then\n")
	code.WriteString(g.indent + inc + " = -" + inc + "\n")
	code.WriteString("end\n")
	code.WriteString("for " + variable + " = " + from + ", " + to + ", " + inc + " do\n" + body + "end\n")
	return code.String()
}

// CollectionLoop emits a loop binding variable to each element of list.
func (g *Generator) CollectionLoop(variable, list, body string) string {
	return "for _, " + variable + " in ipairs(" + list + ") do\n" + body + "end\n"
}
