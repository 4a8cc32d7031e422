// Package nelgen generates Nelua source code from visual node graphs.
// Node kinds are mapped to code by functions held in a Registry; the
// standard kinds live in the blocks package.
package nelgen

// ============================================================================
// Generator - Design Notes
// ============================================================================
//
// A Generator is the context of one generation pass. It owns every piece of
// mutable state the pass needs:
//
//   - the NameDB (variable, procedure and temporary identifiers)
//   - the Definitions cache (shared helper functions, procedure bodies)
//   - the loop stack used to place continue labels
//
// Nothing is global, so independent generators never interfere. A single
// Generator must not run two passes at the same time; Generate resets the
// state at the end of every pass, successful or not.
//
// The pass is plain recursive descent: mapping functions looked up in the
// Registry call ValueToCode / StatementToCode for their inputs, which in
// turn call NodeToCode on the connected children.
//
// ============================================================================

import (
	"strings"
	"time"

	"github.com/mxkacsa/nelgen/trace"
)

// Defaults used by New.
const (
	DefaultIndent      = "  "
	DefaultCommentWrap = 60
)

// DefaultPrelude lists the modules required at the top of every program.
var DefaultPrelude = []string{"string", "math", "vector", "io"}

// Code is what a mapping function produces for a node.
type Code struct {
	Text    string
	Order   Order
	IsValue bool
	// Comment holds the comment block of a top-level value node. Statement
	// comments are already part of Text.
	Comment string
	// Decorated statements already contain their statement prefix and
	// suffix, so NodeToCode leaves them alone.
	Decorated bool

	skip bool
}

// Value returns an expression result with the given binding strength.
func Value(text string, order Order) Code {
	return Code{Text: text, Order: order, IsValue: true}
}

// Statement returns statement code. Text should end with a newline.
func Statement(text string) Code {
	return Code{Text: text}
}

// DecoratedStatement returns statement code that places the statement
// prefix and suffix itself.
func DecoratedStatement(text string) Code {
	return Code{Text: text, Decorated: true}
}

// None tells the generator the node produced its output by other means,
// for example by storing a procedure definition. Nothing else is emitted,
// not even the following nodes.
func None() Code {
	return Code{skip: true}
}

// Option configures a Generator.
type Option func(*Generator)

// WithIndent sets the indentation unit of nested blocks and helper bodies.
func WithIndent(indent string) Option {
	return func(g *Generator) { g.indent = indent }
}

// WithCommentWrap sets the column at which node comments are wrapped.
func WithCommentWrap(width int) Option {
	return func(g *Generator) { g.commentWrap = width }
}

// WithLoopTrap sets code injected at the top of every loop body.
// "%1" is replaced with the quoted id of the loop node.
func WithLoopTrap(trap string) Option {
	return func(g *Generator) { g.loopTrap = trap }
}

// WithStatementPrefix sets code emitted before every statement node.
// "%1" is replaced with the quoted id of the node.
func WithStatementPrefix(prefix string) Option {
	return func(g *Generator) { g.statementPrefix = prefix }
}

// WithStatementSuffix sets code emitted after every statement node.
// "%1" is replaced with the quoted id of the node.
func WithStatementSuffix(suffix string) Option {
	return func(g *Generator) { g.statementSuffix = suffix }
}

// WithPrelude replaces the list of modules required by the program.
func WithPrelude(modules ...string) Option {
	return func(g *Generator) { g.prelude = modules }
}

// WithReservedWords adds words the NameDB must never hand out.
func WithReservedWords(words ...string) Option {
	return func(g *Generator) { g.reserved = append(g.reserved, words...) }
}

// WithRegistry makes the generator dispatch through r instead of DefaultRegistry.
func WithRegistry(r *Registry) Option {
	return func(g *Generator) { g.registry = r }
}

// WithHook reports generation events to h.
func WithHook(h trace.Hook) Option {
	return func(g *Generator) { g.hook = h }
}

// Generator translates a Graph into Nelua source.
type Generator struct {
	indent          string
	commentWrap     int
	loopTrap        string
	statementPrefix string
	statementSuffix string
	prelude         []string
	reserved        []string
	registry        *Registry
	hook            trace.Hook

	names *NameDB
	defs  *Definitions
	loops []*loopContext
	pass  string
}

// New creates a generator with a fresh NameDB and Definitions cache.
func New(opts ...Option) *Generator {
	g := &Generator{
		indent:      DefaultIndent,
		commentWrap: DefaultCommentWrap,
		prelude:     DefaultPrelude,
		reserved:    ReservedWords(),
		registry:    DefaultRegistry,
		hook:        trace.NoopHook{},
		defs:        NewDefinitions(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.names = NewNameDB(g.reserved)
	return g
}

// Names returns the name table of the current pass.
func (g *Generator) Names() *NameDB {
	return g.names
}

// Indent returns the indentation unit.
func (g *Generator) Indent() string {
	return g.indent
}

// Indented indents every line of text by one level. Empty text stays empty.
func (g *Generator) Indented(text string) string {
	if text == "" {
		return ""
	}
	return PrefixLines(text, g.indent)
}

// Init primes the name table with the graph's variables and procedures.
// It must run before any node is visited.
func (g *Generator) Init(graph *Graph) {
	g.reset()
	g.pass = graph.Name
	g.names.PopulateVariables(graph)
	g.names.PopulateProcedures(graph)
}

// Finish prepends the prelude and the flushed definitions to code, each
// section separated by a blank line, then resets all pass state.
func (g *Generator) Finish(code string) string {
	var sections []string
	if len(g.prelude) > 0 {
		var b strings.Builder
		for _, module := range g.prelude {
			b.WriteString("require \"" + module + "\"\n")
		}
		sections = append(sections, b.String())
	}
	for _, def := range g.defs.Flush() {
		sections = append(sections, strings.TrimRight(def, "\n")+"\n")
	}
	sections = append(sections, code)
	g.reset()
	return strings.Join(sections, "\n")
}

func (g *Generator) reset() {
	g.names.Reset()
	g.defs.Reset()
	g.loops = nil
}

// ScrubNakedValue turns a top-level expression into a statement. Nelua does
// not accept bare expressions, so the value is bound to the discard name.
func ScrubNakedValue(line string) string {
	return "local _ = " + line + "\n"
}

// Generate runs a complete pass over graph and returns the program text.
func (g *Generator) Generate(graph *Graph) (string, error) {
	start := time.Now()
	g.Init(graph)
	g.hook.OnPassStart(g.pass)

	var parts []string
	for _, n := range graph.Nodes {
		c, err := g.NodeToCode(n, false)
		if err != nil {
			g.reset()
			g.hook.OnPassEnd(g.pass, since(start), err)
			return "", err
		}
		if c.Text == "" {
			continue
		}
		line := c.Text
		if c.IsValue {
			line = c.Comment + ScrubNakedValue(line)
		}
		parts = append(parts, line)
	}

	pass := g.pass
	code := cleanup(g.Finish(strings.Join(parts, "\n")))
	g.hook.OnPassEnd(pass, since(start), nil)
	return code, nil
}

// NodeToCode generates n and, unless thisOnly is set, every node chained
// after it. Disabled nodes are skipped.
func (g *Generator) NodeToCode(n *Node, thisOnly bool) (Code, error) {
	return g.nodeToCode(n, thisOnly, false)
}

// nodeToCode is NodeToCode with inline set for nodes plugged into a value
// input.
func (g *Generator) nodeToCode(n *Node, thisOnly, inline bool) (Code, error) {
	if n == nil {
		return Code{}, nil
	}
	if n.Disabled {
		if thisOnly {
			return Code{}, nil
		}
		return g.nodeToCode(n.Next, false, false)
	}

	m, err := g.registry.Lookup(n.Kind)
	if err != nil {
		err = wrapNodeError(n, err)
		g.hook.OnNodeError(g.pass, n.ID, err)
		return Code{}, err
	}

	start := time.Now()
	g.hook.OnNodeStart(g.pass, n.ID, string(n.Kind))
	c, err := m(g, n)
	if err != nil {
		err = wrapNodeError(n, err)
		g.hook.OnNodeError(g.pass, n.ID, err)
		return Code{}, err
	}
	order := -1
	if c.IsValue {
		order = int(c.Order)
	}
	g.hook.OnNodeEnd(g.pass, n.ID, string(n.Kind), order, since(start))

	if c.skip {
		return Code{}, nil
	}
	if !c.IsValue && !c.Decorated {
		c.Text = g.StatementPrefix(n) + c.Text + g.StatementSuffix(n)
	}
	return g.scrub(n, c, thisOnly, inline)
}

// Scrub attaches the comments of n to statement code the way NodeToCode
// would. Mapping functions that store their output as a definition use it
// before returning None.
func (g *Generator) Scrub(n *Node, code string) (string, error) {
	c, err := g.scrub(n, Statement(code), true, false)
	if err != nil {
		return "", err
	}
	return c.Text, nil
}

// scrub attaches comments and the code of the following nodes.
func (g *Generator) scrub(n *Node, c Code, thisOnly, inline bool) (Code, error) {
	var comment strings.Builder
	// Inline nodes leave their comments to the consuming statement.
	if !inline {
		if n.Comment != "" {
			wrapped := Wrap(n.Comment, g.commentWrap-3)
			comment.WriteString(PrefixLines(wrapped, "-- ") + "\n")
		}
		// Value inputs only; nested statements carry their own comments.
		for _, in := range n.Inputs {
			if in.inputType() != InputValue || in.Node == nil {
				continue
			}
			if nested := AllNestedComments(in.Node); nested != "" {
				comment.WriteString(PrefixLines(nested, "-- "))
			}
		}
	}

	if c.IsValue {
		c.Comment = comment.String()
		return c, nil
	}

	next := ""
	if !thisOnly && n.Next != nil {
		nc, err := g.NodeToCode(n.Next, false)
		if err != nil {
			return Code{}, err
		}
		if nc.IsValue {
			return Code{}, wrapNodeError(n.Next, ErrExpectedStatement)
		}
		next = nc.Text
	}
	c.Text = comment.String() + c.Text + next
	return c, nil
}

// AllNestedComments collects the comments of n and all of its descendants,
// one per line, each line terminated by a newline.
func AllNestedComments(n *Node) string {
	var comments []string
	n.Walk(func(d *Node) {
		if d.Comment != "" {
			comments = append(comments, d.Comment)
		}
	})
	if len(comments) == 0 {
		return ""
	}
	return strings.Join(comments, "\n") + "\n"
}

// ValueToCode generates the expression connected to slot, wrapped in
// parentheses when it binds looser than outer. It returns "" when nothing
// is connected.
func (g *Generator) ValueToCode(n *Node, slot string, outer Order) (string, error) {
	child := n.Input(slot)
	if child == nil {
		return "", nil
	}
	c, err := g.nodeToCode(child, false, true)
	if err != nil {
		return "", err
	}
	if c.Text == "" {
		return "", nil
	}
	if !c.IsValue {
		return "", wrapNodeError(child, ErrExpectedValue)
	}
	if NeedsParens(c.Order, outer) {
		return "(" + c.Text + ")", nil
	}
	return c.Text, nil
}

// ValueOrDefault is ValueToCode with fallback used for an empty slot.
// The fallback is inserted as is.
func (g *Generator) ValueOrDefault(n *Node, slot string, outer Order, fallback string) (string, error) {
	code, err := g.ValueToCode(n, slot, outer)
	if err != nil {
		return "", err
	}
	if code == "" {
		return fallback, nil
	}
	return code, nil
}

// StatementToCode generates the statement chain connected to slot,
// indented by one level.
func (g *Generator) StatementToCode(n *Node, slot string) (string, error) {
	child := n.Input(slot)
	if child == nil {
		return "", nil
	}
	c, err := g.NodeToCode(child, false)
	if err != nil {
		return "", err
	}
	if c.IsValue {
		return "", wrapNodeError(child, ErrExpectedStatement)
	}
	if c.Text == "" {
		return "", nil
	}
	return PrefixLines(c.Text, g.indent), nil
}

// ProvideFunction returns the name of the shared helper stored under key,
// defining it from lines on first use. Lines refer to the helper's own name
// through FunctionNamePlaceholder.
func (g *Generator) ProvideFunction(key string, lines []string) string {
	name, created := g.defs.Provide(g.names, key, lines, g.indent)
	g.hook.OnHelper(g.pass, key, name, created)
	return name
}

// AddDefinition stores code once under key, in registration order.
func (g *Generator) AddDefinition(key, code string) {
	g.defs.Add(key, code)
}

// Definitions returns the definition cache of the current pass.
func (g *Generator) Definitions() *Definitions {
	return g.defs
}

// VariableName returns the identifier of the variable referenced by field.
func (g *Generator) VariableName(n *Node, field string) string {
	return g.names.GetName(n.Field(field), NamespaceVariable)
}

// ProcedureName returns the identifier of the procedure referenced by field.
func (g *Generator) ProcedureName(n *Node, field string) string {
	return g.names.GetName(n.Field(field), NamespaceProcedure)
}

// InjectID replaces %1 in code with the quoted node id.
func InjectID(code string, n *Node) string {
	return strings.ReplaceAll(code, "%1", "'"+n.ID+"'")
}

// StatementPrefix returns the configured statement prefix for n, newline
// terminated, or "" when none is configured.
func (g *Generator) StatementPrefix(n *Node) string {
	return injectLine(g.statementPrefix, n)
}

// StatementSuffix returns the configured statement suffix for n, newline
// terminated, or "" when none is configured.
func (g *Generator) StatementSuffix(n *Node) string {
	return injectLine(g.statementSuffix, n)
}

func injectLine(code string, n *Node) string {
	if code == "" {
		return ""
	}
	code = InjectID(code, n)
	if !strings.HasSuffix(code, "\n") {
		code += "\n"
	}
	return code
}

// cleanup drops leading blank lines and trailing spaces and makes sure the
// program ends with exactly one newline.
func cleanup(code string) string {
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	code = strings.TrimRight(strings.Join(lines, "\n"), " \t\r\n")
	return code + "\n"
}

func since(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
