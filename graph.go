package nelgen

import "strings"

// Kind identifies the mapping function responsible for a node.
type Kind string

// Procedure definition kinds. The engine needs them to prime the name table
// before any node is visited.
const (
	KindProcedureDefReturn   Kind = "procedures_defreturn"
	KindProcedureDefNoReturn Kind = "procedures_defnoreturn"
)

// InputType tells whether an input holds an expression or a statement chain.
type InputType string

const (
	InputValue     InputType = "value"
	InputStatement InputType = "statement"
)

// Graph is one visual program: declared variables plus the top-level nodes.
type Graph struct {
	Name      string     `json:"name,omitempty" yaml:"name,omitempty" msgpack:"name,omitempty"`
	Variables []Variable `json:"variables,omitempty" yaml:"variables,omitempty" msgpack:"variables,omitempty"`
	Nodes     []*Node    `json:"nodes" yaml:"nodes" msgpack:"nodes"`
}

// Variable is a variable declared in the graph's workspace.
type Variable struct {
	ID   string `json:"id,omitempty" yaml:"id,omitempty" msgpack:"id,omitempty"`
	Name string `json:"name" yaml:"name" msgpack:"name"`
	Type string `json:"type,omitempty" yaml:"type,omitempty" msgpack:"type,omitempty"`
}

// Node is one unit of the visual graph. It is read-only during a pass.
type Node struct {
	ID       string            `json:"id,omitempty" yaml:"id,omitempty" msgpack:"id,omitempty"`
	Kind     Kind              `json:"kind" yaml:"kind" msgpack:"kind"`
	Fields   map[string]string `json:"fields,omitempty" yaml:"fields,omitempty" msgpack:"fields,omitempty"`
	Inputs   []Input           `json:"inputs,omitempty" yaml:"inputs,omitempty" msgpack:"inputs,omitempty"`
	Next     *Node             `json:"next,omitempty" yaml:"next,omitempty" msgpack:"next,omitempty"`
	Comment  string            `json:"comment,omitempty" yaml:"comment,omitempty" msgpack:"comment,omitempty"`
	Output   bool              `json:"output,omitempty" yaml:"output,omitempty" msgpack:"output,omitempty"`
	Disabled bool              `json:"disabled,omitempty" yaml:"disabled,omitempty" msgpack:"disabled,omitempty"`
	Mutation *Mutation         `json:"mutation,omitempty" yaml:"mutation,omitempty" msgpack:"mutation,omitempty"`
}

// Input is a named slot on a node. Node is nil when nothing is connected.
type Input struct {
	Name string    `json:"name" yaml:"name" msgpack:"name"`
	Type InputType `json:"type,omitempty" yaml:"type,omitempty" msgpack:"type,omitempty"`
	Node *Node     `json:"node,omitempty" yaml:"node,omitempty" msgpack:"node,omitempty"`
}

// Mutation carries the shape of nodes with a variable number of slots.
type Mutation struct {
	Items     int      `json:"items,omitempty" yaml:"items,omitempty" msgpack:"items,omitempty"`
	ElseIf    int      `json:"elseif,omitempty" yaml:"elseif,omitempty" msgpack:"elseif,omitempty"`
	Else      bool     `json:"else,omitempty" yaml:"else,omitempty" msgpack:"else,omitempty"`
	Params    []string `json:"params,omitempty" yaml:"params,omitempty" msgpack:"params,omitempty"`
	HasReturn bool     `json:"hasReturn,omitempty" yaml:"hasReturn,omitempty" msgpack:"hasReturn,omitempty"`
}

// Walk visits every node of the graph depth first: inputs before next.
func (g *Graph) Walk(fn func(*Node)) {
	for _, n := range g.Nodes {
		n.Walk(fn)
	}
}

// Procedures lists the names of the procedures defined at the top level.
func (g *Graph) Procedures() []string {
	var names []string
	for _, n := range g.Nodes {
		if n.Kind == KindProcedureDefReturn || n.Kind == KindProcedureDefNoReturn {
			if name := n.Field("NAME"); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

func (in Input) inputType() InputType {
	if in.Type == "" {
		return InputValue
	}
	return in.Type
}

// Walk visits n and all of its descendants in order: n, inputs, next.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, in := range n.Inputs {
		in.Node.Walk(fn)
	}
	n.Next.Walk(fn)
}

// Field returns the value of a named field, or "" when it is absent.
func (n *Node) Field(name string) string {
	return n.Fields[name]
}

// HasField reports whether the node declares the named field.
func (n *Node) HasField(name string) bool {
	_, ok := n.Fields[name]
	return ok
}

// Input returns the node connected to the named slot.
func (n *Node) Input(name string) *Node {
	for _, in := range n.Inputs {
		if in.Name == name {
			return in.Node
		}
	}
	return nil
}

// HasInput reports whether the node declares the named slot, connected or not.
func (n *Node) HasInput(name string) bool {
	for _, in := range n.Inputs {
		if in.Name == name {
			return true
		}
	}
	return false
}

// InputCount returns how many declared slots start with prefix.
func (n *Node) InputCount(prefix string) int {
	count := 0
	for _, in := range n.Inputs {
		if strings.HasPrefix(in.Name, prefix) {
			count++
		}
	}
	return count
}

// ItemCount returns the number of repeated slots named prefix0..prefixN-1.
// The mutation wins when present.
func (n *Node) ItemCount(prefix string) int {
	if n.Mutation != nil && n.Mutation.Items > 0 {
		return n.Mutation.Items
	}
	return n.InputCount(prefix)
}

// Params returns the procedure parameter names of a definition or call node.
func (n *Node) Params() []string {
	if n.Mutation == nil {
		return nil
	}
	return n.Mutation.Params
}
