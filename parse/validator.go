package parse

import (
	"fmt"
	"strings"

	"github.com/mxkacsa/nelgen"
)

// Validator validates a decoded graph
type Validator interface {
	Validate(graph *nelgen.Graph) error
}

// walk visits every node with its document path.
func walk(graph *nelgen.Graph, fn func(path string, n *nelgen.Node)) {
	for i, n := range graph.Nodes {
		walkNode(fmt.Sprintf("nodes[%d]", i), n, fn)
	}
}

func walkNode(path string, n *nelgen.Node, fn func(string, *nelgen.Node)) {
	for n != nil {
		fn(path, n)
		for j, in := range n.Inputs {
			if in.Node == nil {
				continue
			}
			name := in.Name
			if name == "" {
				name = fmt.Sprint(j)
			}
			walkNode(path+".inputs["+name+"]", in.Node, fn)
		}
		n = n.Next
		path += ".next"
	}
}

// RequiredFieldsValidator validates that required fields are present
type RequiredFieldsValidator struct{}

// Validate validates required fields
func (v *RequiredFieldsValidator) Validate(graph *nelgen.Graph) error {
	var errors []string

	for i, variable := range graph.Variables {
		if variable.Name == "" {
			errors = append(errors, fmt.Sprintf("variables[%d]: name is required", i))
		}
	}

	walk(graph, func(path string, n *nelgen.Node) {
		if n.Kind == "" {
			errors = append(errors, path+": kind is required")
		}
		for j, in := range n.Inputs {
			if in.Name == "" {
				errors = append(errors, fmt.Sprintf("%s.inputs[%d]: name is required", path, j))
			}
		}
		if (n.Kind == nelgen.KindProcedureDefReturn || n.Kind == nelgen.KindProcedureDefNoReturn) && n.Field("NAME") == "" {
			errors = append(errors, path+": procedure NAME field is required")
		}
	})

	if len(errors) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}
	return nil
}

// ShapeValidator checks the graph structure: unique ids, known input
// types and a single top-level definition per procedure name.
type ShapeValidator struct{}

// Validate validates the graph structure
func (v *ShapeValidator) Validate(graph *nelgen.Graph) error {
	var errors []string

	varIDs := make(map[string]bool)
	for i, variable := range graph.Variables {
		if variable.ID == "" {
			continue
		}
		if varIDs[variable.ID] {
			errors = append(errors, fmt.Sprintf("variables[%d]: duplicate id %q", i, variable.ID))
		}
		varIDs[variable.ID] = true
	}

	nodeIDs := make(map[string]string)
	walk(graph, func(path string, n *nelgen.Node) {
		if n.ID != "" {
			if first, ok := nodeIDs[n.ID]; ok {
				errors = append(errors, fmt.Sprintf("%s: duplicate node id %q (first at %s)", path, n.ID, first))
			} else {
				nodeIDs[n.ID] = path
			}
		}
		for _, in := range n.Inputs {
			switch in.Type {
			case "", nelgen.InputValue, nelgen.InputStatement:
			default:
				errors = append(errors, fmt.Sprintf("%s.inputs[%s]: unknown input type %q", path, in.Name, in.Type))
			}
		}
	})

	procs := make(map[string]bool)
	for _, name := range graph.Procedures() {
		key := strings.ToLower(name)
		if procs[key] {
			errors = append(errors, fmt.Sprintf("procedure %q is defined more than once", name))
		}
		procs[key] = true
	}

	if len(errors) > 0 {
		return fmt.Errorf("shape validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}
	return nil
}

// KindValidator rejects node kinds no mapping function is registered for.
type KindValidator struct {
	Registry *nelgen.Registry
}

// Validate validates node kinds
func (v *KindValidator) Validate(graph *nelgen.Graph) error {
	registry := v.Registry
	if registry == nil {
		registry = nelgen.DefaultRegistry
	}

	var errors []error
	walk(graph, func(path string, n *nelgen.Node) {
		if n.Kind != "" && !registry.Has(n.Kind) {
			errors = append(errors, &NodeError{
				Path:    path,
				NodeID:  n.ID,
				Message: (&nelgen.UnknownKindError{Kind: n.Kind}).Error(),
			})
		}
	})
	return CombineErrors(errors...)
}
