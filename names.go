package nelgen

import (
	"regexp"
	"strconv"
	"strings"
)

// Namespace is an independent allocation domain of the NameDB.
// All namespaces share the reserved word set and the pool of handed-out
// identifiers, so a variable and a helper function can never collide.
type Namespace string

const (
	NamespaceVariable  Namespace = "VARIABLE"
	NamespaceProcedure Namespace = "PROCEDURE"
	NamespaceTemporary Namespace = "TEMPORARY"
)

// UnnamedLabel replaces empty labels.
const UnnamedLabel = "unnamed"

var nonWordChars = regexp.MustCompile(`[^\w]`)

// NameDB allocates collision-free identifiers for one generation pass.
type NameDB struct {
	reserved  map[string]bool
	db        map[string]string // normalised key + namespace -> name
	used      map[string]bool   // every name handed out
	variables map[string]string // variable id -> display name
	varIDs    map[string]string // lower-cased display name -> variable id
}

// NewNameDB creates a NameDB that never returns any of the reserved words.
func NewNameDB(reserved []string) *NameDB {
	n := &NameDB{reserved: make(map[string]bool, len(reserved))}
	for _, w := range reserved {
		n.reserved[w] = true
	}
	n.Reset()
	return n
}

// Reset drops every binding. Must run between independent passes.
func (n *NameDB) Reset() {
	n.db = make(map[string]string)
	n.used = make(map[string]bool)
	n.variables = make(map[string]string)
	n.varIDs = make(map[string]string)
}

// SetVariables registers the declared variables so GetName can resolve a
// variable id to its display name.
func (n *NameDB) SetVariables(vars []Variable) {
	for _, v := range vars {
		if v.ID != "" {
			n.variables[v.ID] = v.Name
			n.varIDs[strings.ToLower(v.Name)] = v.ID
		}
	}
}

// PopulateVariables reserves a name for every declared variable.
func (n *NameDB) PopulateVariables(graph *Graph) {
	n.SetVariables(graph.Variables)
	for _, v := range graph.Variables {
		key := v.ID
		if key == "" {
			key = v.Name
		}
		n.GetName(key, NamespaceVariable)
	}
}

// PopulateProcedures reserves a name for every procedure defined in graph.
func (n *NameDB) PopulateProcedures(graph *Graph) {
	for _, name := range graph.Procedures() {
		n.GetName(name, NamespaceProcedure)
	}
}

// GetName returns the identifier bound to key in ns, allocating it on first use.
func (n *NameDB) GetName(key string, ns Namespace) string {
	label := key
	if ns == NamespaceVariable {
		// A declared variable may be referenced by id or by display name.
		if id, ok := n.varIDs[strings.ToLower(key)]; ok {
			if _, isID := n.variables[key]; !isID {
				key = id
			}
		}
		if name, ok := n.variables[key]; ok {
			label = name
		}
	}
	normalized := strings.ToLower(key) + "_" + string(ns)
	if name, ok := n.db[normalized]; ok {
		return name
	}
	name := n.GetDistinctName(label, ns)
	n.db[normalized] = name
	return name
}

// GetDistinctName allocates a name seeded from label that has never been
// handed out before. It is used for compiler-introduced temporaries.
func (n *NameDB) GetDistinctName(label string, ns Namespace) string {
	base := SafeName(label)
	name := base
	for i := 2; n.used[name] || n.reserved[name]; i++ {
		name = base + strconv.Itoa(i)
	}
	n.used[name] = true
	return name
}

// IsReserved reports whether word may never be allocated verbatim.
func (n *NameDB) IsReserved(word string) bool {
	return n.reserved[word]
}

// SafeName turns a human label into a legal identifier.
func SafeName(label string) string {
	if label == "" {
		return UnnamedLabel
	}
	name := strings.ReplaceAll(label, " ", "_")
	name = nonWordChars.ReplaceAllString(name, "_")
	if name[0] >= '0' && name[0] <= '9' {
		name = "my_" + name
	}
	return name
}
