package nelgen

import (
	"fmt"
	"sort"
	"sync"
)

// ============================================================================
// Node Registry - maps node kinds to mapping functions
// ============================================================================
//
// Mapping functions are registered once at startup, normally from an init()
// function of the package that implements them:
//
//	func init() {
//	    nelgen.MustRegister("text_print", func(g *nelgen.Generator, n *nelgen.Node) (nelgen.Code, error) {
//	        msg, err := g.ValueOrDefault(n, "TEXT", nelgen.OrderNone, "''")
//	        if err != nil {
//	            return nelgen.Code{}, err
//	        }
//	        return nelgen.Statement("print(" + msg + ")\n"), nil
//	    })
//	}
//
// Looking up a kind nobody registered yields an UnknownKindError.

// Mapper translates one node into code. Value nodes return Value(...),
// statement nodes return Statement(...). Mappers call back into the
// Generator for their inputs.
type Mapper func(g *Generator, n *Node) (Code, error)

// Registry is a typed dispatch table from Kind to Mapper.
type Registry struct {
	mu      sync.RWMutex
	mappers map[Kind]Mapper
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{mappers: make(map[Kind]Mapper)}
}

// DefaultRegistry is used by generators created without WithRegistry.
var DefaultRegistry = NewRegistry()

// Register adds a mapping function for kind.
func (r *Registry) Register(kind Kind, m Mapper) error {
	if kind == "" {
		return fmt.Errorf("node kind cannot be empty")
	}
	if m == nil {
		return fmt.Errorf("node kind %s: mapper cannot be nil", kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.mappers[kind]; exists {
		return fmt.Errorf("node kind %s is already registered", kind)
	}
	r.mappers[kind] = m
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(kind Kind, m Mapper) {
	if err := r.Register(kind, m); err != nil {
		panic(fmt.Sprintf("failed to register node kind %s: %v", kind, err))
	}
}

// Alias registers kind with the mapper already registered for target.
func (r *Registry) Alias(kind, target Kind) error {
	m, err := r.Lookup(target)
	if err != nil {
		return err
	}
	return r.Register(kind, m)
}

// Lookup returns the mapper for kind or an UnknownKindError.
func (r *Registry) Lookup(kind Kind) (Mapper, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.mappers[kind]
	if !ok {
		return nil, &UnknownKindError{Kind: kind}
	}
	return m, nil
}

// Has reports whether kind is registered.
func (r *Registry) Has(kind Kind) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.mappers[kind]
	return ok
}

// Kinds returns all registered kinds, sorted.
func (r *Registry) Kinds() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]Kind, 0, len(r.mappers))
	for k := range r.mappers {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Unregister removes kind. This is primarily useful for testing.
func (r *Registry) Unregister(kind Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.mappers, kind)
}

// Register adds a mapping function to DefaultRegistry.
func Register(kind Kind, m Mapper) error {
	return DefaultRegistry.Register(kind, m)
}

// MustRegister adds a mapping function to DefaultRegistry and panics on error.
func MustRegister(kind Kind, m Mapper) {
	DefaultRegistry.MustRegister(kind, m)
}

// MustAlias makes kind share the mapper of target in DefaultRegistry.
func MustAlias(kind, target Kind) {
	if err := DefaultRegistry.Alias(kind, target); err != nil {
		panic(fmt.Sprintf("failed to alias node kind %s: %v", kind, err))
	}
}
