package scope

import "fmt"

// Index maps a fully-qualified scope name to the Scope instance, backing
// §4.3's qualified lookup ("a::b::c resolves a::b through the registry's
// scope index and reads c there"). The evaluation context owns one Index
// for the lifetime of a compile.
type Index struct {
	byName map[string]*Scope
}

// NewIndex creates an empty scope index seeded with the top scope.
func NewIndex(top *Scope) *Index {
	idx := &Index{byName: make(map[string]*Scope)}
	idx.byName[""] = top
	return idx
}

// Register records scope under its fully-qualified name. It overwrites
// any previous registration for the same name; callers are responsible
// for class-singleton enforcement (pkg/registry + pkg/eval own that).
func (idx *Index) Register(s *Scope) {
	idx.byName[s.Name()] = s
}

// Lookup returns the scope registered under name, if any.
func (idx *Index) Lookup(name string) (*Scope, bool) {
	s, ok := idx.byName[name]
	return s, ok
}

// ResolveQualified implements qualify/lookup for "a::b::c": it resolves
// the namespace "a::b" via the index and returns that scope plus the
// local name "c" to read there. It returns an error if the namespace has
// no registered scope (an undefined-symbol condition at the caller).
func (idx *Index) ResolveQualified(qualified string) (*Scope, string, error) {
	namespace, local := SplitQualified(qualified)
	if namespace == "" {
		if s, ok := idx.byName[""]; ok {
			return s, local, nil
		}
		return nil, local, fmt.Errorf("no top scope registered")
	}
	s, ok := idx.byName[namespace]
	if !ok {
		return nil, local, fmt.Errorf("unknown scope namespace %q", namespace)
	}
	return s, local, nil
}
