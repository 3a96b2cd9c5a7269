package scope

import (
	"fmt"
	"strings"

	"github.com/latticelang/lattice/pkg/value"
)

// ContainingResource is the minimal surface a scope needs from the
// resource it was created for (a class or node body); pkg/catalog's
// *catalog.Resource satisfies it without pkg/scope importing pkg/catalog.
type ContainingResource interface {
	ResourceKey() string
}

// Scope owns a name-to-value map, a parent for lexical inheritance, and
// an optional containing resource (§3).
type Scope struct {
	name     string
	parent   *Scope
	resource ContainingResource
	vars     map[string]value.Value
}

// New creates a scope. name is the scope's fully-qualified name ("" for
// the top scope). parent may be nil only for the top scope.
func New(name string, parent *Scope, resource ContainingResource) *Scope {
	return &Scope{
		name:     name,
		parent:   parent,
		resource: resource,
		vars:     make(map[string]value.Value),
	}
}

// Name returns the scope's fully-qualified name.
func (s *Scope) Name() string { return s.name }

// Parent returns the lexical parent, or nil for the top scope.
func (s *Scope) Parent() *Scope { return s.parent }

// Resource returns the scope's containing resource, or nil.
func (s *Scope) Resource() ContainingResource { return s.resource }

// Qualify prefixes local with this scope's fully-qualified name, per
// §4.3's qualify(local).
func (s *Scope) Qualify(local string) string {
	if s.name == "" {
		return local
	}
	return s.name + "::" + local
}

// Set assigns name to val in this scope only. It fails with a
// redefinition error if name is already bound here (§4.3: "no variable
// may be assigned twice in the same scope").
func (s *Scope) Set(name string, val value.Value) error {
	if _, exists := s.vars[name]; exists {
		return fmt.Errorf("cannot reassign variable %q in scope %q: already bound in this scope", name, s.displayName())
	}
	s.vars[name] = val
	return nil
}

// SetLocal is like Set but used for assignments that are permitted to
// shadow the same name as long as it was introduced in this exact call
// (e.g. a defined-type's own parameter binding on entry); it still
// forbids re-assignment.
func (s *Scope) SetLocal(name string, val value.Value) error {
	return s.Set(name, val)
}

// Get searches this scope, then the parent chain, then the top scope (the
// root of the parent chain), returning undef (not an error) if
// unresolved, per §4.3.
func (s *Scope) Get(name string) value.Value {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v
		}
	}
	return value.Undefined()
}

// GetLocal returns the value bound directly in this scope, without
// walking the parent chain.
func (s *Scope) GetLocal(name string) (value.Value, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Has reports whether name is bound in this scope or any ancestor.
func (s *Scope) Has(name string) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if _, ok := cur.vars[name]; ok {
			return true
		}
	}
	return false
}

func (s *Scope) displayName() string {
	if s.name == "" {
		return "<top>"
	}
	return s.name
}

// SplitQualified splits a qualified name "a::b::c" into its namespace
// ("a::b") and local part ("c"), per §4.3's qualified lookup rule.
// A bare name with no "::" returns ("", name).
func SplitQualified(qualified string) (namespace, local string) {
	idx := strings.LastIndex(qualified, "::")
	if idx < 0 {
		return "", qualified
	}
	return qualified[:idx], qualified[idx+2:]
}
