// Package catalog implements the resource store the evaluator populates
// (spec §5's "Catalog" module): resources keyed by (type, title),
// relationship edges between them, and containment edges recording
// which class or defined-type instance declared each resource.
//
// Catalog owns no application/transport semantics: realizing a resource
// against a real host is explicitly out of scope (spec's non-goal on
// catalog-application).
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/latticelang/lattice/pkg/ast"
	"github.com/latticelang/lattice/pkg/diagnostics"
	"github.com/latticelang/lattice/pkg/value"
)

// Key uniquely identifies a resource by its canonicalized type name and
// title (spec §5: "Resource identity is (type, title), case-insensitive
// on type").
type Key struct {
	Type  string
	Title string
}

// String renders "Type['title']".
func (k Key) String() string {
	return fmt.Sprintf("%s['%s']", k.Type, k.Title)
}

// Resource is one catalog entry: its attribute bag plus the bookkeeping
// the finalization driver and relationship graph need.
type Resource struct {
	Key        Key
	Attributes map[string]value.Value
	// AttrOrder preserves first-set order for deterministic Display.
	AttrOrder []string
	Virtual   bool
	Exported  bool
	// DeclaredAt is the source position of the declaring resource
	// expression, for redefinition diagnostics.
	DeclaredAt ast.Position
	// Containment is the key of the class/defined-type scope that
	// declared this resource ("" for resources declared at top scope).
	Containment string
}

// ResourceKey implements pkg/scope.ContainingResource so a *Resource can
// back a lexical scope directly.
func (r *Resource) ResourceKey() string { return r.Key.String() }

// RelationshipKind is one of Puppet's four ordering/notification edge
// types (spec §5(e), §5's edge operators).
type RelationshipKind int

const (
	// RelBefore: source must be applied before target, no notification.
	RelBefore RelationshipKind = iota
	// RelRequire: target must be applied after source, no notification.
	RelRequire
	// RelNotify: source must be applied before target; target refreshes
	// if source changed.
	RelNotify
	// RelSubscribe: target must be applied after source; target
	// refreshes if source changed.
	RelSubscribe
)

// Edge is one relationship between two resources.
type Edge struct {
	Kind        RelationshipKind
	Source, Target Key
}

// Catalog is the full set of resources and edges built up over one
// compile.
type Catalog struct {
	resources map[Key]*Resource
	order     []Key // first-declared order, for deterministic iteration
	edges     []Edge
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{resources: make(map[Key]*Resource)}
}

// CanonicalKey lowercases the type component only; titles are
// case-sensitive (spec §5).
func CanonicalKey(typeName, title string) Key {
	return Key{Type: strings.ToLower(typeName), Title: title}
}

// Add declares a new resource. It fails with a redefinition diagnostic
// whenever (type, title) already exists in the catalog, whatever the
// two declarations contain.
func (c *Catalog) Add(r *Resource) error {
	if existing, ok := c.resources[r.Key]; ok {
		return diagnostics.At(diagnostics.KindRedefinition, r.DeclaredAt,
			fmt.Sprintf("resource %s already declared at %s", r.Key, existing.DeclaredAt)).
			WithSymbol(r.Key.String())
	}
	c.resources[r.Key] = r
	c.order = append(c.order, r.Key)
	return nil
}

// Find looks up a resource by key.
func (c *Catalog) Find(key Key) (*Resource, bool) {
	r, ok := c.resources[key]
	return r, ok
}

// All returns every resource in first-declared order.
func (c *Catalog) All() []*Resource {
	out := make([]*Resource, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.resources[k])
	}
	return out
}

// SetAttribute applies op ("=>" or "+>") to set name on the resource at
// key. "=>" overwrites; "+>" appends, turning a scalar value into a
// 2-element array and appending to an existing array, per the
// merge-semantics resolution recorded in DESIGN.md.
func (c *Catalog) SetAttribute(key Key, name, op string, val value.Value) error {
	r, ok := c.resources[key]
	if !ok {
		return diagnostics.New(diagnostics.KindUndefinedSymbol,
			fmt.Sprintf("cannot set attribute %q: resource %s not found", name, key)).WithSymbol(key.String())
	}
	switch op {
	case "=>", "=":
		r.setAttr(name, val)
	case "+>":
		existing, had := r.Attributes[name]
		if !had {
			r.setAttr(name, val)
			return nil
		}
		r.setAttr(name, appendAttribute(existing, val))
	default:
		return diagnostics.New(diagnostics.KindInternal, fmt.Sprintf("unknown attribute operator %q", op))
	}
	return nil
}

func (r *Resource) setAttr(name string, val value.Value) {
	if r.Attributes == nil {
		r.Attributes = make(map[string]value.Value)
	}
	if _, had := r.Attributes[name]; !had {
		r.AttrOrder = append(r.AttrOrder, name)
	}
	r.Attributes[name] = val
}

// appendAttribute implements "+>"'s append-or-promote rule.
func appendAttribute(existing, addition value.Value) value.Value {
	var elems []value.Value
	if existing.Kind() == value.ArrayKind {
		elems = append(elems, existing.AsArray().Elements()...)
	} else {
		elems = append(elems, existing)
	}
	if addition.Kind() == value.ArrayKind {
		elems = append(elems, addition.AsArray().Elements()...)
	} else {
		elems = append(elems, addition)
	}
	return value.Arr(value.NewArray(elems))
}

// AddEdge records a relationship edge between two already-declared
// resources.
func (c *Catalog) AddEdge(kind RelationshipKind, source, target Key) error {
	if _, ok := c.resources[source]; !ok {
		return diagnostics.New(diagnostics.KindUndefinedSymbol,
			fmt.Sprintf("relationship source %s not found", source)).WithSymbol(source.String())
	}
	if _, ok := c.resources[target]; !ok {
		return diagnostics.New(diagnostics.KindUndefinedSymbol,
			fmt.Sprintf("relationship target %s not found", target)).WithSymbol(target.String())
	}
	c.edges = append(c.edges, Edge{Kind: kind, Source: source, Target: target})
	return nil
}

// Edges returns every relationship edge in declared order.
func (c *Catalog) Edges() []Edge {
	out := make([]Edge, len(c.edges))
	copy(out, c.edges)
	return out
}

// ByType returns every resource of the given type, sorted by title, for
// collector queries (spec §5(e)).
func (c *Catalog) ByType(typeName string) []*Resource {
	canonical := strings.ToLower(typeName)
	var out []*Resource
	for _, k := range c.order {
		if k.Type == canonical {
			out = append(out, c.resources[k])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key.Title < out[j].Key.Title })
	return out
}
