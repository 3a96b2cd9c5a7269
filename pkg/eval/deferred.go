package eval

import (
	"github.com/latticelang/lattice/pkg/ast"
	"github.com/latticelang/lattice/pkg/catalog"
	"github.com/latticelang/lattice/pkg/scope"
	"github.com/latticelang/lattice/pkg/value"
)

// CollectorItem is a queued virtual/exported resource query (spec §3's
// deferred queue (a)), discharged by Finalize step 1.
type CollectorItem struct {
	TypeName  string
	Exported  bool
	Predicate ast.Expression
	Overrides []ast.ResourceAttribute
	// OwnerScope is the scope whose resource gets the containment edge
	// to every resource this collector realizes.
	OwnerScope *scope.Scope
	Pos        ast.Position

	matched map[catalog.Key]bool // realized-already set, to skip on repeat passes
}

// DefinedTypeInvocation is a queued defined-type body evaluation (spec
// §3's deferred queue (b)), discharged by Finalize step 2. Unlike a
// class, a defined type may be invoked many times, once per (type,
// title).
type DefinedTypeInvocation struct {
	DefName    string
	Key        catalog.Key
	Args       map[string]value.Value
	Resource   *catalog.Resource
	ParentScope *scope.Scope
	Pos        ast.Position

	evaluated bool
}

// OverrideItem is a queued "Type['title'] { attr => val }" amendment
// (spec §3's deferred queue (c)), discharged by Finalize step 3 once
// its target resource exists.
type OverrideItem struct {
	Key        catalog.Key
	Attributes []ast.ResourceAttribute
	CaptureScope *scope.Scope
	Pos        ast.Position

	applied bool
}

// RelationshipItem is a queued resource-ordering/notification edge
// (spec §3's deferred queue (d)), discharged unconditionally by
// Finalize step 4.
type RelationshipItem struct {
	Kind    catalog.RelationshipKind
	Sources []catalog.Key
	Targets []catalog.Key
	Pos     ast.Position
}

// EnqueueCollector registers a collector for discharge during
// finalization.
func (c *Context) EnqueueCollector(item *CollectorItem) {
	item.matched = make(map[catalog.Key]bool)
	c.collectors = append(c.collectors, item)
}

// EnqueueDefinedType registers a defined-type invocation. Called both
// from the main tree walk and, recursively, from Finalize step 2 when a
// defined-type body itself declares more defined types.
func (c *Context) EnqueueDefinedType(item *DefinedTypeInvocation) {
	c.definedTypes = append(c.definedTypes, item)
}

// EnqueueOverride registers an override for discharge once its target
// exists. It only queues; applying an override whose target is already
// in the catalog is done by the caller (evalOverride) without queueing.
func (c *Context) EnqueueOverride(item *OverrideItem) {
	c.overrides = append(c.overrides, item)
}

// EnqueueRelationship registers a relationship for discharge during
// Finalize step 4.
func (c *Context) EnqueueRelationship(item *RelationshipItem) {
	c.relationships = append(c.relationships, item)
}
