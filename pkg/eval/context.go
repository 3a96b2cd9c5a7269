package eval

import (
	"github.com/rs/zerolog"

	"github.com/latticelang/lattice/pkg/catalog"
	"github.com/latticelang/lattice/pkg/diagnostics"
	"github.com/latticelang/lattice/pkg/scope"
	"github.com/latticelang/lattice/pkg/value"
)

// Node is the external fact-and-identity collaborator a Context is
// bound to (spec §6's "node" input): a real implementation lives in
// pkg/compiler and is handed in by the caller of Compile.
type Node interface {
	Name() string
	Facts() *value.Hash
	EnvironmentName() string
}

// Context is the evaluation context (spec §4.6): it owns the node, the
// catalog, the scope index, the scope stack, the match stack, the EPP
// output-stream stack, the set of already-declared classes, and the
// four deferred-work queues that Finalize discharges.
type Context struct {
	Node    Node
	Catalog *catalog.Catalog
	Sink    diagnostics.Sink

	scopeIndex  *scope.Index
	scopeStack  []*scope.Scope
	nodeScope   *scope.Scope
	matchStack  *scope.MatchStack
	eppStack    []*eppStream

	declaredClasses map[string]*catalog.Resource

	collectors   []*CollectorItem
	definedTypes []*DefinedTypeInvocation
	overrides    []*OverrideItem
	relationships []*RelationshipItem

	// pendingMatchGuards holds match-stack guards opened by a bare
	// "=~"/"!~" expression not owned by a case/if/selector's own match
	// scope (spec §5(i)); each is tagged with the scope-stack depth it
	// was opened at, so the enclosing ScopeGuard.Close releases it when
	// that block exits, mirroring "captures persist to the end of the
	// containing block".
	pendingMatchGuards []*scope.Guard
	pendingMatchDepth  []int

	// IterationBound caps the number of finalization passes before
	// failing with KindNonConvergent (spec §4.6, Open Question: no
	// source-specified default, so a conservative 1000 is used).
	IterationBound int
}

// NewContext creates a context bound to node with a fresh empty
// catalog, top scope, and match stack.
func NewContext(node Node, cat *catalog.Catalog, sink diagnostics.Sink) *Context {
	top := scope.New("", nil, nil)
	idx := scope.NewIndex(top)

	ctx := &Context{
		Node:            node,
		Catalog:         cat,
		Sink:            sink,
		scopeIndex:      idx,
		scopeStack:      []*scope.Scope{top},
		matchStack:      scope.NewMatchStack(),
		declaredClasses: make(map[string]*catalog.Resource),
		IterationBound:  1000,
	}

	if node != nil {
		facts := node.Facts()
		if facts != nil {
			facts.Each(func(k, v value.Value) {
				_ = top.Set(k.AsString(), v)
			})
		}
	}
	return ctx
}

// TopScope returns the root scope of the scope stack.
func (c *Context) TopScope() *scope.Scope {
	return c.scopeStack[0]
}

// CurrentScope returns the top of the scope stack; always non-nil
// (spec §4.6: "current_scope() ... always non-null").
func (c *Context) CurrentScope() *scope.Scope {
	return c.scopeStack[len(c.scopeStack)-1]
}

// MatchStack exposes the context's match-variable stack to operators
// that push capture groups (=~, case, selector, if).
func (c *Context) MatchStack() *scope.MatchStack {
	return c.matchStack
}

// ScopeIndex exposes the qualified-lookup index for "a::b::c" variable
// resolution.
func (c *Context) ScopeIndex() *scope.Index {
	return c.scopeIndex
}

// ClassDeclared reports whether name has already been declared in this
// context (spec's class-singleton property).
func (c *Context) ClassDeclared(name string) (*catalog.Resource, bool) {
	r, ok := c.declaredClasses[name]
	return r, ok
}

// MarkClassDeclared records name as declared, owning resource r.
func (c *Context) MarkClassDeclared(name string, r *catalog.Resource) {
	c.declaredClasses[name] = r
}

// pushMatchGuard records g as opened at the current scope depth.
func (c *Context) pushMatchGuard(g *scope.Guard) {
	c.pendingMatchGuards = append(c.pendingMatchGuards, g)
	c.pendingMatchDepth = append(c.pendingMatchDepth, len(c.scopeStack))
}

// closeMatchGuardsAbove releases and discards every pending match guard
// opened at a scope depth deeper than depth.
func (c *Context) closeMatchGuardsAbove(depth int) {
	kept := c.pendingMatchGuards[:0]
	keptDepth := c.pendingMatchDepth[:0]
	for i, g := range c.pendingMatchGuards {
		if c.pendingMatchDepth[i] > depth {
			g.Close()
			continue
		}
		kept = append(kept, g)
		keptDepth = append(keptDepth, c.pendingMatchDepth[i])
	}
	c.pendingMatchGuards = kept
	c.pendingMatchDepth = keptDepth
}

// ZerologSinkLevel is a convenience for callers constructing a
// diagnostics.ZerologSink to hand to NewContext.
func ZerologSinkLevel(logger zerolog.Logger) diagnostics.Sink {
	return diagnostics.NewZerologSink(logger)
}
