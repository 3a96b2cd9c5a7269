package eval

import (
	"strings"

	"github.com/latticelang/lattice/pkg/scope"
)

// ScopeGuard is a scoped acquisition that pushes a scope onto the
// context's scope stack and pops it on Close, guaranteeing release on
// every exit path including error unwinding (spec §5(ii)).
type ScopeGuard struct {
	ctx *Context
}

// PushScope creates a child scope named qualifiedName, parented under
// the current scope, registers it
// in the scope index, pushes it, and returns a guard whose Close pops
// it.
func (c *Context) PushScope(qualifiedName string, resource scope.ContainingResource) (*scope.Scope, *ScopeGuard) {
	parent := c.CurrentScope()
	s := scope.New(qualifiedName, parent, resource)
	c.scopeIndex.Register(s)
	c.scopeStack = append(c.scopeStack, s)
	return s, &ScopeGuard{ctx: c}
}

// PushEphemeralScope pushes an unnamed local scope (block bodies that
// don't establish a new namespace, e.g. an if/case branch's match
// scope companion) parented under the current scope. It is never
// registered in the scope index since it has no qualified name other
// callers could look up.
func (c *Context) PushEphemeralScope() (*scope.Scope, *ScopeGuard) {
	parent := c.CurrentScope()
	s := scope.New(parent.Qualify("<local>"), parent, nil)
	c.scopeStack = append(c.scopeStack, s)
	return s, &ScopeGuard{ctx: c}
}

// Close pops the scope this guard pushed. LIFO discipline is the
// caller's responsibility (spec §5: "nested acquisitions must unwind in
// LIFO order").
func (g *ScopeGuard) Close() {
	stack := g.ctx.scopeStack
	g.ctx.scopeStack = stack[:len(stack)-1]
	g.ctx.closeMatchGuardsAbove(len(g.ctx.scopeStack))
}

// NodeGuard registers the active node scope and clears it on Close
// (spec §5(iii)).
type NodeGuard struct {
	ctx *Context
}

// PushNodeScope records s as the context's node scope.
func (c *Context) PushNodeScope(s *scope.Scope) *NodeGuard {
	c.nodeScope = s
	return &NodeGuard{ctx: c}
}

// Close clears the node scope this guard set.
func (g *NodeGuard) Close() {
	g.ctx.nodeScope = nil
}

// NodeScope returns the active node scope, or nil if none is open.
func (c *Context) NodeScope() *scope.Scope {
	return c.nodeScope
}

// eppStream is one open EPP output buffer (spec §5(iv), §4.7's EPP
// render expressions).
type eppStream struct {
	buf strings.Builder
}

// EppGuard pops an EPP stream on Close, returning its accumulated text.
type EppGuard struct {
	ctx    *Context
	stream *eppStream
}

// PushEppStream opens a new EPP output stream on the context's stream
// stack.
func (c *Context) PushEppStream() *EppGuard {
	s := &eppStream{}
	c.eppStack = append(c.eppStack, s)
	return &EppGuard{ctx: c, stream: s}
}

// WriteEpp appends text to the innermost open EPP stream. It is a no-op,
// reported via the bool, if no EPP stream is open (spec §4.7:
// "epp-not-allowed" outside an EPP scope).
func (c *Context) WriteEpp(text string) bool {
	if len(c.eppStack) == 0 {
		return false
	}
	c.eppStack[len(c.eppStack)-1].buf.WriteString(text)
	return true
}

// InEpp reports whether an EPP stream is currently open.
func (c *Context) InEpp() bool {
	return len(c.eppStack) > 0
}

// Close pops this guard's stream and returns its accumulated text.
func (g *EppGuard) Close() string {
	stack := g.ctx.eppStack
	g.ctx.eppStack = stack[:len(stack)-1]
	return g.stream.buf.String()
}
