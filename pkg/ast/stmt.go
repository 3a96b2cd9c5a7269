package ast

// Parameter is one formal parameter of a class or defined-type
// definition: a typed, optionally-defaulted "$name" (§4.4).
type Parameter struct {
	Name    string
	Type    Expression // nil if unconstrained
	Default Expression // nil if required
}

// ClassDefinition is a "class name(params) inherits parent { body }"
// declaration (§4.4). It is itself a Node but not an Expression: classes
// are declared, not evaluated for a value.
type ClassDefinition struct {
	base
	Name    string
	Params  []Parameter
	Parent  string // "" if no "inherits" clause
	Body    []Expression
}

// DefinedTypeDefinition is a "define name(params) { body }" declaration
// (§4.4). Unlike a class, a defined type may be declared multiple times
// with distinct titles.
type DefinedTypeDefinition struct {
	base
	Name   string
	Params []Parameter
	Body   []Expression
}

// NodeMatcher is one "node <matcher> { ... }" clause's selector: either a
// literal hostname, a regex, or the "default" wildcard.
type NodeMatcherKind int

const (
	// NodeMatcherExact matches a literal hostname.
	NodeMatcherExact NodeMatcherKind = iota
	// NodeMatcherRegex matches a hostname regex.
	NodeMatcherRegex
	// NodeMatcherDefault matches any node with no more specific match.
	NodeMatcherDefault
)

// NodeMatcher pairs a NodeMatcherKind with its literal or regex pattern.
type NodeMatcher struct {
	Kind    NodeMatcherKind
	Pattern string
}

// NodeDefinition is a "node <matcher> { body }" declaration (§4.4's node
// scope, resolved by pkg/registry's longest-match-then-regex-then-default
// rule).
type NodeDefinition struct {
	base
	Matchers []NodeMatcher
	Body     []Expression
}

// TopLevel is the root of one parsed source file: a sequence of
// class/defined-type/node declarations interleaved with top-level
// expressions (resource declarations, variable assignments at top
// scope, etc).
type TopLevel struct {
	base
	Classes      []*ClassDefinition
	DefinedTypes []*DefinedTypeDefinition
	Nodes        []*NodeDefinition
	Statements   []Expression
}
