package ast

import "github.com/latticelang/lattice/pkg/value"

// Expression is any node that the evaluator reduces to a value.Value
// (spec §4.1's "all constructs are expressions").
type Expression interface {
	Node
	exprNode()
}

type base struct {
	pos Position
}

// Pos returns the node's source position.
func (b base) Pos() Position { return b.pos }

func (base) exprNode() {}

// Literal wraps an already-constructed runtime value for literal tokens
// (numbers, strings, booleans, undef, default, regex, bare types).
type Literal struct {
	base
	Value value.Value
}

// NewLiteral builds a Literal node at pos.
func NewLiteral(pos Position, v value.Value) *Literal {
	return &Literal{base: base{pos}, Value: v}
}

// NameExpr is a bareword identifier reference (§4.2: class/defined-type/
// function names, hash keys written bare, etc.).
type NameExpr struct {
	base
	Name string
}

// QualifiedNameExpr is a "a::b::c"-shaped identifier.
type QualifiedNameExpr struct {
	base
	Name string
}

// VariableExpr is a "$name" reference, resolved against the active scope
// (§3, §4.3).
type VariableExpr struct {
	base
	Name string
}

// ArrayExpr is an array literal "[e1, e2, ...]".
type ArrayExpr struct {
	base
	Elements []Expression
}

// HashEntry is one key/value pair of a HashExpr.
type HashEntry struct {
	Key   Expression
	Value Expression
}

// HashExpr is a hash literal "{ k1 => v1, k2 => v2 }".
type HashExpr struct {
	base
	Entries []HashEntry
}

// BinaryExpr applies a binary operator (§4.7's precedence table) between
// two operand expressions. Op is the operator's textual token ("+", "==",
// "and", "=~", "in", "+>", "->", ...); pkg/operators maps it to a handler.
type BinaryExpr struct {
	base
	Op          string
	Left, Right Expression
}

// UnaryExpr applies a prefix operator ("!", "-", "*", "@", "@@") to one
// operand.
type UnaryExpr struct {
	base
	Op      string
	Operand Expression
}

// CaseOption is one "when ... : { ... }" arm of a CaseExpr.
type CaseOption struct {
	// Values is empty for the "default" arm.
	Values []Expression
	Body   []Expression
}

// CaseExpr is a "case $x { ... }" expression, evaluating to the last
// expression's value of the first matching arm (§4.6).
type CaseExpr struct {
	base
	Subject Expression
	Options []CaseOption
}

// IfExpr is "if/elsif/else", with Else nil when absent (§4.6). An
// "unless" is parsed as an IfExpr whose Cond the parser has already
// negated, per spec note in §4.6.
type IfExpr struct {
	base
	Cond   Expression
	Then   []Expression
	Elsif  []IfExpr
	Else   []Expression
}

// SelectorExpr is "$x ? { v1 => r1, v2 => r2, default => rd }" (§4.6).
type SelectorExpr struct {
	base
	Subject Expression
	Cases   []CaseOption
}

// ResourceAttribute is one "key => value" or "key +> value" pair inside a
// resource body.
type ResourceAttribute struct {
	Name  string
	Op    string // "=>" or "+>"
	Value Expression
}

// ResourceInstance is one titled body of a resource expression
// ("title: { attr => val, ... }").
type ResourceInstance struct {
	Title      Expression
	Attributes []ResourceAttribute
}

// ResourceExpr declares one or more resources of TypeName, normal,
// virtual ("@"), or exported ("@@") per Virtual/Exported (§4.4, §5(e)).
type ResourceExpr struct {
	base
	TypeName  string
	Virtual   bool
	Exported  bool
	Instances []ResourceInstance
}

// ResourceOverrideExpr is "Type['title'] { attr => val }", amending
// already-declared resource attributes (§4.4).
type ResourceOverrideExpr struct {
	base
	TypeName   string
	Title      Expression
	Attributes []ResourceAttribute
}

// CollectorExpr is "Type <| predicate |>" (virtual) or
// "Type <<| predicate |>>" (exported), §4.4/§5(e). Predicate is nil for
// an unconditional collection.
type CollectorExpr struct {
	base
	TypeName  string
	Exported  bool
	Predicate Expression
	// Overrides, if non-empty, are attribute amendments applied to every
	// resource the collector realizes ("Type <| |> { attr => val }").
	Overrides []ResourceAttribute
}

// FunctionCallExpr is "name(arg1, arg2) |$x| { ... }" — a builtin or
// autoloaded function call, with an optional trailing lambda block
// (§4.5, §8).
type FunctionCallExpr struct {
	base
	Name   string
	Args   []Expression
	Lambda *LambdaExpr // nil if no block was given
}

// LambdaExpr is a "|$a, $b| { ... }" block passed to an iterator
// function.
type LambdaExpr struct {
	base
	Params []LambdaParam
	Body   []Expression
}

// LambdaParam is one formal parameter of a lambda, with an optional type
// constraint and default value expression.
type LambdaParam struct {
	Name    string
	Type    Expression // nil if unconstrained
	Default Expression // nil if required
}

// AccessExpr is "expr[index]" or "Type[params]" (§4.2's parameterized
// type instantiation reuses this same syntax node).
type AccessExpr struct {
	base
	Target Expression
	Keys   []Expression
}

// TypeExpr references a bare type name, optionally already parameterized
// by the parser ("Integer[0, 10]", "Array[String]").
type TypeExpr struct {
	base
	Name   string
	Params []Expression
}

// EppRenderExpr is "inline_epp('<%= ... %>', $params)" or an "epp()"
// call already resolved to a template body by the parser (§8's EPP
// stream). Segments interleaves literal text and embedded expressions in
// source order.
type EppRenderExpr struct {
	base
	Segments []EppSegment
}

// EppSegment is one piece of a parsed EPP template: either a literal Text
// chunk or an embedded Expr ("<%= expr %>" / "<% expr %>").
type EppSegment struct {
	Text string     // valid when Expr == nil
	Expr Expression // valid when Text == ""
	// Trim mirrors the template's "<%-"/"-%>" whitespace-trim markers.
	TrimLeft, TrimRight bool
}
